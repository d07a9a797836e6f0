// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

// Package report renders analytics snapshots as chat-friendly plain text.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/spinwatch/internal/analytics"
	"github.com/tomtom215/spinwatch/internal/models"
	"github.com/tomtom215/spinwatch/internal/window"
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04:05"

	barFilled = "█"
	barEmpty  = "░"

	emptyGrid = "—"
)

// Options controls report layout.
type Options struct {
	TableName string
	Location  *time.Location
	BarWidth  int
	PerRow    int
}

// DefaultOptions returns the standard layout.
func DefaultOptions() Options {
	return Options{
		TableName: "Mega Roulette",
		Location:  time.UTC,
		BarWidth:  20,
		PerRow:    5,
	}
}

// Input is everything one report needs.
type Input struct {
	Snapshot     analytics.Snapshot
	Progress     window.Progress
	Connectivity models.Connectivity
}

// Renderer builds report text. It holds no mutable state.
type Renderer struct {
	opts Options
	now  func() time.Time
}

// NewRenderer creates a renderer. A nil clock means time.Now.
func NewRenderer(opts Options, now func() time.Time) *Renderer {
	def := DefaultOptions()
	if opts.TableName == "" {
		opts.TableName = def.TableName
	}
	if opts.Location == nil {
		opts.Location = def.Location
	}
	if opts.BarWidth <= 0 {
		opts.BarWidth = def.BarWidth
	}
	if opts.PerRow <= 0 {
		opts.PerRow = def.PerRow
	}
	if now == nil {
		now = time.Now
	}
	return &Renderer{opts: opts, now: now}
}

// Report renders the fixed message body.
func (r *Renderer) Report(in Input) string {
	s := in.Snapshot
	now := r.now().In(r.opts.Location)

	var b strings.Builder
	r.header(&b, "🤖 Analysis bot running", now)

	if in.Progress.Ready {
		fmt.Fprintf(&b, "✅ Window complete, report active\n\n")
		fmt.Fprintf(&b, "📊 REPORT: last %d\n", in.Progress.Size)
	} else {
		fmt.Fprintf(&b, "📊 PRE-REPORT: building window of %d\n", in.Progress.Size)
	}
	fmt.Fprintf(&b, "⏱ Updated: %s\n", now.Format(timeLayout))

	fmt.Fprintf(&b, "\n\n📥 Loading history for analysis…\n")
	fmt.Fprintf(&b, "Progress: %s %d/%d (%d%%)\n",
		ProgressBar(in.Progress.Count, in.Progress.Size, r.opts.BarWidth),
		in.Progress.Count, in.Progress.Size, in.Progress.Percent)

	fmt.Fprintf(&b, "\n\n🔢 LAST NUMBERS (%d)\n\n%s\n", len(s.Numbers), NumberGrid(s.Numbers, r.opts.PerRow))
	fmt.Fprintf(&b, "\n\n🎨 COLORS (%d)\n\n%s\n", len(s.Numbers), ColorGrid(s.Numbers, r.opts.PerRow))

	fmt.Fprintf(&b, "\n\n📌 COUNTS (%d)\n\n", s.Label)
	fmt.Fprintf(&b, "• Even: %d (%d%%)\n", s.Even, s.PctEven)
	fmt.Fprintf(&b, "• Odd: %d (%d%%)\n", s.Odd, s.PctOdd)
	fmt.Fprintf(&b, "• Zero: %d 🟢 (%d%%)\n\n", s.Zeros, s.PctZeros)
	fmt.Fprintf(&b, "• Red: %d 🔴 (%d%%)\n", s.Red, s.PctRed)
	fmt.Fprintf(&b, "• Black: %d ⚫ (%d%%)\n", s.Black, s.PctBlack)
	fmt.Fprintf(&b, "• Green: %d 🟢\n\n", s.Green)
	fmt.Fprintf(&b, "• Low (1–18): %d ⬇️ (%d%%)\n", s.Low, s.PctLow)
	fmt.Fprintf(&b, "• High (19–36): %d ⬆️ (%d%%)\n", s.High, s.PctHigh)

	fmt.Fprintf(&b, "\n\n🏆 RANKINGS (%d)\n", s.Label)
	ranking(&b, "Dozens", s.DozenRanking)
	ranking(&b, "Columns", s.ColumnRanking)
	ranking(&b, "Regions", s.RegionRanking)

	fmt.Fprintf(&b, "\n\n📍 DOMINANCE (%d)\n\n", s.Label)
	fmt.Fprintf(&b, "• Dominant dozen: %s\n", s.DominantDozen)
	fmt.Fprintf(&b, "• Dominant column: %s\n", s.DominantColumn)

	if c := in.Connectivity; !c.Connected() && c.LastError != "" {
		fmt.Fprintf(&b, "\n\n⚠️ ERROR / CONNECTION\n\nFeed offline: %s\n", c.LastError)
	}
	return b.String()
}

// Paused renders the notice shown in the fixed message after a stop.
func (r *Renderer) Paused() string {
	now := r.now().In(r.opts.Location)
	var b strings.Builder
	fmt.Fprintf(&b, "⏸️ Bot paused\n\n")
	fmt.Fprintf(&b, "🎰 TABLE: %s\n", r.opts.TableName)
	fmt.Fprintf(&b, "📅 Date: %s\n\n", now.Format(dateLayout))
	fmt.Fprintf(&b, "Use /start to resume.\n")
	return b.String()
}

// Status renders a status report.
func (r *Renderer) Status(st models.StatusReport) string {
	bot := "OFF ⏸️"
	if st.Running {
		bot = "ON ✅"
	}
	feed := "disconnected ⚠️"
	if st.Feed.Connected() {
		feed = "connected ✅"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 STATUS\n\n")
	fmt.Fprintf(&b, "• Bot: %s\n", bot)
	fmt.Fprintf(&b, "• Feed: %s\n", feed)
	fmt.Fprintf(&b, "• Window: %d\n", st.WindowSize)
	fmt.Fprintf(&b, "• Progress: %d/%d (%d%%)\n", min(st.WindowLength, st.WindowSize), st.WindowSize, st.ProgressPct)
	fmt.Fprintf(&b, "• Accepted: %d\n", st.TotalAccepted)
	if st.LastValue != nil {
		fmt.Fprintf(&b, "• Last number: %d\n", *st.LastValue)
	}
	if st.Feed.LastError != "" {
		fmt.Fprintf(&b, "\n• Last error: %s\n", st.Feed.LastError)
	}
	return b.String()
}

func (r *Renderer) header(b *strings.Builder, title string, now time.Time) {
	fmt.Fprintf(b, "%s\n\n", title)
	fmt.Fprintf(b, "🎰 TABLE: %s\n", r.opts.TableName)
	fmt.Fprintf(b, "📅 Date: %s\n\n", now.Format(dateLayout))
}

func ranking(b *strings.Builder, title string, buckets []analytics.Bucket) {
	fmt.Fprintf(b, "\n%s:\n", title)
	for i, bucket := range buckets {
		fmt.Fprintf(b, "%d. %s: %d (%d%%)\n", i+1, bucket.Label, bucket.Count, bucket.Pct)
	}
}

// ProgressBar draws a fixed-width bar for count out of size.
func ProgressBar(count, size, width int) string {
	filled := 0
	if size > 0 {
		filled = min(max(count*width/size, 0), width)
	}
	return strings.Repeat(barFilled, filled) + strings.Repeat(barEmpty, width-filled)
}

// NumberGrid lays numbers out perRow to a line, right aligned to two digits.
func NumberGrid(numbers []int, perRow int) string {
	return grid(numbers, perRow, "  ", func(n int) string { return fmt.Sprintf("%2d", n) })
}

// ColorGrid lays the pocket colors out perRow to a line.
func ColorGrid(numbers []int, perRow int) string {
	return grid(numbers, perRow, " ", colorEmoji)
}

func grid(numbers []int, perRow int, sep string, cell func(int) string) string {
	if len(numbers) == 0 {
		return emptyGrid
	}
	lines := make([]string, 0, (len(numbers)+perRow-1)/perRow)
	for start := 0; start < len(numbers); start += perRow {
		row := numbers[start:min(start+perRow, len(numbers))]
		cells := make([]string, len(row))
		for i, n := range row {
			cells[i] = cell(n)
		}
		lines = append(lines, strings.Join(cells, sep))
	}
	return strings.Join(lines, "\n")
}

func colorEmoji(n int) string {
	switch analytics.ColorOf(n) {
	case analytics.Red:
		return "🔴"
	case analytics.Black:
		return "⚫"
	default:
		return "🟢"
	}
}
