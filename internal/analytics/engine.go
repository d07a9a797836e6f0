// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package analytics

import (
	"math"
	"slices"

	"github.com/tomtom215/spinwatch/internal/models"
)

// NoDominant is the dominance label used when every bucket is empty.
const NoDominant = "—"

// Bucket is one ranked group.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Pct   int    `json:"pct"`
}

// Snapshot holds the statistics for one window.
type Snapshot struct {
	Label   int `json:"label"`
	Total   int `json:"total"`
	NonZero int `json:"non_zero"`

	Zeros int `json:"zeros"`
	Even  int `json:"even"`
	Odd   int `json:"odd"`
	Red   int `json:"red"`
	Black int `json:"black"`
	Green int `json:"green"`
	Low   int `json:"low"`
	High  int `json:"high"`

	PctZeros int `json:"pct_zeros"`
	PctEven  int `json:"pct_even"`
	PctOdd   int `json:"pct_odd"`
	PctRed   int `json:"pct_red"`
	PctBlack int `json:"pct_black"`
	PctLow   int `json:"pct_low"`
	PctHigh  int `json:"pct_high"`

	// Counts indexed by dozen/column number minus one, and by Region.
	Dozens  [3]int `json:"dozens"`
	Columns [3]int `json:"columns"`
	Regions [4]int `json:"regions"`

	DozenRanking  []Bucket `json:"dozen_ranking"`
	ColumnRanking []Bucket `json:"column_ranking"`
	RegionRanking []Bucket `json:"region_ranking"`

	DominantDozen  string `json:"dominant_dozen"`
	DominantColumn string `json:"dominant_column"`

	// Numbers are the in-range values in window order.
	Numbers []int `json:"numbers"`
}

var ordinals = [3]string{"1st", "2nd", "3rd"}

// Pct returns 100*part/denom rounded half away from zero, or 0 when denom is 0.
func Pct(part, denom int) int {
	if denom == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(denom)))
}

// Compute derives a Snapshot from a window. label is carried through
// unchanged for display.
func Compute(window []models.Outcome, label int) Snapshot {
	s := Snapshot{Label: label, Numbers: make([]int, 0, len(window))}

	for _, o := range window {
		if !o.InRange() {
			continue
		}
		v := o.Value
		s.Numbers = append(s.Numbers, v)
		s.Total++
		s.Regions[RegionOf(v)]++

		if v == 0 {
			s.Zeros++
			s.Green++
			continue
		}
		s.NonZero++

		if v%2 == 0 {
			s.Even++
		} else {
			s.Odd++
		}
		if ColorOf(v) == Red {
			s.Red++
		} else {
			s.Black++
		}
		if v <= 18 {
			s.Low++
		} else {
			s.High++
		}
		s.Dozens[DozenOf(v)-1]++
		s.Columns[ColumnOf(v)-1]++
	}

	s.PctZeros = Pct(s.Zeros, s.Total)
	s.PctEven = Pct(s.Even, s.NonZero)
	s.PctOdd = Pct(s.Odd, s.NonZero)
	s.PctRed = Pct(s.Red, s.NonZero)
	s.PctBlack = Pct(s.Black, s.NonZero)
	s.PctLow = Pct(s.Low, s.NonZero)
	s.PctHigh = Pct(s.High, s.NonZero)

	s.DozenRanking = rankThirds(s.Dozens, s.NonZero)
	s.ColumnRanking = rankThirds(s.Columns, s.NonZero)

	regions := make([]Bucket, len(Regions))
	for i, r := range Regions {
		regions[i] = Bucket{Label: r.String(), Count: s.Regions[r], Pct: Pct(s.Regions[r], s.Total)}
	}
	s.RegionRanking = rank(regions)

	s.DominantDozen = dominant(s.DozenRanking)
	s.DominantColumn = dominant(s.ColumnRanking)

	return s
}

// RegionPctSum returns the sum of the region percentages.
func (s Snapshot) RegionPctSum() int {
	sum := 0
	for _, b := range s.RegionRanking {
		sum += b.Pct
	}
	return sum
}

func rankThirds(counts [3]int, denom int) []Bucket {
	buckets := make([]Bucket, 3)
	for i := range counts {
		buckets[i] = Bucket{Label: ordinals[i], Count: counts[i], Pct: Pct(counts[i], denom)}
	}
	return rank(buckets)
}

// rank sorts by descending percentage. buckets must arrive in canonical order,
// which the stable sort preserves for ties.
func rank(buckets []Bucket) []Bucket {
	slices.SortStableFunc(buckets, func(a, b Bucket) int {
		return b.Pct - a.Pct
	})
	return buckets
}

func dominant(ranking []Bucket) string {
	for _, b := range ranking {
		if b.Count > 0 {
			return b.Label
		}
	}
	return NoDominant
}
