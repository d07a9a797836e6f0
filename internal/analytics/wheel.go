// Spinwatch - Live Roulette Outcome Analytics
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spinwatch

package analytics

// Color of a pocket on the wheel.
type Color int

const (
	Green Color = iota
	Red
	Black
)

func (c Color) String() string {
	switch c {
	case Red:
		return "red"
	case Black:
		return "black"
	default:
		return "green"
	}
}

// Region is one of the four sectors that partition the wheel.
// The declaration order is the canonical ranking tie order.
type Region int

const (
	NeighborsOfZero Region = iota
	ThirdOfWheel
	Orphans
	ZeroGame
)

// Regions lists every region in canonical order.
var Regions = [4]Region{NeighborsOfZero, ThirdOfWheel, Orphans, ZeroGame}

func (r Region) String() string {
	switch r {
	case NeighborsOfZero:
		return "Neighbors of Zero"
	case ThirdOfWheel:
		return "Third of the Wheel"
	case Orphans:
		return "Orphans"
	default:
		return "Zero Game"
	}
}

var (
	redNumbers = set(1, 3, 5, 7, 9, 12, 14, 16, 18, 19, 21, 23, 25, 27, 30, 32, 34, 36)

	zeroGame        = set(0, 3, 12, 15, 26, 32, 35)
	neighborsOfZero = set(22, 18, 29, 7, 28, 12, 35, 3, 26, 0, 32, 15, 19, 4, 21, 2, 25)
	orphans         = set(1, 20, 14, 31, 9, 17, 34, 6)
)

func set(values ...int) map[int]struct{} {
	m := make(map[int]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

// ColorOf returns the pocket color of v.
func ColorOf(v int) Color {
	if v == 0 {
		return Green
	}
	if _, ok := redNumbers[v]; ok {
		return Red
	}
	return Black
}

// RegionOf returns the region containing v. Zero game takes priority over
// neighbors of zero, which it overlaps.
func RegionOf(v int) Region {
	if _, ok := zeroGame[v]; ok {
		return ZeroGame
	}
	if _, ok := neighborsOfZero[v]; ok {
		return NeighborsOfZero
	}
	if _, ok := orphans[v]; ok {
		return Orphans
	}
	return ThirdOfWheel
}

// DozenOf returns 1, 2 or 3, or 0 for the zero pocket.
func DozenOf(v int) int {
	if v <= 0 {
		return 0
	}
	return (v-1)/12 + 1
}

// ColumnOf returns 1, 2 or 3, or 0 for the zero pocket.
func ColumnOf(v int) int {
	if v <= 0 {
		return 0
	}
	return (v-1)%3 + 1
}
