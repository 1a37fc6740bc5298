// SPDX-License-Identifier: Apache-2.0

package score

import (
	"fmt"
	"math"
	"strconv"

	"github.com/digitscope/digitscope/internal/digits"
)

// Split is one latitude/longitude window layout.
type Split struct {
	LatWidth  int
	LonWidth  int
	LatPoints []int
	LonPoints []int
}

// CoordinateScanner reads adjacent windows as latitude and longitude,
// trying each decimal-point position a Split allows.
//
// For base 16 a window is converted to its decimal rendering before the
// point is inserted; for base 10 its digits are used as they are.
type CoordinateScanner struct {
	Base   int
	Step   int
	Splits []Split
}

// HexCoordinates scans 4+4 hex windows every 4 characters.
func HexCoordinates() CoordinateScanner {
	return CoordinateScanner{
		Base: 16,
		Step: 4,
		Splits: []Split{
			{LatWidth: 4, LonWidth: 4, LatPoints: []int{1, 2}, LonPoints: []int{1, 2, 3}},
		},
	}
}

// DigitCoordinates scans every 12-digit decimal window split 6/6, 5/7, 7/5
// and 4/8, with every interior decimal point.
func DigitCoordinates() CoordinateScanner {
	return CoordinateScanner{
		Base: 10,
		Step: 1,
		Splits: []Split{
			interiorSplit(6, 6),
			interiorSplit(5, 7),
			interiorSplit(7, 5),
			interiorSplit(4, 8),
		},
	}
}

func interiorSplit(lat, lon int) Split {
	return Split{LatWidth: lat, LonWidth: lon, LatPoints: span(1, lat), LonPoints: span(1, lon)}
}

func span(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}

// Scan returns the in-bounds candidates of src in discovery order,
// deduplicated by latitude and longitude rounded to three decimals.
func (s CoordinateScanner) Scan(src string) ([]CoordinateCandidate, error) {
	if s.Base != 10 && s.Base != 16 {
		return nil, fmt.Errorf("%w: coordinate base must be 10 or 16, got %d", digits.ErrInvalidArgument, s.Base)
	}
	if s.Step <= 0 {
		return nil, fmt.Errorf("%w: coordinate step must be positive, got %d", digits.ErrInvalidArgument, s.Step)
	}

	type key struct{ lat, lon float64 }
	seen := make(map[key]bool)
	var found []CoordinateCandidate

	for i := 0; i < len(src); i += s.Step {
		for _, sp := range s.Splits {
			if sp.LatWidth <= 0 || sp.LonWidth <= 0 {
				return nil, fmt.Errorf("%w: coordinate window widths %d/%d", digits.ErrInvalidArgument, sp.LatWidth, sp.LonWidth)
			}
			end := i + sp.LatWidth + sp.LonWidth
			if end > len(src) {
				continue
			}
			latDigits, ok := s.decimal(src[i : i+sp.LatWidth])
			if !ok {
				continue
			}
			lonDigits, ok := s.decimal(src[i+sp.LatWidth : end])
			if !ok {
				continue
			}
			for _, lp := range sp.LatPoints {
				lat, ok := withPoint(latDigits, lp)
				if !ok {
					continue
				}
				for _, op := range sp.LonPoints {
					lon, ok := withPoint(lonDigits, op)
					if !ok {
						continue
					}
					c := CoordinateCandidate{
						Lat:      lat,
						Lon:      lon,
						Source:   src[i:end],
						Position: i,
						Format:   fmt.Sprintf("%d.%d/%d.%d", lp, len(latDigits)-lp, op, len(lonDigits)-op),
						Region:   Region(lat, lon),
					}
					if !c.Valid() {
						continue
					}
					k := key{round3(lat), round3(lon)}
					if seen[k] {
						continue
					}
					seen[k] = true
					found = append(found, c)
				}
			}
		}
	}
	return found, nil
}

// regions are checked in order; the first box containing a point names it.
var regions = []struct {
	name                           string
	minLat, maxLat, minLon, maxLon float64
}{
	{"Arabian Peninsula", 10, 30, 35, 65},
	{"Indian Ocean", 0, 25, 60, 100},
	{"Africa", -35, 35, -20, 55},
	{"Europe", 35, 70, -10, 40},
	{"Pacific Ocean", -60, 60, 100, 180},
}

// RegionOpenOcean labels points outside every known region.
const RegionOpenOcean = "Open ocean"

// Region returns a coarse geographic label for a point.
func Region(lat, lon float64) string {
	for _, r := range regions {
		if lat >= r.minLat && lat <= r.maxLat && lon >= r.minLon && lon <= r.maxLon {
			return r.name
		}
	}
	return RegionOpenOcean
}

func (s CoordinateScanner) decimal(window string) (string, bool) {
	if s.Base == 10 {
		if !digits.Sequence(window).IsDecimal() {
			return "", false
		}
		return window, true
	}
	v, err := strconv.ParseUint(window, 16, 64)
	if err != nil {
		return "", false
	}
	return strconv.FormatUint(v, 10), true
}

// withPoint inserts a decimal point after the first point digits. The
// point must leave at least one digit on each side.
func withPoint(d string, point int) (float64, bool) {
	if point <= 0 || point >= len(d) {
		return 0, false
	}
	f, err := strconv.ParseFloat(d[:point]+"."+d[point:], 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
