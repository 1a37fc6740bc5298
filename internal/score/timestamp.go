// SPDX-License-Identifier: Apache-2.0

package score

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/digitscope/digitscope/internal/digits"
)

// Default Unix-time bounds for timestamp windows: 2000-01-01 to 2030-01-01 UTC.
const (
	DefaultTimestampMin int64 = 946684800
	DefaultTimestampMax int64 = 1893456000
)

// TimestampScanner slides windows of each width over a string and keeps
// the windows whose value in Base falls within [Min, Max].
type TimestampScanner struct {
	Widths []int
	Base   int
	Min    int64
	Max    int64
}

// DefaultTimestamps scans 8- and 10-digit hex windows.
func DefaultTimestamps() TimestampScanner {
	return TimestampScanner{
		Widths: []int{8, 10},
		Base:   16,
		Min:    DefaultTimestampMin,
		Max:    DefaultTimestampMax,
	}
}

// Scan returns the candidates deduplicated by value and sorted ascending.
// For equal values the earliest window (by width order, then position) wins.
func (s TimestampScanner) Scan(src string) ([]TimestampCandidate, error) {
	if s.Base != 10 && s.Base != 16 {
		return nil, fmt.Errorf("%w: timestamp base must be 10 or 16, got %d", digits.ErrInvalidArgument, s.Base)
	}
	if s.Min > s.Max {
		return nil, fmt.Errorf("%w: timestamp bounds %d > %d", digits.ErrInvalidArgument, s.Min, s.Max)
	}

	seen := make(map[int64]bool)
	var found []TimestampCandidate
	for _, width := range s.Widths {
		if width <= 0 {
			return nil, fmt.Errorf("%w: timestamp width must be positive, got %d", digits.ErrInvalidArgument, width)
		}
		for i := 0; i+width <= len(src); i++ {
			window := src[i : i+width]
			v, err := strconv.ParseInt(window, s.Base, 64)
			if err != nil || v < s.Min || v > s.Max || seen[v] {
				continue
			}
			seen[v] = true
			found = append(found, TimestampCandidate{
				Source:   src,
				Window:   window,
				Value:    v,
				Time:     time.Unix(v, 0).UTC(),
				Position: i,
				Width:    width,
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Value < found[j].Value })
	return found, nil
}

// Interval is the gap between two consecutive timestamp candidates.
type Interval struct {
	From    int64 `json:"from" yaml:"from"`
	To      int64 `json:"to" yaml:"to"`
	Seconds int64 `json:"seconds" yaml:"seconds"`
}

// Days is the number of whole days in the gap.
func (iv Interval) Days() int64 {
	return iv.Seconds / 86400
}

// Hours is the number of whole hours left after Days.
func (iv Interval) Hours() int64 {
	return iv.Seconds % 86400 / 3600
}

func (iv Interval) String() string {
	return fmt.Sprintf("%ds (%dd %dh)", iv.Seconds, iv.Days(), iv.Hours())
}

// Intervals returns the gaps between consecutive candidates. cs is expected
// in ascending order, as Scan returns it.
func Intervals(cs []TimestampCandidate) []Interval {
	if len(cs) < 2 {
		return nil
	}
	out := make([]Interval, 0, len(cs)-1)
	for i := 1; i < len(cs); i++ {
		out = append(out, Interval{
			From:    cs[i-1].Value,
			To:      cs[i].Value,
			Seconds: cs[i].Value - cs[i-1].Value,
		})
	}
	return out
}
