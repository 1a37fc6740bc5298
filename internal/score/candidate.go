// SPDX-License-Identifier: Apache-2.0

package score

import (
	"fmt"
	"strings"
	"time"
)

// Kind discriminates the Candidate variants.
type Kind string

const (
	KindDecode     Kind = "decode"
	KindTimestamp  Kind = "timestamp"
	KindCoordinate Kind = "coordinate"
	KindColor      Kind = "color"
)

// Candidate is implemented only by the candidate types of this package.
type Candidate interface {
	Kind() Kind
	Summary() string
	candidate()
}

// ChunkClass is the outcome of interpreting one chunk.
type ChunkClass string

const (
	ClassPrintable    ChunkClass = "printable"
	ClassControl      ChunkClass = "control"
	ClassOutOfRange   ChunkClass = "out_of_range"
	ClassParseFailure ChunkClass = "parse_failure"
)

// Valid reports whether the class counts towards validity.
func (c ChunkClass) Valid() bool {
	return c == ClassPrintable || c == ClassControl
}

// Chunk is one fixed-width slice of a scored sequence.
type Chunk struct {
	Digits string     `json:"digits" yaml:"digits"`
	Value  int        `json:"value" yaml:"value"`
	Class  ChunkClass `json:"class" yaml:"class"`
}

// DecodeCandidate is the outcome of reading a sequence as fixed-width
// character codes.
type DecodeCandidate struct {
	// Source is the scored sequence, or the phase name inside a pipeline.
	Source     string  `json:"source" yaml:"source"`
	ChunkWidth int     `json:"chunk_width" yaml:"chunk_width"`
	Text       string  `json:"text" yaml:"text"`
	Validity   float64 `json:"validity" yaml:"validity"`
	Chunks     []Chunk `json:"chunks,omitempty" yaml:"chunks,omitempty"`
}

func (DecodeCandidate) Kind() Kind { return KindDecode }
func (DecodeCandidate) candidate() {}

func (c DecodeCandidate) Summary() string {
	return fmt.Sprintf("%q (%d-digit, %.1f%% valid)", c.Text, c.ChunkWidth, c.Validity)
}

// Bytes returns the values of every chunk that parsed to 0-255, in order.
// Failed and wider chunks are skipped.
func (c DecodeCandidate) Bytes() []int {
	values := make([]int, 0, len(c.Chunks))
	for _, ch := range c.Chunks {
		if ch.Class == ClassParseFailure || ch.Value < 0 || ch.Value > 0xff {
			continue
		}
		values = append(values, ch.Value)
	}
	return values
}

// Hex renders Bytes as two lower-case hex digits per byte, so the result
// always has even length.
func (c DecodeCandidate) Hex() string {
	var b strings.Builder
	for _, v := range c.Bytes() {
		fmt.Fprintf(&b, "%02x", v)
	}
	return b.String()
}

// TimestampCandidate is a window that reads as a plausible Unix time.
type TimestampCandidate struct {
	Source   string    `json:"source" yaml:"source"`
	Window   string    `json:"window" yaml:"window"`
	Value    int64     `json:"value" yaml:"value"`
	Time     time.Time `json:"time" yaml:"time"`
	Position int       `json:"position" yaml:"position"`
	Width    int       `json:"width" yaml:"width"`
}

func (TimestampCandidate) Kind() Kind { return KindTimestamp }
func (TimestampCandidate) candidate() {}

func (c TimestampCandidate) Summary() string {
	return fmt.Sprintf("%s from %s at %d", c.Time.UTC().Format(time.DateTime), c.Window, c.Position)
}

// CoordinateCandidate is a window pair that reads as latitude and longitude.
type CoordinateCandidate struct {
	Lat      float64 `json:"lat" yaml:"lat"`
	Lon      float64 `json:"lon" yaml:"lon"`
	Source   string  `json:"source" yaml:"source"`
	Position int     `json:"position" yaml:"position"`
	Format   string  `json:"format" yaml:"format"`
	Region   string  `json:"region" yaml:"region"`
}

func (CoordinateCandidate) Kind() Kind { return KindCoordinate }
func (CoordinateCandidate) candidate() {}

func (c CoordinateCandidate) Summary() string {
	return fmt.Sprintf("%.4f, %.4f from %s at %d (%s)", c.Lat, c.Lon, c.Source, c.Position, c.Region)
}

// Point returns the candidate's position.
func (c CoordinateCandidate) Point() Point {
	return Point{Lat: c.Lat, Lon: c.Lon}
}

// Valid reports whether the pair lies within latitude and longitude bounds.
func (c CoordinateCandidate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lon >= -180 && c.Lon <= 180
}

// ColorCandidate is a 3-byte window read as an RGB triple.
type ColorCandidate struct {
	Hex      string `json:"hex" yaml:"hex"`
	R        int    `json:"r" yaml:"r"`
	G        int    `json:"g" yaml:"g"`
	B        int    `json:"b" yaml:"b"`
	Position int    `json:"position" yaml:"position"`
	Shade    string `json:"shade" yaml:"shade"`
}

func (ColorCandidate) Kind() Kind { return KindColor }
func (ColorCandidate) candidate() {}

func (c ColorCandidate) Summary() string {
	return fmt.Sprintf("#%s RGB(%d, %d, %d) %s", c.Hex, c.R, c.G, c.B, c.Shade)
}
