// Package sensor implements the pushbroom line-sensor model: line datation,
// the per-pixel time-dependent line-of-sight field, the sensor's mean-plane
// normal, and the mean-plane/pixel crossing solvers used by inverse
// location.
package sensor

import "time"

// LineDatation maps between a sensor line number and its acquisition date.
type LineDatation interface {
	DateAtLine(line float64) time.Time
	LineAtDate(date time.Time) float64
}

// AffineLineDatation is the common case: line number increases linearly
// with time at a fixed rate starting from a reference line at a reference
// date.
type AffineLineDatation struct {
	ReferenceLine float64
	ReferenceDate time.Time
	LinesPerSecond float64
}

func (d AffineLineDatation) DateAtLine(line float64) time.Time {
	seconds := (line - d.ReferenceLine) / d.LinesPerSecond
	return d.ReferenceDate.Add(secondsToDuration(seconds))
}

func (d AffineLineDatation) LineAtDate(date time.Time) float64 {
	return d.ReferenceLine + date.Sub(d.ReferenceDate).Seconds()*d.LinesPerSecond
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
