package sensor

import (
	"sort"
	"time"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// TimeDependentLOS evaluates the unit line-of-sight direction for pixel at
// date, in the sensor frame.
type TimeDependentLOS interface {
	LOS(date time.Time, pixel int) (georef.Vector3, error)
	PixelCount() int
}

// TabulatedLOS interpolates, per pixel, piecewise-linearly between a shared
// set of sampling dates.
type TabulatedLOS struct {
	dates      []time.Time
	directions [][]georef.Vector3 // directions[sample][pixel]
}

// NewTabulatedLOS builds a TabulatedLOS from dates (strictly increasing) and
// one direction slice per date, each of length pixelCount.
func NewTabulatedLOS(dates []time.Time, directions [][]georef.Vector3) (*TabulatedLOS, error) {
	if len(dates) < 2 {
		return nil, rgerrors.New(rgerrors.InternalError, nil, "tabulated LOS needs at least two sample dates")
	}
	if len(dates) != len(directions) {
		return nil, rgerrors.New(rgerrors.InternalError, nil, "tabulated LOS dates/directions length mismatch")
	}
	n := len(directions[0])
	for _, row := range directions {
		if len(row) != n {
			return nil, rgerrors.New(rgerrors.InternalError, nil, "tabulated LOS rows have inconsistent pixel counts")
		}
	}
	return &TabulatedLOS{dates: dates, directions: directions}, nil
}

func (t *TabulatedLOS) PixelCount() int { return len(t.directions[0]) }

func (t *TabulatedLOS) LOS(date time.Time, pixel int) (georef.Vector3, error) {
	if pixel < 0 || pixel >= t.PixelCount() {
		return georef.Vector3{}, rgerrors.New(rgerrors.InvalidRangeForLines, map[string]any{"pixel": pixel}, "pixel %d out of range", pixel)
	}
	idx := sort.Search(len(t.dates), func(i int) bool { return t.dates[i].After(date) })
	if idx == 0 {
		return t.directions[0][pixel].Normalize(), nil
	}
	if idx >= len(t.dates) {
		return t.directions[len(t.dates)-1][pixel].Normalize(), nil
	}
	lo, hi := t.dates[idx-1], t.dates[idx]
	total := hi.Sub(lo).Seconds()
	if total <= 0 {
		return t.directions[idx-1][pixel].Normalize(), nil
	}
	tau := date.Sub(lo).Seconds() / total
	a, b := t.directions[idx-1][pixel], t.directions[idx][pixel]
	return a.Scale(1 - tau).Add(b.Scale(tau)).Normalize(), nil
}

// PolynomialLOS evaluates a per-pixel polynomial in (date-reference) seconds,
// the TimeDependentLOS alternative to tabulated sampling for sensors whose
// boresight drift is modeled analytically (e.g. thermoelastic trend fits).
type PolynomialLOS struct {
	Reference time.Time
	// Coefficients[pixel] is ordered lowest degree first; evaluated via
	// Horner's method per axis.
	Coefficients [][]georef.Vector3
}

func (p *PolynomialLOS) PixelCount() int { return len(p.Coefficients) }

func (p *PolynomialLOS) LOS(date time.Time, pixel int) (georef.Vector3, error) {
	if pixel < 0 || pixel >= len(p.Coefficients) {
		return georef.Vector3{}, rgerrors.New(rgerrors.InvalidRangeForLines, map[string]any{"pixel": pixel}, "pixel %d out of range", pixel)
	}
	coeffs := p.Coefficients[pixel]
	if len(coeffs) == 0 {
		return georef.Vector3{}, rgerrors.New(rgerrors.InternalError, nil, "polynomial LOS has no coefficients for pixel %d", pixel)
	}
	t := date.Sub(p.Reference).Seconds()
	acc := coeffs[len(coeffs)-1]
	for i := len(coeffs) - 2; i >= 0; i-- {
		acc = acc.Scale(t).Add(coeffs[i])
	}
	return acc.Normalize(), nil
}
