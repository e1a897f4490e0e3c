package frames

import (
	"sort"
	"time"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// CartesianFilter selects which translation derivatives a constructed grid
// point carries: position only, position+velocity, or position+velocity+
// acceleration. Dropped derivatives are zeroed, which degrades the Hermite
// interpolation to a lower order without changing its code path.
type CartesianFilter int

const (
	UseP CartesianFilter = iota
	UsePV
	UsePVA
)

// AngularFilter is the rotational analogue of CartesianFilter.
type AngularFilter int

const (
	UseR AngularFilter = iota
	UseRR
	UseRRA
)

// Config is the fixed geometry of a SpacecraftToBody interpolator: its
// validity span, sampling step, and the frame identifiers it was built for.
type Config struct {
	MinDate, MaxDate time.Time
	Step             time.Duration
	Tolerance        time.Duration
	InertialFrame    string
	BodyFrame        string
}

// PropagatorFunc supplies body->inertial and spacecraft->inertial transforms
// at an arbitrary date, the callback-based alternative to pre-sampled lists.
type PropagatorFunc func(date time.Time) (bodyToInertial, scToInertial TimeStampedTransform, err error)

// SpacecraftToBody is a dense, uniformly-sampled table of body->inertial and
// spacecraft->inertial transforms, queried by Hermite interpolation between
// neighboring grid points.
type SpacecraftToBody struct {
	cfg            Config
	bodyToInertial []TimeStampedTransform
	scToInertial   []TimeStampedTransform
}

func gridSize(cfg Config) int {
	return int(cfg.MaxDate.Sub(cfg.MinDate)/cfg.Step) + 1
}

// NewFromSamples densifies two time-stamped sample lists (not necessarily
// evenly spaced) onto the interpolator's uniform grid, Hermite-interpolating
// each grid point from its bracketing samples.
func NewFromSamples(cfg Config, bodySamples, scSamples []TimeStampedTransform, cartesian CartesianFilter, angular AngularFilter) (*SpacecraftToBody, error) {
	if cfg.Step <= 0 {
		return nil, rgerrors.New(rgerrors.InvalidStep, nil, "interpolator step must be positive")
	}
	body := sortedCopy(bodySamples)
	sc := sortedCopy(scSamples)

	n := gridSize(cfg)
	bodyGrid := make([]TimeStampedTransform, n)
	scGrid := make([]TimeStampedTransform, n)
	for i := 0; i < n; i++ {
		date := cfg.MinDate.Add(time.Duration(i) * cfg.Step)
		bt, err := hermiteAt(body, date)
		if err != nil {
			return nil, err
		}
		st, err := hermiteAt(sc, date)
		if err != nil {
			return nil, err
		}
		bodyGrid[i] = applyFilter(bt, cartesian, angular)
		scGrid[i] = applyFilter(st, cartesian, angular)
	}
	return &SpacecraftToBody{cfg: cfg, bodyToInertial: bodyGrid, scToInertial: scGrid}, nil
}

// NewFromPropagator builds the grid by evaluating propagate at every grid
// date directly, with no interpolation at construction time.
func NewFromPropagator(cfg Config, propagate PropagatorFunc) (*SpacecraftToBody, error) {
	if cfg.Step <= 0 {
		return nil, rgerrors.New(rgerrors.InvalidStep, nil, "interpolator step must be positive")
	}
	n := gridSize(cfg)
	bodyGrid := make([]TimeStampedTransform, n)
	scGrid := make([]TimeStampedTransform, n)
	for i := 0; i < n; i++ {
		date := cfg.MinDate.Add(time.Duration(i) * cfg.Step)
		bt, st, err := propagate(date)
		if err != nil {
			return nil, err
		}
		bodyGrid[i], scGrid[i] = bt, st
	}
	return &SpacecraftToBody{cfg: cfg, bodyToInertial: bodyGrid, scToInertial: scGrid}, nil
}

func sortedCopy(samples []TimeStampedTransform) []TimeStampedTransform {
	out := make([]TimeStampedTransform, len(samples))
	copy(out, samples)
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// Span reports the interpolator's configured validity span and frames.
func (s *SpacecraftToBody) Span() Config { return s.cfg }

// ScToInertial returns the spacecraft->inertial transform at date, Hermite
// interpolated from the dense grid.
func (s *SpacecraftToBody) ScToInertial(date time.Time) (TimeStampedTransform, error) {
	return s.queryGrid(s.scToInertial, date)
}

// InertialToBody returns the inertial->body transform at date (the inverse
// of the stored body->inertial grid).
func (s *SpacecraftToBody) InertialToBody(date time.Time) (TimeStampedTransform, error) {
	t, err := s.queryGrid(s.bodyToInertial, date)
	if err != nil {
		return TimeStampedTransform{}, err
	}
	return t.Invert(), nil
}

// BodyToInertial returns the stored body->inertial transform at date.
func (s *SpacecraftToBody) BodyToInertial(date time.Time) (TimeStampedTransform, error) {
	return s.queryGrid(s.bodyToInertial, date)
}

// InertialToSc returns the inverse of ScToInertial at date.
func (s *SpacecraftToBody) InertialToSc(date time.Time) (TimeStampedTransform, error) {
	t, err := s.queryGrid(s.scToInertial, date)
	if err != nil {
		return TimeStampedTransform{}, err
	}
	return t.Invert(), nil
}

// BodyToSc composes InertialToSc with BodyToInertial, the transform the
// mean-plane and pixel-crossing solvers use to bring a ground point
// expressed in the body frame into the sensor's spacecraft frame.
func (s *SpacecraftToBody) BodyToSc(date time.Time) (TimeStampedTransform, error) {
	bodyToInertial, err := s.BodyToInertial(date)
	if err != nil {
		return TimeStampedTransform{}, err
	}
	inertialToSc, err := s.InertialToSc(date)
	if err != nil {
		return TimeStampedTransform{}, err
	}
	return bodyToInertial.Compose(inertialToSc), nil
}

func (s *SpacecraftToBody) queryGrid(grid []TimeStampedTransform, date time.Time) (TimeStampedTransform, error) {
	if err := requireWithinRange(date, s.cfg.MinDate, s.cfg.MaxDate, s.cfg.Tolerance); err != nil {
		return TimeStampedTransform{}, err
	}
	if date.Before(s.cfg.MinDate) {
		return grid[0].ShiftedBy(date.Sub(grid[0].Date)), nil
	}
	if !date.Before(s.cfg.MaxDate) {
		last := grid[len(grid)-1]
		return last.ShiftedBy(date.Sub(last.Date)), nil
	}
	offset := date.Sub(s.cfg.MinDate)
	idx := int(offset / s.cfg.Step)
	if idx >= len(grid)-1 {
		idx = len(grid) - 2
	}
	return hermiteBetween(grid[idx], grid[idx+1], date), nil
}

func applyFilter(t TimeStampedTransform, cartesian CartesianFilter, angular AngularFilter) TimeStampedTransform {
	out := t
	if cartesian < UsePVA {
		out.Translation.A = georef.Vector3{}
	}
	if cartesian < UsePV {
		out.Translation.V = georef.Vector3{}
	}
	if angular < UseRRA {
		out.Rotation.OmegaDot = georef.Vector3{}
	}
	if angular < UseRR {
		out.Rotation.Omega = georef.Vector3{}
	}
	return out
}

// hermiteAt locates the pair of samples bracketing date and interpolates
// between them, extrapolating from the nearest sample if date falls outside
// the sample list entirely.
func hermiteAt(samples []TimeStampedTransform, date time.Time) (TimeStampedTransform, error) {
	if len(samples) == 0 {
		return TimeStampedTransform{}, rgerrors.New(rgerrors.InternalError, nil, "no samples to interpolate from")
	}
	if len(samples) == 1 {
		return samples[0].ShiftedBy(date.Sub(samples[0].Date)), nil
	}
	if date.Before(samples[0].Date) {
		return samples[0].ShiftedBy(date.Sub(samples[0].Date)), nil
	}
	last := samples[len(samples)-1]
	if !date.Before(last.Date) {
		return last.ShiftedBy(date.Sub(last.Date)), nil
	}
	idx := sort.Search(len(samples), func(i int) bool { return samples[i].Date.After(date) }) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(samples)-1 {
		idx = len(samples) - 2
	}
	return hermiteBetween(samples[idx], samples[idx+1], date), nil
}

// hermiteBetween interpolates between two grid points a (at or before date)
// and b (after date): cubic Hermite on translation position (matching
// position and velocity at both ends), linear blend on acceleration, and an
// extrapolate-then-blend scheme on rotation (each endpoint's attitude is
// analytically advanced to date, then the two estimates are averaged).
func hermiteBetween(a, b TimeStampedTransform, date time.Time) TimeStampedTransform {
	total := b.Date.Sub(a.Date).Seconds()
	if total <= 0 {
		return a
	}
	tau := date.Sub(a.Date).Seconds() / total

	h00 := 2*tau*tau*tau - 3*tau*tau + 1
	h10 := tau*tau*tau - 2*tau*tau + tau
	h01 := -2*tau*tau*tau + 3*tau*tau
	h11 := tau*tau*tau - tau*tau

	h00d := 6*tau*tau - 6*tau
	h10d := 3*tau*tau - 4*tau + 1
	h01d := -6*tau*tau + 6*tau
	h11d := 3*tau*tau - 2*tau

	p := a.Translation.P.Scale(h00).
		Add(a.Translation.V.Scale(h10 * total)).
		Add(b.Translation.P.Scale(h01)).
		Add(b.Translation.V.Scale(h11 * total))
	v := a.Translation.P.Scale(h00d / total).
		Add(a.Translation.V.Scale(h10d)).
		Add(b.Translation.P.Scale(h01d / total)).
		Add(b.Translation.V.Scale(h11d))
	acc := a.Translation.A.Scale(1 - tau).Add(b.Translation.A.Scale(tau))

	qA := a.Rotation.ShiftedBy(tau * total).Q
	qB := b.Rotation.ShiftedBy((tau - 1) * total).Q
	if qA.Dot(qB) < 0 {
		qB = qB.Scale(-1)
	}
	q := qA.Scale(1 - tau).Add(qB.Scale(tau)).Normalize()
	omega := a.Rotation.Omega.Scale(1 - tau).Add(b.Rotation.Omega.Scale(tau))
	omegaDot := a.Rotation.OmegaDot.Scale(1 - tau).Add(b.Rotation.OmegaDot.Scale(tau))

	return TimeStampedTransform{
		Date:        date,
		Translation: TranslationState{P: p, V: v, A: acc},
		Rotation:    RotationState{Q: q, Omega: omega, OmegaDot: omegaDot},
	}
}
