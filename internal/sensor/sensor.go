package sensor

import (
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// LineSensor is a pushbroom line sensor: a fixed position in the spacecraft
// frame, a line<->date mapping, and a time-dependent per-pixel LOS field.
type LineSensor struct {
	Name     string
	Position georef.Vector3
	Datation LineDatation
	LOS      TimeDependentLOS

	meanPlaneNormal georef.Vector3
}

// NewLineSensor builds a LineSensor and computes its mean-plane normal once,
// from the full pixel set evaluated at referenceDate.
func NewLineSensor(name string, position georef.Vector3, datation LineDatation, los TimeDependentLOS, referenceDate time.Time) (*LineSensor, error) {
	normal, err := computeMeanPlaneNormal(los, referenceDate)
	if err != nil {
		return nil, err
	}
	return &LineSensor{Name: name, Position: position, Datation: datation, LOS: los, meanPlaneNormal: normal}, nil
}

// MeanPlaneNormal returns the unit vector computed once at construction: the
// right-singular vector of the pixel-LOS matrix associated with its smallest
// singular value, i.e. the direction the pixel LOS set deviates from least.
func (s *LineSensor) MeanPlaneNormal() georef.Vector3 { return s.meanPlaneNormal }

// LOSAtFractionalPixel returns the line-of-sight direction at a possibly
// non-integer pixel, linearly interpolated between its bracketing integer
// pixels, in the sensor frame. Direct location calls this directly; the
// pixel-crossing solver calls the unexported interpolatedLOS it wraps.
func (s *LineSensor) LOSAtFractionalPixel(date time.Time, pixel float64) (georef.Vector3, error) {
	return interpolatedLOS(s.LOS, date, pixel)
}

// computeMeanPlaneNormal stacks LOS(referenceDate, pixel) for every pixel
// into an n x 3 matrix and returns the right singular vector with smallest
// singular value, via gonum's SVD. Singular values are returned in
// descending order, so that vector is the last column of V.
func computeMeanPlaneNormal(los TimeDependentLOS, referenceDate time.Time) (georef.Vector3, error) {
	n := los.PixelCount()
	if n < 3 {
		return georef.Vector3{}, rgerrors.New(rgerrors.InternalError, nil, "mean plane normal needs at least 3 pixels, got %d", n)
	}
	data := make([]float64, n*3)
	for i := 0; i < n; i++ {
		d, err := los.LOS(referenceDate, i)
		if err != nil {
			return georef.Vector3{}, err
		}
		data[i*3] = d.X
		data[i*3+1] = d.Y
		data[i*3+2] = d.Z
	}
	m := mat.NewDense(n, 3, data)

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return georef.Vector3{}, rgerrors.New(rgerrors.InternalError, nil, "mean plane normal SVD factorization failed")
	}
	var v mat.Dense
	svd.VTo(&v)

	return georef.Vector3{X: v.At(0, 2), Y: v.At(1, 2), Z: v.At(2, 2)}.Normalize(), nil
}
