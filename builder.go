package rugged

import (
	"io"
	"time"

	"github.com/banshee-data/rugged/internal/config"
	"github.com/banshee-data/rugged/internal/dem"
	"github.com/banshee-data/rugged/internal/dump"
	"github.com/banshee-data/rugged/internal/frames"
	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/sensor"
)

// TimeStampedTransform is a dated rigid-body transform with kinematic state,
// the sample type SetTimeSpanFromSamples consumes.
type TimeStampedTransform = frames.TimeStampedTransform

// TranslationState is a position with velocity and acceleration.
type TranslationState = frames.TranslationState

// RotationState is an attitude quaternion with angular rate and acceleration.
type RotationState = frames.RotationState

// PropagatorFunc supplies body->inertial and spacecraft->inertial transforms
// at an arbitrary date, the callback alternative to pre-sampled ephemeris.
type PropagatorFunc = frames.PropagatorFunc

// Builder assembles a Rugged instance from a tuning Config, a DEM tile
// source, a spacecraft-to-body frame span, and one or more line sensors.
// Setter methods return the Builder to allow chaining; Build validates the
// accumulated configuration and fails closed on anything incomplete.
type Builder struct {
	cfg *config.Config

	bodySamples, scSamples []TimeStampedTransform
	propagate              PropagatorFunc
	span                   frames.Config
	spanSet                bool

	updater dem.TileUpdater

	sensors map[string]*sensor.LineSensor

	dumpWriter io.Writer
}

// NewBuilder starts a Builder from cfg. A nil cfg builds with every
// documented default (Config.Get* on an empty config).
func NewBuilder(cfg *config.Config) *Builder {
	if cfg == nil {
		cfg = config.EmptyConfig()
	}
	return &Builder{cfg: cfg, sensors: make(map[string]*sensor.LineSensor)}
}

// SetTimeSpanFromSamples configures the spacecraft-to-body interpolator to
// be built from two (not necessarily evenly spaced) sample lists, densified
// onto a uniform grid per the Config's interpolation step and derivative
// filters.
func (b *Builder) SetTimeSpanFromSamples(minDate, maxDate time.Time, bodySamples, scSamples []TimeStampedTransform) *Builder {
	b.span = frames.Config{
		MinDate:       minDate,
		MaxDate:       maxDate,
		Step:          b.cfg.GetInterpolationStep(),
		Tolerance:     b.cfg.GetInterpolationTolerance(),
		InertialFrame: string(b.cfg.GetInertialFrame()),
		BodyFrame:     string(b.cfg.GetBodyFrame()),
	}
	b.bodySamples = bodySamples
	b.scSamples = scSamples
	b.propagate = nil
	b.spanSet = true
	return b
}

// SetTimeSpanFromPropagator configures the interpolator to be built by
// evaluating propagate at every grid date directly, skipping the
// sample-densification step.
func (b *Builder) SetTimeSpanFromPropagator(minDate, maxDate time.Time, propagate PropagatorFunc) *Builder {
	b.span = frames.Config{
		MinDate:       minDate,
		MaxDate:       maxDate,
		Step:          b.cfg.GetInterpolationStep(),
		Tolerance:     b.cfg.GetInterpolationTolerance(),
		InertialFrame: string(b.cfg.GetInertialFrame()),
		BodyFrame:     string(b.cfg.GetBodyFrame()),
	}
	b.propagate = propagate
	b.bodySamples, b.scSamples = nil, nil
	b.spanSet = true
	return b
}

// SetDEMTileUpdater configures the tile source backing the DUVENHAGE,
// DUVENHAGE_FLAT_BODY and BASIC_SLOW_EXHAUSTIVE_SCAN_FOR_TESTS_ONLY
// algorithms. It is ignored by CONSTANT_ELEVATION_OVER_ELLIPSOID and
// IGNORE_DEM_USE_ELLIPSOID.
func (b *Builder) SetDEMTileUpdater(updater dem.TileUpdater) *Builder {
	b.updater = updater
	return b
}

// AddLineSensor registers a named line sensor. referenceDate is the date at
// which the sensor's mean-plane normal is computed.
func (b *Builder) AddLineSensor(name string, position Vector3, datation LineDatation, los TimeDependentLOS, referenceDate time.Time) error {
	s, err := sensor.NewLineSensor(name, position, datation, los, referenceDate)
	if err != nil {
		return err
	}
	b.sensors[name] = s
	return nil
}

// SetDumpWriter enables debug-dump recording of every DirectLocation and
// InverseLocation call, plus the static algorithm/ellipsoid/sensor
// configuration, to w. The writer's lifecycle remains the caller's.
func (b *Builder) SetDumpWriter(w io.Writer) *Builder {
	b.dumpWriter = w
	return b
}

// Build validates the accumulated configuration and constructs a Rugged
// instance. Build can be called multiple times on the same Builder (e.g. to
// produce several instances that share sensors but differ by algorithm) and
// does not mutate the Builder.
func (b *Builder) Build() (*Rugged, error) {
	if err := b.cfg.Validate(); err != nil {
		return nil, err
	}
	ellipsoid, err := ellipsoidFor(b.cfg.GetEllipsoid(), string(b.cfg.GetBodyFrame()))
	if err != nil {
		return nil, err
	}

	algo, cache, err := b.buildAlgorithm(ellipsoid)
	if err != nil {
		return nil, err
	}

	var interpolator *frames.SpacecraftToBody
	if b.spanSet {
		cartesian := cartesianFilterFor(b.cfg.GetCartesianFilter())
		angular := angularFilterFor(b.cfg.GetAngularFilter())
		if b.propagate != nil {
			interpolator, err = frames.NewFromPropagator(b.span, b.propagate)
		} else {
			interpolator, err = frames.NewFromSamples(b.span, b.bodySamples, b.scSamples, cartesian, angular)
		}
		if err != nil {
			return nil, err
		}
	}

	sensors := make(map[string]*sensor.LineSensor, len(b.sensors))
	for name, s := range b.sensors {
		sensors[name] = s
	}

	var recorder *dump.Recorder
	if b.dumpWriter != nil {
		recorder = dump.NewRecorder(b.dumpWriter)
		algoRec := dump.AlgorithmRecord{Name: string(b.cfg.GetAlgorithm())}
		if b.cfg.GetAlgorithm() == config.AlgorithmConstantElevation {
			algoRec.HasElevation = true
			algoRec.Elevation = b.cfg.GetConstantElevationM()
		}
		recorder.Algorithm(algoRec)
		recorder.Ellipsoid(dump.EllipsoidRecord{
			EquatorialRadius: ellipsoid.A, Flattening: ellipsoid.F, Frame: ellipsoid.BodyFrame,
		})
		for name, s := range sensors {
			recorder.Sensor(dump.SensorRecord{Name: name, NbPixels: s.LOS.PixelCount(), Position: s.Position})
		}
		if err := recorder.Err(); err != nil {
			return nil, err
		}
	}

	return &Rugged{
		ellipsoid:    ellipsoid,
		algorithm:    algo,
		cache:        cache,
		interpolator: interpolator,
		sensors:      sensors,
		lightTime:    b.cfg.GetLightTimeEnabled(),
		aberration:   b.cfg.GetAberrationOfLightEnabled(),
		dumper:       recorder,
	}, nil
}

func (b *Builder) buildAlgorithm(ellipsoid georef.Ellipsoid) (dem.IntersectionAlgorithm, *dem.TilesCache, error) {
	switch b.cfg.GetAlgorithm() {
	case config.AlgorithmIgnoreDEM:
		return dem.IgnoreDEM{}, nil, nil
	case config.AlgorithmConstantElevation:
		return dem.ConstantElevation{H: b.cfg.GetConstantElevationM()}, nil, nil
	case config.AlgorithmDuvenhage, config.AlgorithmDuvenhageFlatBody, config.AlgorithmBasicSlowExhaustiveScan:
		if b.updater == nil {
			return nil, nil, missingDEMUpdater(b.cfg.GetAlgorithm())
		}
		capacity := b.cfg.GetTileCacheCapacity()
		cache, err := dem.NewTilesCache(b.updater, capacity, capacity >= 9)
		if err != nil {
			return nil, nil, err
		}
		switch b.cfg.GetAlgorithm() {
		case config.AlgorithmDuvenhage:
			return dem.NewDuvenhage(cache, false), cache, nil
		case config.AlgorithmDuvenhageFlatBody:
			return dem.NewDuvenhage(cache, true), cache, nil
		default:
			return dem.NewBasicExhaustiveScan(cache), cache, nil
		}
	default:
		return nil, nil, unsupportedAlgorithm(b.cfg.GetAlgorithm())
	}
}

func cartesianFilterFor(name config.CartesianFilterName) frames.CartesianFilter {
	switch name {
	case config.CartesianUseP:
		return frames.UseP
	case config.CartesianUsePVA:
		return frames.UsePVA
	default:
		return frames.UsePV
	}
}

func angularFilterFor(name config.AngularFilterName) frames.AngularFilter {
	switch name {
	case config.AngularUseR:
		return frames.UseR
	case config.AngularUseRRA:
		return frames.UseRRA
	default:
		return frames.UseRR
	}
}
