package correction

import (
	"time"

	"github.com/banshee-data/rugged/internal/dem"
	"github.com/banshee-data/rugged/internal/frames"
	"github.com/banshee-data/rugged/internal/georef"
)

// LightTimeCorrected estimates the ground point accounting for the
// propagation delay between the ground and the spacecraft: it intersects
// twice to refine the delay estimate, then performs a final
// RefineIntersection against the twice-shifted transform. Two iterations
// converge to micrometer accuracy over spacecraft-to-ground distances.
func LightTimeCorrected(ellipsoid georef.Ellipsoid, algo dem.IntersectionAlgorithm, inertialToBody frames.TimeStampedTransform, position, los georef.Vector3, centralLongitude float64) (georef.NormalizedGeodeticPoint, error) {
	sP1 := inertialToBody.TransformPosition(position)
	l1 := inertialToBody.TransformVector(los)
	gp1, err := algo.Intersection(ellipsoid, sP1, l1, centralLongitude)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	deltaT1 := propagationDelay(ellipsoid, gp1, sP1)

	shifted1 := inertialToBody.ShiftedBy(secondsAgo(deltaT1))
	sP2 := shifted1.TransformPosition(position)
	l2 := shifted1.TransformVector(los)
	gp2, err := algo.Intersection(ellipsoid, sP2, l2, centralLongitude)
	if err != nil {
		return georef.NormalizedGeodeticPoint{}, err
	}
	deltaT2 := propagationDelay(ellipsoid, gp2, sP2)

	shifted2 := inertialToBody.ShiftedBy(secondsAgo(deltaT2))
	sP3 := shifted2.TransformPosition(position)
	l3 := shifted2.TransformVector(los)
	return algo.RefineIntersection(ellipsoid, sP3, l3, centralLongitude, gp2)
}

func propagationDelay(ellipsoid georef.Ellipsoid, gp georef.NormalizedGeodeticPoint, rayStart georef.Vector3) float64 {
	groundPoint := ellipsoid.ToCartesian(gp.GeodeticPoint)
	return groundPoint.Sub(rayStart).Norm() / SpeedOfLight
}

func secondsAgo(seconds float64) time.Duration {
	return -time.Duration(seconds * float64(time.Second))
}
