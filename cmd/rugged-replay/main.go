// Command rugged-replay reads a Rugged debug dump file and prints a summary
// of its static configuration and every direct/inverse location query it
// recorded.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"

	"github.com/banshee-data/rugged/internal/dump"
)

func main() {
	path := flag.String("dump", "", "path to a rugged debug dump file")
	flag.Parse()

	if *path == "" {
		log.Fatal("rugged-replay: -dump is required")
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("rugged-replay: %v", err)
	}
	defer f.Close()

	sess, err := dump.Replay(f)
	if err != nil {
		log.Fatalf("rugged-replay: %v", err)
	}

	report(sess)
}

func report(sess *dump.Session) {
	if sess.SessionID != (uuid.UUID{}) {
		fmt.Printf("session: %s\n", sess.SessionID)
	}
	for _, a := range sess.Algorithms {
		if a.HasElevation {
			fmt.Printf("algorithm: %s (elevation=%g)\n", a.Name, a.Elevation)
		} else {
			fmt.Printf("algorithm: %s\n", a.Name)
		}
	}
	for _, e := range sess.Ellipsoids {
		fmt.Printf("ellipsoid: a=%g f=%g frame=%s\n", e.EquatorialRadius, e.Flattening, e.Frame)
	}
	for _, s := range sess.Sensors {
		fmt.Printf("sensor: %s pixels=%d\n", s.Name, s.NbPixels)
	}
	for i, dl := range sess.DirectLocations {
		result := "(no result recorded)"
		if i < len(sess.DirectLocationResults) {
			r := sess.DirectLocationResults[i]
			result = fmt.Sprintf("lat=%g lon=%g alt=%g", r.Latitude, r.Longitude, r.Elevation)
		}
		fmt.Printf("direct location %s: lightTime=%v aberration=%v -> %s\n",
			dl.Date.Format("2006-01-02T15:04:05Z"), dl.LightTime, dl.Aberration, result)
	}
	for i, il := range sess.InverseLocations {
		result := "(invisible or no result recorded)"
		if i < len(sess.InverseLocationResults) {
			r := sess.InverseLocationResults[i]
			result = fmt.Sprintf("line=%g pixel=%g", r.LineNumber, r.PixelNumber)
		}
		fmt.Printf("inverse location %s lat=%g lon=%g -> %s\n", il.SensorName, il.Latitude, il.Longitude, result)
	}
}
