package dump

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/rugged/internal/georef"
	"github.com/banshee-data/rugged/internal/rgerrors"
)

// secondsToDuration converts a fractional-seconds float, as recorded for
// span step/tolerance, back to a time.Duration.
func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Session is everything Replay parsed out of a dump file, in file order.
type Session struct {
	SessionID              uuid.UUID
	Algorithms             []AlgorithmRecord
	Ellipsoids             []EllipsoidRecord
	DirectLocations        []DirectLocationRecord
	DirectLocationResults  []DirectLocationResultRecord
	InverseLocations       []InverseLocationRecord
	InverseLocationResults []InverseLocationResultRecord
	Spans                  []SpanRecord
	Transforms             []TransformRecord
	DEMTiles               []DEMTileRecord
	DEMCells               []DEMCellRecord
	Sensors                []SensorRecord
	SensorMeanPlanes       []SensorMeanPlaneRecord
	SensorLOSes            []SensorLOSRecord
	SensorDatations        []SensorDatationRecord
	SensorRates            []SensorRateRecord
}

// prefixes, longest/most-specific first so e.g. "direct location result:"
// is tried before "direct location:".
var recordPrefixes = []string{
	"direct location result:",
	"direct location:",
	"inverse location result:",
	"inverse location:",
	"sensor mean plane:",
	"sensor los:",
	"sensor datation:",
	"sensor rate:",
	"sensor:",
	"algorithm:",
	"ellipsoid:",
	"span:",
	"transform:",
	"DEM tile:",
	"DEM cell:",
}

// Replay parses a dump file written by Recorder into a Session.
func Replay(r io.Reader) (*Session, error) {
	sess := &Session{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "#") {
			if id, ok := parseSessionHeader(line); ok {
				sess.SessionID = id
			}
			continue
		}
		if err := sess.parseLine(line); err != nil {
			return nil, rgerrors.New(rgerrors.CannotParseLine, nil, "replay: line %d: %v", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("replay: scan: %w", err)
	}
	return sess, nil
}

// parseSessionHeader extracts the session id from a "# rugged dump v1
// session <uuid>" comment line written by older or newer Recorders alike;
// ok is false for any other comment, including the pre-session-id v1 header.
func parseSessionHeader(line string) (uuid.UUID, bool) {
	const marker = "session "
	idx := strings.Index(line, marker)
	if idx < 0 {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(strings.TrimSpace(line[idx+len(marker):]))
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

func (s *Session) parseLine(line string) error {
	for _, prefix := range recordPrefixes {
		if !strings.HasPrefix(line, prefix) {
			continue
		}
		rest := strings.TrimSpace(strings.TrimPrefix(line, prefix))
		c := newCursor(rest)
		switch prefix {
		case "algorithm:":
			return s.parseAlgorithm(c)
		case "ellipsoid:":
			return s.parseEllipsoid(c)
		case "direct location:":
			return s.parseDirectLocation(c)
		case "direct location result:":
			return s.parseDirectLocationResult(c)
		case "inverse location:":
			return s.parseInverseLocation(c)
		case "inverse location result:":
			return s.parseInverseLocationResult(c)
		case "span:":
			return s.parseSpan(c)
		case "transform:":
			return s.parseTransform(c)
		case "DEM tile:":
			return s.parseDEMTile(c)
		case "DEM cell:":
			return s.parseDEMCell(c)
		case "sensor:":
			return s.parseSensor(c)
		case "sensor mean plane:":
			return s.parseSensorMeanPlane(c)
		case "sensor los:":
			return s.parseSensorLOS(c)
		case "sensor datation:":
			return s.parseSensorDatation(c)
		case "sensor rate:":
			return s.parseSensorRate(c)
		}
	}
	return fmt.Errorf("unrecognized record: %q", line)
}

func (s *Session) parseAlgorithm(c *cursor) error {
	name, err := c.token()
	if err != nil {
		return err
	}
	rec := AlgorithmRecord{Name: name}
	if c.remaining() > 0 {
		if err := c.literal("elevation"); err != nil {
			return err
		}
		elev, err := c.float()
		if err != nil {
			return err
		}
		rec.Elevation = elev
		rec.HasElevation = true
	}
	s.Algorithms = append(s.Algorithms, rec)
	return nil
}

func (s *Session) parseEllipsoid(c *cursor) error {
	var rec EllipsoidRecord
	var err error
	if err = c.literal("ae"); err != nil {
		return err
	}
	if rec.EquatorialRadius, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("f"); err != nil {
		return err
	}
	if rec.Flattening, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("frame"); err != nil {
		return err
	}
	if rec.Frame, err = c.token(); err != nil {
		return err
	}
	s.Ellipsoids = append(s.Ellipsoids, rec)
	return nil
}

func (s *Session) parseDirectLocation(c *cursor) error {
	var rec DirectLocationRecord
	var err error
	if err = c.literal("date"); err != nil {
		return err
	}
	if rec.Date, err = c.date(); err != nil {
		return err
	}
	if err = c.literal("position"); err != nil {
		return err
	}
	if rec.Position, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("los"); err != nil {
		return err
	}
	if rec.LOS, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("lightTime"); err != nil {
		return err
	}
	if rec.LightTime, err = c.boolean(); err != nil {
		return err
	}
	if err = c.literal("aberration"); err != nil {
		return err
	}
	if rec.Aberration, err = c.boolean(); err != nil {
		return err
	}
	s.DirectLocations = append(s.DirectLocations, rec)
	return nil
}

func (s *Session) parseDirectLocationResult(c *cursor) error {
	var rec DirectLocationResultRecord
	var err error
	if err = c.literal("latitude"); err != nil {
		return err
	}
	if rec.Latitude, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("longitude"); err != nil {
		return err
	}
	if rec.Longitude, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("elevation"); err != nil {
		return err
	}
	if rec.Elevation, err = c.float(); err != nil {
		return err
	}
	s.DirectLocationResults = append(s.DirectLocationResults, rec)
	return nil
}

func (s *Session) parseInverseLocation(c *cursor) error {
	var rec InverseLocationRecord
	var err error
	if err = c.literal("sensorName"); err != nil {
		return err
	}
	if rec.SensorName, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("latitude"); err != nil {
		return err
	}
	if rec.Latitude, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("longitude"); err != nil {
		return err
	}
	if rec.Longitude, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("elevation"); err != nil {
		return err
	}
	if rec.Elevation, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("minLine"); err != nil {
		return err
	}
	if rec.MinLine, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("maxLine"); err != nil {
		return err
	}
	if rec.MaxLine, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("lightTime"); err != nil {
		return err
	}
	if rec.LightTime, err = c.boolean(); err != nil {
		return err
	}
	if err = c.literal("aberration"); err != nil {
		return err
	}
	if rec.Aberration, err = c.boolean(); err != nil {
		return err
	}
	s.InverseLocations = append(s.InverseLocations, rec)
	return nil
}

func (s *Session) parseInverseLocationResult(c *cursor) error {
	var rec InverseLocationResultRecord
	var err error
	if err = c.literal("lineNumber"); err != nil {
		return err
	}
	if rec.LineNumber, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("pixelNumber"); err != nil {
		return err
	}
	if rec.PixelNumber, err = c.float(); err != nil {
		return err
	}
	s.InverseLocationResults = append(s.InverseLocationResults, rec)
	return nil
}

func (s *Session) parseSpan(c *cursor) error {
	var rec SpanRecord
	var err error
	if err = c.literal("minDate"); err != nil {
		return err
	}
	if rec.MinDate, err = c.date(); err != nil {
		return err
	}
	if err = c.literal("maxDate"); err != nil {
		return err
	}
	if rec.MaxDate, err = c.date(); err != nil {
		return err
	}
	if err = c.literal("tStep"); err != nil {
		return err
	}
	step, err := c.float()
	if err != nil {
		return err
	}
	rec.Step = secondsToDuration(step)
	if err = c.literal("tolerance"); err != nil {
		return err
	}
	tol, err := c.float()
	if err != nil {
		return err
	}
	rec.Tolerance = secondsToDuration(tol)
	if err = c.literal("inertialFrame"); err != nil {
		return err
	}
	if rec.InertialFrame, err = c.token(); err != nil {
		return err
	}
	s.Spans = append(s.Spans, rec)
	return nil
}

func (s *Session) parseTransform(c *cursor) error {
	var rec TransformRecord
	var err error
	if err = c.literal("index"); err != nil {
		return err
	}
	if rec.Index, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("body"); err != nil {
		return err
	}
	if err = c.literal("r"); err != nil {
		return err
	}
	if rec.BodyRotation, err = c.quaternion(); err != nil {
		return err
	}
	if err = c.literal("Ω"); err != nil {
		return err
	}
	if rec.BodyOmega, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("ΩDot"); err != nil {
		return err
	}
	if rec.BodyOmegaDot, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("spacecraft"); err != nil {
		return err
	}
	if err = c.literal("p"); err != nil {
		return err
	}
	if rec.ScPosition, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("v"); err != nil {
		return err
	}
	if rec.ScVelocity, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("a"); err != nil {
		return err
	}
	if rec.ScAcceleration, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("r"); err != nil {
		return err
	}
	if rec.ScRotation, err = c.quaternion(); err != nil {
		return err
	}
	if err = c.literal("Ω"); err != nil {
		return err
	}
	if rec.ScOmega, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("ΩDot"); err != nil {
		return err
	}
	if rec.ScOmegaDot, err = c.vector3(); err != nil {
		return err
	}
	s.Transforms = append(s.Transforms, rec)
	return nil
}

func (s *Session) parseDEMTile(c *cursor) error {
	var rec DEMTileRecord
	var err error
	if rec.Name, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("latMin"); err != nil {
		return err
	}
	if rec.MinLatitude, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("latStep"); err != nil {
		return err
	}
	if rec.LatitudeStep, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("latRows"); err != nil {
		return err
	}
	if rec.Rows, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("lonMin"); err != nil {
		return err
	}
	if rec.MinLongitude, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("lonStep"); err != nil {
		return err
	}
	if rec.LongitudeStep, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("lonCols"); err != nil {
		return err
	}
	if rec.Cols, err = c.integer(); err != nil {
		return err
	}
	s.DEMTiles = append(s.DEMTiles, rec)
	return nil
}

func (s *Session) parseDEMCell(c *cursor) error {
	var rec DEMCellRecord
	var err error
	if rec.Name, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("latIndex"); err != nil {
		return err
	}
	if rec.LatitudeIndex, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("lonIndex"); err != nil {
		return err
	}
	if rec.LongitudeIndex, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("elevation"); err != nil {
		return err
	}
	if rec.Elevation, err = c.float(); err != nil {
		return err
	}
	s.DEMCells = append(s.DEMCells, rec)
	return nil
}

func (s *Session) parseSensor(c *cursor) error {
	var rec SensorRecord
	var err error
	if err = c.literal("sensorName"); err != nil {
		return err
	}
	if rec.Name, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("nbPixels"); err != nil {
		return err
	}
	if rec.NbPixels, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("position"); err != nil {
		return err
	}
	if rec.Position, err = c.vector3(); err != nil {
		return err
	}
	s.Sensors = append(s.Sensors, rec)
	return nil
}

func (s *Session) parseSensorMeanPlane(c *cursor) error {
	var rec SensorMeanPlaneRecord
	var err error
	if err = c.literal("sensorName"); err != nil {
		return err
	}
	if rec.SensorName, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("minLine"); err != nil {
		return err
	}
	if rec.MinLine, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("maxLine"); err != nil {
		return err
	}
	if rec.MaxLine, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("maxEval"); err != nil {
		return err
	}
	if rec.MaxEval, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("accuracy"); err != nil {
		return err
	}
	if rec.Accuracy, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("normal"); err != nil {
		return err
	}
	if rec.Normal, err = c.vector3(); err != nil {
		return err
	}
	if err = c.literal("cachedResults"); err != nil {
		return err
	}
	count, err := c.integer()
	if err != nil {
		return err
	}
	if err = c.literal("{"); err != nil {
		return err
	}
	for i := 0; i < count; i++ {
		var cached CachedCrossing
		if err = c.literal("lineNumber"); err != nil {
			return err
		}
		if cached.LineNumber, err = c.float(); err != nil {
			return err
		}
		if err = c.literal("date"); err != nil {
			return err
		}
		if cached.Date, err = c.date(); err != nil {
			return err
		}
		if err = c.literal("target"); err != nil {
			return err
		}
		if cached.Target, err = c.vector3(); err != nil {
			return err
		}
		if err = c.literal("targetDirection"); err != nil {
			return err
		}
		if cached.TargetDirection, err = c.vector3(); err != nil {
			return err
		}
		if cached.Derivative, err = c.vector3(); err != nil {
			return err
		}
		rec.CachedResults = append(rec.CachedResults, cached)
	}
	if err = c.literal("}"); err != nil {
		return err
	}
	s.SensorMeanPlanes = append(s.SensorMeanPlanes, rec)
	return nil
}

func (s *Session) parseSensorLOS(c *cursor) error {
	var rec SensorLOSRecord
	var err error
	if err = c.literal("sensorName"); err != nil {
		return err
	}
	if rec.SensorName, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("date"); err != nil {
		return err
	}
	if rec.Date, err = c.date(); err != nil {
		return err
	}
	if err = c.literal("pixelNumber"); err != nil {
		return err
	}
	if rec.PixelNumber, err = c.integer(); err != nil {
		return err
	}
	if err = c.literal("los"); err != nil {
		return err
	}
	if rec.LOS, err = c.vector3(); err != nil {
		return err
	}
	s.SensorLOSes = append(s.SensorLOSes, rec)
	return nil
}

func (s *Session) parseSensorDatation(c *cursor) error {
	var rec SensorDatationRecord
	var err error
	if err = c.literal("sensorName"); err != nil {
		return err
	}
	if rec.SensorName, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("lineNumber"); err != nil {
		return err
	}
	if rec.LineNumber, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("date"); err != nil {
		return err
	}
	if rec.Date, err = c.date(); err != nil {
		return err
	}
	s.SensorDatations = append(s.SensorDatations, rec)
	return nil
}

func (s *Session) parseSensorRate(c *cursor) error {
	var rec SensorRateRecord
	var err error
	if err = c.literal("sensorName"); err != nil {
		return err
	}
	if rec.SensorName, err = c.token(); err != nil {
		return err
	}
	if err = c.literal("lineNumber"); err != nil {
		return err
	}
	if rec.LineNumber, err = c.float(); err != nil {
		return err
	}
	if err = c.literal("rate"); err != nil {
		return err
	}
	if rec.Rate, err = c.float(); err != nil {
		return err
	}
	s.SensorRates = append(s.SensorRates, rec)
	return nil
}

// cursor walks a whitespace-tokenized record body.
type cursor struct {
	tokens []string
	pos    int
}

func newCursor(s string) *cursor {
	return &cursor{tokens: strings.Fields(s)}
}

func (c *cursor) remaining() int { return len(c.tokens) - c.pos }

func (c *cursor) token() (string, error) {
	if c.pos >= len(c.tokens) {
		return "", fmt.Errorf("unexpected end of record")
	}
	t := c.tokens[c.pos]
	c.pos++
	return t, nil
}

func (c *cursor) literal(want string) error {
	got, err := c.token()
	if err != nil {
		return err
	}
	if got != want {
		return fmt.Errorf("expected %q, got %q", want, got)
	}
	return nil
}

func (c *cursor) float() (float64, error) {
	t, err := c.token()
	if err != nil {
		return 0, err
	}
	return parseFloat(t)
}

func (c *cursor) integer() (int, error) {
	t, err := c.token()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("parse integer %q: %w", t, err)
	}
	return n, nil
}

func (c *cursor) boolean() (bool, error) {
	t, err := c.token()
	if err != nil {
		return false, err
	}
	return parseBool(t)
}

func (c *cursor) date() (time.Time, error) {
	t, err := c.token()
	if err != nil {
		return time.Time{}, err
	}
	return parseDate(t)
}

func (c *cursor) vector3() (georef.Vector3, error) {
	x, err := c.float()
	if err != nil {
		return georef.Vector3{}, err
	}
	y, err := c.float()
	if err != nil {
		return georef.Vector3{}, err
	}
	z, err := c.float()
	if err != nil {
		return georef.Vector3{}, err
	}
	return georef.Vector3{X: x, Y: y, Z: z}, nil
}

func (c *cursor) quaternion() (georef.Quaternion, error) {
	w, err := c.float()
	if err != nil {
		return georef.Quaternion{}, err
	}
	x, err := c.float()
	if err != nil {
		return georef.Quaternion{}, err
	}
	y, err := c.float()
	if err != nil {
		return georef.Quaternion{}, err
	}
	z, err := c.float()
	if err != nil {
		return georef.Quaternion{}, err
	}
	return georef.Quaternion{W: w, X: x, Y: y, Z: z}, nil
}
