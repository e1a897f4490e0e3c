package dem

// zipperFor synthesizes a 4x4 zipper tile bridging the seam around
// (lat,lon). It samples up to four neighbor tiles (below-left, below-right,
// above-left, above-right); when the query is only near one axis's border,
// "below" and "above" (or "left" and "right") resolve to the same tile, and
// the zipper degenerates gracefully to that tile's own values.
func (c *TilesCache) zipperFor(current *Tile, lat, lon float64) (*Tile, error) {
	i, j := current.LatitudeIndex(lat), current.LongitudeIndex(lon)

	nearSouth := i < seamMargin
	nearNorth := i > current.Rows-2-seamMargin
	nearWest := j < seamMargin
	nearEast := j > current.Cols-2-seamMargin

	belowLat, aboveLat := lat, lat
	if nearSouth {
		belowLat = current.MinLatitude - current.LatitudeStep
	}
	if nearNorth {
		aboveLat = current.MaxLatitude() + current.LatitudeStep
	}
	leftLon, rightLon := lon, lon
	if nearWest {
		leftLon = current.MinLongitude - current.LongitudeStep
	}
	if nearEast {
		rightLon = current.MaxLongitude() + current.LongitudeStep
	}

	belowLeft, err := c.findOrLoad(belowLat, leftLon)
	if err != nil {
		return nil, err
	}
	belowRight, err := c.findOrLoad(belowLat, rightLon)
	if err != nil {
		return nil, err
	}
	aboveLeft, err := c.findOrLoad(aboveLat, leftLon)
	if err != nil {
		return nil, err
	}
	aboveRight, err := c.findOrLoad(aboveLat, rightLon)
	if err != nil {
		return nil, err
	}

	seamLat := lat
	if nearSouth {
		seamLat = current.MinLatitude
	} else if nearNorth {
		seamLat = current.MaxLatitude()
	}
	seamLon := lon
	if nearWest {
		seamLon = current.MinLongitude
	} else if nearEast {
		seamLon = current.MaxLongitude()
	}

	zipLatStep := minStep(belowLeft.LatitudeStep, aboveLeft.LatitudeStep)
	zipLonStep := minStep(belowLeft.LongitudeStep, belowRight.LongitudeStep)

	zip, err := NewTile(seamLat-2*zipLatStep, seamLon-2*zipLonStep, zipLatStep, zipLonStep, 4, 4)
	if err != nil {
		return nil, err
	}

	sources := [2][2]*Tile{
		{belowLeft, belowRight},
		{aboveLeft, aboveRight},
	}
	for r := 0; r < 4; r++ {
		latR := zip.MinLatitude + float64(r)*zipLatStep
		rowBand := 0
		if r >= 2 {
			rowBand = 1
		}
		for colIdx := 0; colIdx < 4; colIdx++ {
			lonC := zip.MinLongitude + float64(colIdx)*zipLonStep
			colBand := 0
			if colIdx >= 2 {
				colBand = 1
			}
			src := sources[rowBand][colBand]
			if err := zip.Set(r, colIdx, nearestElevation(src, latR, lonC)); err != nil {
				return nil, err
			}
		}
	}

	c.Metrics.ZipperSynthesis.Inc()
	return zip, nil
}

func minStep(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// nearestElevation looks up the nearest sample to (lat,lon) in t, clamped
// to the tile's grid. Used to bridge seams between tiles of differing
// resolution, where exact bilinear lookup does not apply.
func nearestElevation(t *Tile, lat, lon float64) float64 {
	i := roundIndex((lat - t.MinLatitude) / t.LatitudeStep)
	j := roundIndex((lon - t.MinLongitude) / t.LongitudeStep)
	if i < 0 {
		i = 0
	}
	if i > t.Rows-1 {
		i = t.Rows - 1
	}
	if j < 0 {
		j = 0
	}
	if j > t.Cols-1 {
		j = t.Cols - 1
	}
	return t.Elevation(i, j)
}

func roundIndex(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}
