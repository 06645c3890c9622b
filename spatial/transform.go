// Copyright 2018, TERRA-REF project
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//   http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package spatial

import (
	"github.com/im7mortal/UTM"
)

// SiteCalibration holds the survey constants that map gantry coordinates at a
// field site onto UTM, plus the empirical WGS84 shift observed between the
// transform output and surveyed ground control points. The affine terms were
// fit against a set of surveyed gantry positions.
type SiteCalibration struct {
	// UTM easting/northing of a gantry position (Gx, Gy) is
	//   E = Ax + Bx*Gx + Cx*Gy
	//   N = Ay + By*Gx + Cy*Gy
	Ax, Bx, Cx float64
	Ay, By, Cy float64

	// Empirical correction applied after UTM -> WGS84 conversion
	LatShift float64
	LonShift float64

	// Reference point inside the site, used to pin the UTM zone so that
	// boxes near a zone boundary stay in a single zone
	RefLat float64
	RefLon float64

	// Laser scanner head offsets from the camera box center, in meters.
	// The east and west heads sit at fixed positions along the rails and
	// the along-track offset depends on scan direction.
	Scanner3DHeadOffsetX   float64
	Scanner3DWestNegOffset float64
	Scanner3DEastNegOffset float64
	Scanner3DWestPosOffset float64
	Scanner3DEastPosOffset float64
}

// MaricopaSiteCalibration is the calibration for the Maricopa Agricultural
// Center field scanner (ua-mac)
var MaricopaSiteCalibration = SiteCalibration{
	Ax: 409012.2032, Bx: 0.009, Cx: -0.9986,
	Ay: 3659974.971, By: 1.0002, Cy: 0.0078,

	LatShift: 0.000015258894,
	LonShift: 0.000020308287,

	RefLat: 33.07451869,
	RefLon: -111.97477775,

	Scanner3DHeadOffsetX:   0.082,
	Scanner3DWestNegOffset: -4.363,
	Scanner3DEastNegOffset: -0.354,
	Scanner3DWestPosOffset: -4.23,
	Scanner3DEastPosOffset: 0.4,
}

// GantryToUTM converts gantry (x, y) in meters to UTM (easting, northing)
func (c SiteCalibration) GantryToUTM(gx, gy float64) (easting, northing float64) {
	easting = c.Ax + c.Bx*gx + c.Cx*gy
	northing = c.Ay + c.By*gx + c.Cy*gy
	return
}

// UTMToGantry inverts GantryToUTM
func (c SiteCalibration) UTMToGantry(easting, northing float64) (gx, gy float64) {
	dx := easting - c.Ax
	dy := northing - c.Ay
	det := c.Bx*c.Cy - c.Cx*c.By
	gx = (c.Cy*dx - c.Cx*dy) / det
	gy = (c.Bx*dy - c.By*dx) / det
	return
}

// zone returns the UTM zone of the site's reference point
func (c SiteCalibration) zone() (number int, letter string, err error) {
	_, _, number, letter, err = UTM.FromLatLon(c.RefLat, c.RefLon, c.RefLat < 0)
	return
}

// UTMToLatLon converts UTM coordinates in the site's zone to WGS84,
// including the empirical shift
func (c SiteCalibration) UTMToLatLon(easting, northing float64) (lat, lon float64, err error) {
	zoneNumber, zoneLetter, err := c.zone()
	if err != nil {
		return 0, 0, err
	}
	lat, lon, err = UTM.ToLatLon(easting, northing, zoneNumber, zoneLetter)
	if err != nil {
		return 0, 0, err
	}
	return lat - c.LatShift, lon + c.LonShift, nil
}

// GantryToLatLon converts gantry (x, y) in meters directly to WGS84
func (c SiteCalibration) GantryToLatLon(gx, gy float64) (lat, lon float64, err error) {
	easting, northing := c.GantryToUTM(gx, gy)
	return c.UTMToLatLon(easting, northing)
}

// LatLonToGantry inverts GantryToLatLon; used to recover scan positions from
// georeferenced products
func (c SiteCalibration) LatLonToGantry(lat, lon float64) (gx, gy float64, err error) {
	easting, northing, _, _, err := UTM.FromLatLon(lat+c.LatShift, lon-c.LonShift, lat >= 0)
	if err != nil {
		return 0, 0, err
	}
	gx, gy = c.UTMToGantry(easting, northing)
	return gx, gy, nil
}
