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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terraref/terrautils/metadata"
	"github.com/terraref/terrautils/sensors"
	"github.com/terraref/terrautils/util"
)

func cleanedRecord(fixed, variable util.Properties) *metadata.Cleaned {
	return &metadata.Cleaned{
		GantryVariableMetadata: util.Properties{
			"position_m": util.Properties{"x": 1.0, "y": 2.0, "z": 0.5},
		},
		SensorFixedMetadata:    fixed,
		SensorVariableMetadata: variable,
		Cleaned:                true,
	}
}

func TestCalculateGPSBounds_Generic(t *testing.T) {
	// Mock
	md := cleanedRecord(util.Properties{
		"location_in_camera_box_m": util.Properties{"x": 0.0, "y": 0.0, "z": 0.078},
		"field_of_view_m":          util.Properties{"x": 1.015, "y": 0.749},
	}, nil)

	// Tested code
	bounds, err := CalculateGPSBounds(md, sensors.CropCircle, MaricopaSiteCalibration)

	// Asserts
	assert.Nil(t, err)
	box, ok := bounds[sensors.CropCircle]
	assert.True(t, ok)
	assert.True(t, box.LatMin < box.LatMax)
	assert.True(t, box.LonMin < box.LonMax)
	assert.False(t, box.IsZeroArea())

	// Recover the box center and extent in gantry coordinates: it must match
	// the capture position and field of view to survey precision
	cal := MaricopaSiteCalibration
	lat, lon := box.Centroid()
	cx, cy, err := cal.LatLonToGantry(lat, lon)
	assert.Nil(t, err)
	assert.InDelta(t, 1.0, cx, 0.01)
	assert.InDelta(t, 2.0, cy, 0.01)

	nwX, nwY, err := cal.LatLonToGantry(box.LatMax, box.LonMin)
	assert.Nil(t, err)
	seX, seY, err := cal.LatLonToGantry(box.LatMin, box.LonMax)
	assert.Nil(t, err)
	assert.InDelta(t, 1.015, nwX-seX, 0.01)
	assert.InDelta(t, 0.749, nwY-seY, 0.01)
}

func TestCalculateGPSBounds_FOVPriority(t *testing.T) {
	// field_of_view_m wins over the other spellings when several are present
	md := cleanedRecord(util.Properties{
		"location_in_camera_box_m": util.Properties{},
		"field_of_view_m":          util.Properties{"x": 1.0, "y": 1.0},
		"field_of_view_at_2m_m":    util.Properties{"x": 50.0, "y": 50.0},
	}, nil)

	bounds, err := CalculateGPSBounds(md, sensors.CropCircle, MaricopaSiteCalibration)

	assert.Nil(t, err)
	box := bounds[sensors.CropCircle]
	lat, lon := box.Centroid()
	cal := MaricopaSiteCalibration
	nwX, _, err := cal.LatLonToGantry(box.LatMax, box.LonMin)
	assert.Nil(t, err)
	cx, _, err := cal.LatLonToGantry(lat, lon)
	assert.Nil(t, err)
	assert.InDelta(t, 0.5, nwX-cx, 0.01)
}

func TestCalculateGPSBounds_MissingFOV(t *testing.T) {
	// No field of view in the fixed metadata: the box collapses to the
	// capture position rather than failing
	md := cleanedRecord(util.Properties{
		"location_in_camera_box_m": util.Properties{"x": 0.0, "y": 0.0, "z": 0.0},
	}, nil)

	bounds, err := CalculateGPSBounds(md, sensors.CropCircle, MaricopaSiteCalibration)

	assert.Nil(t, err)
	assert.True(t, bounds[sensors.CropCircle].IsZeroArea())
}

func TestCalculateGPSBounds_NotCleaned(t *testing.T) {
	md := &metadata.Cleaned{}

	_, err := CalculateGPSBounds(md, sensors.CropCircle, MaricopaSiteCalibration)

	assert.NotNil(t, err)
}

func TestCalculateGPSBounds_StereoTop(t *testing.T) {
	// Mock
	md := cleanedRecord(util.Properties{
		"location_in_camera_box_m":   util.Properties{"x": 0.0, "y": 0.0, "z": 0.0},
		"field_of_view_degrees":      util.Properties{"x": 0.374, "y": 0.281},
		"slope_estimation":           0.76,
		"rail_height_offset":         0.397,
		"stereo_offsets_from_center": 0.17,
	}, nil)

	// Tested code
	bounds, err := CalculateGPSBounds(md, sensors.StereoTop, MaricopaSiteCalibration)

	// Asserts
	assert.Nil(t, err)
	assert.Len(t, bounds, 2)
	left, ok := bounds["left"]
	assert.True(t, ok)
	right, ok := bounds["right"]
	assert.True(t, ok)
	assert.NotEqual(t, left, right)

	// The two cameras sit either side of the box center along gantry X,
	// which maps to latitude
	cal := MaricopaSiteCalibration
	leftLat, leftLon := left.Centroid()
	rightLat, rightLon := right.Centroid()
	leftX, leftY, err := cal.LatLonToGantry(leftLat, leftLon)
	assert.Nil(t, err)
	rightX, rightY, err := cal.LatLonToGantry(rightLat, rightLon)
	assert.Nil(t, err)
	assert.InDelta(t, 0.34, rightX-leftX, 0.01)
	assert.InDelta(t, 0.0, rightY-leftY, 0.01)
}

func TestCalculateGPSBounds_StereoTopMissingCalibration(t *testing.T) {
	md := cleanedRecord(util.Properties{
		"location_in_camera_box_m": util.Properties{},
		"field_of_view_degrees":    util.Properties{"x": 0.374, "y": 0.281},
	}, nil)

	_, err := CalculateGPSBounds(md, sensors.StereoTop, MaricopaSiteCalibration)

	assert.NotNil(t, err)
}

func TestCalculateGPSBounds_Scanner3D(t *testing.T) {
	// Mock
	fixed := util.Properties{
		"scanner_west_location_in_camera_box_m": util.Properties{"x": 0.0, "y": 2.014, "z": 0.331},
		"scanner_east_location_in_camera_box_m": util.Properties{"x": 0.0, "y": 0.082, "z": 0.331},
		"field_of_view_m":                       util.Properties{"x": 0.0, "y": 0.8},
	}
	variable := util.Properties{
		"scan_distance_mm": "21800",
		"scan_direction":   "0",
	}
	md := cleanedRecord(fixed, variable)

	// Tested code
	bounds, err := CalculateGPSBounds(md, sensors.Scanner3DTop, MaricopaSiteCalibration)

	// Asserts
	assert.Nil(t, err)
	east, ok := bounds["east"]
	assert.True(t, ok)
	west, ok := bounds["west"]
	assert.True(t, ok)

	// The box is rotated 90 degrees: the reported Y field of view becomes
	// the box width and the scan distance its length
	cal := MaricopaSiteCalibration
	nwX, nwY, err := cal.LatLonToGantry(west.LatMax, west.LonMin)
	assert.Nil(t, err)
	seX, seY, err := cal.LatLonToGantry(west.LatMin, west.LonMax)
	assert.Nil(t, err)
	assert.InDelta(t, 0.8, nwX-seX, 0.01)
	assert.InDelta(t, 21.8, nwY-seY, 0.01)

	// The two heads share X but sit at different Y offsets
	eastLat, eastLon := east.Centroid()
	westLat, westLon := west.Centroid()
	eastX, eastY, err := cal.LatLonToGantry(eastLat, eastLon)
	assert.Nil(t, err)
	westX, westY, err := cal.LatLonToGantry(westLat, westLon)
	assert.Nil(t, err)
	assert.InDelta(t, eastX, westX, 0.01)
	assert.NotEqual(t, eastY, westY)
}

func TestCalculateGPSBounds_Scanner3DMissingScanDistance(t *testing.T) {
	md := cleanedRecord(util.Properties{
		"scanner_west_location_in_camera_box_m": util.Properties{},
		"scanner_east_location_in_camera_box_m": util.Properties{},
	}, util.Properties{})

	_, err := CalculateGPSBounds(md, sensors.Scanner3DTop, MaricopaSiteCalibration)

	assert.NotNil(t, err)
}

func TestBoundingBoxWithFormula_NormalizesInvertedCorners(t *testing.T) {
	// A negative field of view projects the "northwest" corner southeast of
	// the "southeast" corner; the box must still come back ordered
	inverted, err := boundingBoxWithFormula(1.0, 2.0, -1.5, -2.5, MaricopaSiteCalibration)
	assert.Nil(t, err)
	regular, err := boundingBoxWithFormula(1.0, 2.0, 1.5, 2.5, MaricopaSiteCalibration)
	assert.Nil(t, err)

	assert.True(t, inverted.LatMin <= inverted.LatMax)
	assert.True(t, inverted.LonMin <= inverted.LonMax)
	assert.Equal(t, regular, inverted)
}

func TestBoundingBoxPolygon(t *testing.T) {
	box := BoundingBox{LatMin: 33.07, LatMax: 33.08, LonMin: -111.98, LonMax: -111.97}

	polygon := box.Polygon()

	assert.Len(t, polygon.Coordinates, 1)
	ring := polygon.Coordinates[0]
	assert.Len(t, ring, 5)
	assert.Equal(t, ring[0], ring[4], "ring must close")
	assert.Equal(t, []float64{-111.98, 33.08}, ring[0])
	assert.Equal(t, []float64{-111.98, 33.07}, ring[1])
}

func TestBoundingBoxCentroid(t *testing.T) {
	box := BoundingBox{LatMin: 33.0, LatMax: 33.1, LonMin: -112.0, LonMax: -111.9}

	lat, lon := box.Centroid()
	assert.InDelta(t, 33.05, lat, 1e-9)
	assert.InDelta(t, -111.95, lon, 1e-9)

	point := box.CentroidPoint()
	assert.InDelta(t, -111.95, point.Coordinates[0], 1e-9)
	assert.InDelta(t, 33.05, point.Coordinates[1], 1e-9)
}

func TestBoundingBoxGeoJSONFeature(t *testing.T) {
	box := BoundingBox{LatMin: 33.0, LatMax: 33.1, LonMin: -112.0, LonMax: -111.9}

	feature, err := box.GeoJSONFeature()

	assert.Nil(t, err)
	assert.NotNil(t, feature.Bbox)
	assert.Contains(t, feature.Properties, "centroid")
}
