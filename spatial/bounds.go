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

// Package spatial derives WGS84 geometry for gantry sensor captures.
package spatial

import (
	"fmt"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/terraref/terrautils/metadata"
	"github.com/terraref/terrautils/sensors"
	"github.com/terraref/terrautils/util"
)

// BoundingBox is a WGS84 rectangle: (lat(y) min, lat(y) max, lon(x) min,
// lon(x) max), matching the coordinate order GeoTIFF creation expects
type BoundingBox struct {
	LatMin float64 `json:"lat_min"`
	LatMax float64 `json:"lat_max"`
	LonMin float64 `json:"lon_min"`
	LonMax float64 `json:"lon_max"`
}

// Centroid returns the center of the box as (lat, lon)
func (b BoundingBox) Centroid() (lat, lon float64) {
	return b.LatMin + (b.LatMax-b.LatMin)/2, b.LonMin + (b.LonMax-b.LonMin)/2
}

// IsZeroArea reports whether the box has collapsed to a point or a line
func (b BoundingBox) IsZeroArea() bool {
	return b.LatMin == b.LatMax || b.LonMin == b.LonMax
}

// Polygon returns the box as a GeoJSON polygon with a closed
// counterclockwise ring starting at the northwest corner
func (b BoundingBox) Polygon() *geojson.Polygon {
	return geojson.NewPolygon([][][]float64{{
		{b.LonMin, b.LatMax},
		{b.LonMin, b.LatMin},
		{b.LonMax, b.LatMin},
		{b.LonMax, b.LatMax},
		{b.LonMin, b.LatMax},
	}})
}

// CentroidPoint returns the center of the box as a GeoJSON point
func (b BoundingBox) CentroidPoint() *geojson.Point {
	lat, lon := b.Centroid()
	return geojson.NewPoint([]float64{lon, lat})
}

// GeoJSONFeature returns the box as a feature carrying its centroid as a
// property
func (b BoundingBox) GeoJSONFeature() (*geojson.Feature, error) {
	lat, lon := b.Centroid()
	feature := geojson.NewFeature(b.Polygon(), "", map[string]interface{}{
		"centroid": []float64{lon, lat},
	})
	feature.Bbox = feature.ForceBbox()
	return feature, nil
}

// geometry holds the gantry position, the sensor offset within the camera
// box, and the sensor field of view, all in meters (FOV may be in degrees
// for sensors that only report field_of_view_degrees; the caller scales it)
type geometry struct {
	gantryX, gantryY, gantryZ float64
	camboxX, camboxY, camboxZ float64
	fovX, fovY                float64
}

func (g geometry) center() (x, y, z float64) {
	return g.gantryX + g.camboxX, g.gantryY + g.camboxY, g.gantryZ + g.camboxZ
}

// fovFields in priority order; the first one present wins
var fovFields = []string{"field_of_view_m", "field_of_view_at_2m_m", "field_of_view_degrees"}

func floatOrZero(props util.Properties, key string) float64 {
	value, err := props.Float(key)
	if err != nil {
		return 0
	}
	return value
}

// geomFromMetadata parses the capture location from a cleaned record. The
// side selects which laser scanner head's camera box offset to read; other
// sensors carry a single location_in_camera_box_m and ignore it.
func geomFromMetadata(md *metadata.Cleaned, side string) (geometry, error) {
	var g geometry

	if !md.Cleaned {
		return g, fmt.Errorf("metadata has not been cleaned")
	}
	position, err := md.GantryVariableMetadata.Map("position_m")
	if err != nil {
		return g, fmt.Errorf("gantry position missing: %v", err)
	}
	g.gantryX = floatOrZero(position, "x")
	g.gantryY = floatOrZero(position, "y")
	g.gantryZ = floatOrZero(position, "z")

	fixed := md.SensorFixedMetadata
	if cambox, err := fixed.Map("location_in_camera_box_m"); err == nil {
		g.camboxX = floatOrZero(cambox, "x")
		g.camboxY = floatOrZero(cambox, "y")
		g.camboxZ = floatOrZero(cambox, "z")
	} else if cambox, err := fixed.Map("scanner_" + side + "_location_in_camera_box_m"); err == nil {
		g.camboxX = floatOrZero(cambox, "x")
		g.camboxY = floatOrZero(cambox, "y")
		g.camboxZ = floatOrZero(cambox, "z")
	}

	for _, field := range fovFields {
		if fov, err := fixed.Map(field); err == nil {
			g.fovX = floatOrZero(fov, "x")
			g.fovY = floatOrZero(fov, "y")
			break
		}
	}

	return g, nil
}

// CalculateGPSBounds extracts the bounding box geometry of a capture,
// applying sensor-specific transformations to the center position and field
// of view. Sensors with two imaging heads (the stereo camera and the laser
// scanner) produce one box per head; all others produce a single box keyed
// by the sensor ID.
func CalculateGPSBounds(md *metadata.Cleaned, sensorID string, cal SiteCalibration) (map[string]BoundingBox, error) {
	g, err := geomFromMetadata(md, "west")
	if err != nil {
		return nil, err
	}

	centerX, centerY, camHeight := g.center()
	fovX, fovY := g.fovX, g.fovY

	switch sensorID {
	case sensors.StereoTop:
		slopeEstimation, err := md.SensorFixedMetadata.Float("slope_estimation")
		if err != nil {
			return nil, err
		}
		railHeightOffset, err := md.SensorFixedMetadata.Float("rail_height_offset")
		if err != nil {
			return nil, err
		}
		stereoOffset, err := md.SensorFixedMetadata.Float("stereo_offsets_from_center")
		if err != nil {
			return nil, err
		}

		// Estimate canopy height from camera height, then scale the
		// angular FOV by the camera's height above the canopy
		predictedPlantHeight := slopeEstimation * camHeight
		camHeightAboveCanopy := camHeight + railHeightOffset - predictedPlantHeight
		fovX *= camHeightAboveCanopy / 2
		fovY *= camHeightAboveCanopy / 2

		left, err := boundingBoxWithFormula(centerX-stereoOffset, centerY, fovX, fovY, cal)
		if err != nil {
			return nil, err
		}
		right, err := boundingBoxWithFormula(centerX+stereoOffset, centerY, fovX, fovY, cal)
		if err != nil {
			return nil, err
		}
		return map[string]BoundingBox{"left": left, "right": right}, nil

	case sensors.FlirIrCamera:
		railHeightOffset, err := md.SensorFixedMetadata.Float("rail_height_offset")
		if err != nil {
			return nil, err
		}
		camHeightAboveCanopy := camHeight + railHeightOffset
		fovX *= camHeightAboveCanopy / 2
		fovY *= camHeightAboveCanopy / 2

	case sensors.Scanner3DTop:
		east, err := geomFromMetadata(md, "east")
		if err != nil {
			return nil, err
		}

		scanDistanceMM, err := md.SensorVariableMetadata.Float("scan_distance_mm")
		if err != nil {
			return nil, err
		}
		scanDistance := scanDistanceMM / 1000
		scanDirection, err := md.SensorVariableMetadata.Float("scan_direction")
		if err != nil {
			return nil, err
		}

		// The scanner sweeps along Y, so the box is rotated 90 degrees
		// relative to the reported FOV
		fovX = g.fovY
		fovY = scanDistance

		westY := g.gantryY + 2*g.camboxY
		eastY := east.gantryY + 2*east.camboxY
		if int(scanDirection) == 0 { // negative scan
			westY += -scanDistance/2 + cal.Scanner3DWestNegOffset
			eastY += -scanDistance/2 + cal.Scanner3DEastNegOffset
		} else { // positive scan
			westY += scanDistance/2 + cal.Scanner3DWestPosOffset
			eastY += scanDistance/2 + cal.Scanner3DEastPosOffset
		}
		westX := g.gantryX + g.camboxX + cal.Scanner3DHeadOffsetX
		eastX := east.gantryX + east.camboxX + cal.Scanner3DHeadOffsetX

		eastBounds, err := boundingBoxWithFormula(eastX, eastY, fovX, fovY, cal)
		if err != nil {
			return nil, err
		}
		westBounds, err := boundingBoxWithFormula(westX, westY, fovX, fovY, cal)
		if err != nil {
			return nil, err
		}
		return map[string]BoundingBox{"east": eastBounds, "west": westBounds}, nil
	}

	bounds, err := boundingBoxWithFormula(centerX, centerY, fovX, fovY, cal)
	if err != nil {
		return nil, err
	}
	return map[string]BoundingBox{sensorID: bounds}, nil
}

// boundingBoxWithFormula converts a scanner box center position and field of
// view to a WGS84 bounding box. Gantry +X points roughly north and +Y
// roughly west, so the northwest corner is (x+fovX/2, y+fovY/2).
func boundingBoxWithFormula(centerX, centerY, fovX, fovY float64, cal SiteCalibration) (BoundingBox, error) {
	nwLat, nwLon, err := cal.GantryToLatLon(centerX+fovX/2, centerY+fovY/2)
	if err != nil {
		return BoundingBox{}, err
	}
	seLat, seLon, err := cal.GantryToLatLon(centerX-fovX/2, centerY-fovY/2)
	if err != nil {
		return BoundingBox{}, err
	}

	bounds := BoundingBox{
		LatMin: seLat, LatMax: nwLat,
		LonMin: nwLon, LonMax: seLon,
	}
	if bounds.LatMin > bounds.LatMax {
		bounds.LatMin, bounds.LatMax = bounds.LatMax, bounds.LatMin
	}
	if bounds.LonMin > bounds.LonMax {
		bounds.LonMin, bounds.LonMax = bounds.LonMax, bounds.LonMin
	}
	return bounds, nil
}
