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

package lemnatec

import (
	"fmt"

	"github.com/terraref/terrautils/sensors"
	"github.com/terraref/terrautils/util"
)

var cropCirclePropMap = PropertyMap{
	"current setting rotate flip type": {Path: []string{"rotate_flip_type"}},
	"current setting crosshairs":       {Path: []string{"crosshairs"}},
}

var flirPropMap = PropertyMap{
	"current setting AutoFocus":                {Path: []string{"autofocus"}},
	"current setting Manual focal length [cm]": {Path: []string{"manual_focal_length_cm"}},
	// 2016 data
	"current setting Manual focal length": {Path: []string{"manual_focal_length_cm"}},
	"current setting ImageAdjustMode":     {Path: []string{"image_adjust_mode"}},
	"camera info":                         {Path: []string{"camera_info"}},
	"focus distance [m]":                  {Path: []string{"focus_distance_m"}},
	"lens temperature [K]":                {Path: []string{"lens_temperature_K"}},
	"shutter temperature [K]":             {Path: []string{"shutter_temperature_K"}},
	"front temperature [K]":               {Path: []string{"front_temperature_K"}},
}

var ps2PropMap = PropertyMap{
	"current setting rotate flip type": {Path: []string{"rotate_flip_type"}},
	"current setting crosshairs":       {Path: []string{"crosshairs"}},
	"current setting exposure":         {Path: []string{"exposure"}},
	"current setting gain":             {Path: []string{"gain"}},
	"current setting gamma":            {Path: []string{"gamma"}},
	"current setting ledcurrent":       {Path: []string{"led_current"}},
}

var stereoTopPropMap = PropertyMap{
	"Rotate flip type - left":  {Path: []string{"rotate_flip_type", "left"}},
	"Rotate flip type - right": {Path: []string{"rotate_flip_type", "right"}},
	"rotate flip type - left":  {Path: []string{"rotate_flip_type", "left"}},
	"rotate flip type - right": {Path: []string{"rotate_flip_type", "right"}},

	"Crosshairs - left":  {Path: []string{"crosshairs", "left"}},
	"Crosshairs - right": {Path: []string{"crosshairs", "right"}},
	"crosshairs - left":  {Path: []string{"crosshairs", "left"}},
	"crosshairs - right": {Path: []string{"crosshairs", "right"}},

	"exposure - left":      {Path: []string{"exposure", "left"}},
	"exposure - right":     {Path: []string{"exposure", "right"}},
	"autoexposure - left":  {Path: []string{"autoexposure", "left"}},
	"autoexposure - right": {Path: []string{"autoexposure", "right"}},

	"gain - left":      {Path: []string{"gain", "left"}},
	"gain - right":     {Path: []string{"gain", "right"}},
	"autogain - left":  {Path: []string{"autogain", "left"}},
	"autogain - right": {Path: []string{"autogain", "right"}},

	"gamma - left":  {Path: []string{"gamma", "left"}},
	"gamma - right": {Path: []string{"gamma", "right"}},

	"rwhitebalanceratio - left":  {Path: []string{"rwhitebalanceratio", "left"}},
	"rwhitebalanceratio - right": {Path: []string{"rwhitebalanceratio", "right"}},
	"bwhitebalanceratio - left":  {Path: []string{"bwhitebalanceratio", "left"}},
	"bwhitebalanceratio - right": {Path: []string{"bwhitebalanceratio", "right"}},

	"height left image [pixel]":  {Path: []string{"height_image_pixels", "left"}},
	"width left image [pixel]":   {Path: []string{"width_image_pixels", "left"}},
	"image format left image":    {Path: []string{"image_format", "left"}},
	"height right image [pixel]": {Path: []string{"height_image_pixels", "right"}},
	"width right image [pixel]":  {Path: []string{"width_image_pixels", "right"}},
	"image format right image":   {Path: []string{"image_format", "right"}},
}

// hyperspectralPropMap covers both the VNIR and SWIR imagers, which share a
// metadata format
var hyperspectralPropMap = PropertyMap{
	"current setting frameperiod":        {Path: []string{"frame_period"}},
	"current setting userotatingmirror":  {Path: []string{"use_rotating_mirror"}},
	"current setting useexternaltrigger": {Path: []string{"use_external_trigger"}},
	"current setting exposure":           {Path: []string{"exposure"}},
	"current setting createdatacube":     {Path: []string{"create_data_cube"}},
	"current setting speed":              {Path: []string{"speed"}},
	"current setting constmirrorpos":     {Path: []string{"const_mirror_position"}},
	"current setting startpos":           {Path: []string{"start_position"}},
	"current setting stoppos":            {Path: []string{"stop_position"}},
}

var scanner3DPropMap = PropertyMap{
	"current setting Exposure [microS]": {Path: []string{"exposure_microS"}},
	// 2016 data
	"current setting Exposure":                                                 {Path: []string{"exposure_microS"}},
	"current setting Calculate 3D files":                                       {Path: []string{"calculate_3d_files"}},
	"current setting Laser detection threshold":                                {Path: []string{"laser_detection_threshold"}},
	"current setting Scanlines per output file":                                {Path: []string{"scanlines_per_output_file"}},
	"current setting Scan direction (automatically set at runtime)":            {Path: []string{"scan_direction"}},
	"current setting Scan distance (automatically set at runtime) [mm]":        {Path: []string{"scan_distance_mm"}},
	"current setting Scan speed (automatically set at runtime) [microMeter/s]": {Path: []string{"scan_speed_microMeter/s"}},
	"current setting Scan speed (automatically set at runtime)":                {Path: []string{"scan_speed_microMeter/s"}},
	"current setting Scan distance (automatically set at runtime)":             {Path: []string{"scan_distance_mm"}},
}

// sensorPropMaps holds the variable-metadata mapping table for each
// supported sensor. Sensors mapped to an empty table carry no variable
// metadata and standardize to an empty record.
var sensorPropMaps = map[string]PropertyMap{
	sensors.CO2Sensor:    {},
	sensors.CropCircle:   cropCirclePropMap,
	sensors.FlirIrCamera: flirPropMap,
	sensors.NDVISensor:   {},
	sensors.PARSensor:    {},
	sensors.PRISensor:    {},
	sensors.PS2Top:       ps2PropMap,
	sensors.Scanner3DTop: scanner3DPropMap,
	sensors.StereoTop:    stereoTopPropMap,
	sensors.SWIR:         hyperspectralPropMap,
	sensors.VNIR:         hyperspectralPropMap,
}

// UnknownSensorError indicates a sensor with no mapping table
type UnknownSensorError struct {
	SensorID string
}

func (e UnknownSensorError) Error() string {
	return fmt.Sprintf("no mapping table for sensor %q", e.SensorID)
}

// standardizeSensorVariable normalizes the sensor_variable_metadata
// sub-document for the given sensor. The laser scanner additionally derives
// the point cloud origin, which needs the fixed metadata head offsets and
// the already-standardized gantry position.
func standardizeSensorVariable(context util.LogContext, sensorID string, orig, fixedMD, gantryMD util.Properties, filepath string) (util.Properties, error) {
	propMap, ok := sensorPropMaps[sensorID]
	if !ok {
		return nil, UnknownSensorError{SensorID: sensorID}
	}

	properties := standardize(context, sensorID, orig, propMap, filepath)
	if sensorID == sensors.Scanner3DTop {
		properties["point_cloud_origin_m"] = calculatePointCloudOrigin(context, fixedMD, gantryMD)
	}
	return properties, nil
}
