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
	"regexp"
	"strings"

	"github.com/terraref/terrautils/util"
)

// gantryPropMap lists every spelling of every gantry_system_variable_metadata
// field encountered since 2016, including typos written by the control
// software ("Camnera"). Many are never used in the final cleaned record but
// mapping them keeps them out of the unmapped-field warnings.
var gantryPropMap = PropertyMap{
	"time":      {Path: []string{"time"}},
	"Time":      {Path: []string{"time"}},
	"timestamp": {Path: []string{"time"}},
	"Timestamp": {Path: []string{"time"}},

	"position x [m]": {Path: []string{"position_m", "x"}},
	"Position x [m]": {Path: []string{"position_m", "x"}},
	"position y [m]": {Path: []string{"position_m", "y"}},
	"Position y [m]": {Path: []string{"position_m", "y"}},
	"position z [m]": {Path: []string{"position_m", "z"}},
	"Position z [m]": {Path: []string{"position_m", "z"}},

	"speed x [m/s]":    {Path: []string{"speed_m/s", "x"}},
	"speed y [m/s]":    {Path: []string{"speed_m/s", "y"}},
	"speed z [m/s]":    {Path: []string{"speed_m/s", "z"}},
	"Velocity x [m/s]": {Path: []string{"velocity_m/s", "x"}},
	"Velocity y [m/s]": {Path: []string{"velocity_m/s", "y"}},
	"Velocity z [m/s]": {Path: []string{"velocity_m/s", "z"}},

	"scanDistance [m]":    {Path: []string{"scan_distance_m"}},
	"scanDistanceInM [m]": {Path: []string{"scan_distance_m"}},

	"scanSpeed [m/s]":        {Path: []string{"scan_speed_m/s"}},
	"scanSpeedInMPerS [m/s]": {Path: []string{"scan_speed_m/s"}},

	"scanMode": {Path: []string{"scan_mode"}},

	"camera box light 1 is on":  {Path: []string{"camera_box_light_1_on"}},
	"Camnera box light 1 is on": {Path: []string{"camera_box_light_1_on"}},
	"camera box light 2 is on":  {Path: []string{"camera_box_light_2_on"}},
	"Camnera box light 2 is on": {Path: []string{"camera_box_light_2_on"}},
	"camera box light 3 is on":  {Path: []string{"camera_box_light_3_on"}},
	"Camnera box light 3 is on": {Path: []string{"camera_box_light_3_on"}},
	"camera box light 4 is on":  {Path: []string{"camera_box_light_4_on"}},
	"Camnera box light 4 is on": {Path: []string{"camera_box_light_4_on"}},

	"Script copy path on FTP server": {Path: []string{"script_path_ftp_server"}},
	"Script path on local disk":      {Path: []string{"script_path_on_disk"}},
	"sensor setting file path":       {Path: []string{"sensor_setting_file_path"}},

	// Used in the calculation of the point cloud origin
	"scanIsInPositiveDirection": {Path: []string{"scan_direction_is_positive"}, Default: "False"},
	"scanDirectionIsPositive":   {Path: []string{"scan_direction_is_positive"}, Default: "False"},

	"PLC control not available": {Path: []string{"error"}},

	// Found on co2Sensor
	"x end pos [m]":              {Path: []string{"end_position_m", "x"}},
	"x set velocity [m/s]":       {Path: []string{"velocity_m/s", "x"}},
	"x set acceleration [m/s^2]": {Path: []string{"acceleration_m/s^2", "x"}},
	"x set deceleration [m/s^2]": {Path: []string{"deceleration_m/s^2", "x"}},

	// Found on cropCircle
	"y end pos [m]":               {Path: []string{"end_position_m", "y"}},
	"Y end pos [m]":               {Path: []string{"end_position_m", "y"}},
	"y set velocity [m/s]":        {Path: []string{"velocity_m/s", "y"}},
	"Y set velocity [m/s]":        {Path: []string{"velocity_m/s", "y"}},
	"y set acceleration [m/s^2]":  {Path: []string{"acceleration_m/s^2", "y"}},
	"Y set acceleration [m/s^2]":  {Path: []string{"acceleration_m/s^2", "y"}},
	"y set deceleration [m/s^2]":  {Path: []string{"deceleration_m/s^2", "y"}},
	"y set decceleration [m/s^2]": {Path: []string{"deceleration_m/s^2", "y"}},
	"Y set decceleration [m/s^2]": {Path: []string{"deceleration_m/s^2", "y"}},

	// FAT tests
	"Measurement purpose [FAT test]":                                             {Path: []string{"ignored"}},
	"Measurement target [Test object sandbox]":                                   {Path: []string{"ignored"}},
	"fat measurement [comparison color sensors to hyperspec above green target]": {Path: []string{"ignored"}},
	"repeats [1 of 1]":                       {Path: []string{"ignored"}},
	"repeats [1 of 3]":                       {Path: []string{"ignored"}},
	"repeats [2 of 3]":                       {Path: []string{"ignored"}},
	"repeats [3 of 3]":                       {Path: []string{"ignored"}},
	"fat measurement [test chart (resting)]": {Path: []string{"ignored"}, Default: "test chart(resting)"},
	"fat measurement [black body (moving)]":  {Path: []string{"ignored"}},
	"fat measurement [black body (resting)]": {Path: []string{"ignored"}},
	"only small set of meta data available":  {Path: []string{"ignored"}},
	"Only small set of meta data available":  {Path: []string{"ignored"}},
	"fat measurement [PS2 on fluo target]":   {Path: []string{"ignored"}},
	"fat measurement [3d scan of test target (different directions and different speeds)]": {Path: []string{"ignored"}},
}

// gantryOutputFields is the subset of standardized gantry fields kept in the
// cleaned record
var gantryOutputFields = []string{
	"datetime", "date", "position_m", "scan_direction_is_positive",
	"script_path_on_disk", "script_name", "script_hash", "fullfield_eligible", "error",
}

// e.g. "C:\\LemnaTec\\StoredScripts\\3D_Scan_Field_SouthStart_033MperS.cs"
var scriptNamePattern = regexp.MustCompile(`^.*\\(.*?)\.cs`)

// standardizeGantry normalizes the gantry_system_variable_metadata
// sub-document: key mapping, scan direction inference, timestamp parsing and
// scan script identification
func standardizeGantry(context util.LogContext, orig util.Properties, programs ScanPrograms, filepath string) util.Properties {
	properties := standardize(context, "gantry_system_variable_metadata", orig, gantryPropMap, filepath)

	// When the scan direction was not recorded, a capture at y=0 (the
	// south end of the field, where scans start) is a positive scan
	if !properties.Has("scan_direction_is_positive") {
		if position, err := properties.Map("position_m"); err == nil {
			if y, err := position.Float("y"); err == nil && y == 0 {
				properties["scan_direction_is_positive"] = "True"
			} else {
				properties["scan_direction_is_positive"] = "False"
			}
		}
	}

	if timestr, err := properties.String("time"); err == nil {
		if local, err := standardizeTime(timestr); err == nil {
			properties["datetime"] = local.Format("2006-01-02T15:04:05-07:00")
			properties["date"] = local.Format("2006-01-02")
		} else {
			util.LogError(context, "cannot parse gantry time "+timestr+": "+err.Error())
		}
	}

	if scriptPath, err := properties.String("script_path_on_disk"); err == nil {
		if match := scriptNamePattern.FindStringSubmatch(scriptPath); match != nil {
			scriptNameCaps := match[1]
			scriptName := strings.Replace(strings.ToLower(scriptNameCaps), " ", "_", -1)
			properties["script_name"] = scriptName
			properties["fullfield_eligible"] = programs.FullfieldEligible(scriptName)

			// Retain the unique script hash to differentiate the same
			// scan run multiple times in a day, e.g.
			// "ftp://10.160.21.2//gantry_data/LemnaTec/ScriptBackup/3D_Scan_Field_SouthStart_033MperS_6d2cf837-5107-4a67-87f3-cc7b65551931.cs"
			if ftpPath, err := properties.String("script_path_ftp_server"); err == nil {
				if i := strings.Index(ftpPath, scriptNameCaps); i > -1 {
					hash := ftpPath[i+len(scriptNameCaps)+1:]
					if len(hash) > 3 {
						properties["script_hash"] = hash[:len(hash)-3]
					}
				}
			}
		}
	}

	output := util.Properties{}
	for _, field := range gantryOutputFields {
		if value, ok := properties[field]; ok {
			output[field] = value
		}
	}
	return output
}

// dateFromRawMetadata extracts the capture date (YYYY-MM-DD) from a raw
// document's gantry time field, before any cleaning has happened. Used to
// select the date-appropriate fixed metadata record.
func dateFromRawMetadata(raw util.Properties) string {
	gantry, err := raw.Map("gantry_system_variable_metadata")
	if err != nil {
		return defaultDate
	}
	for _, key := range []string{"time", "Time", "timestamp", "Timestamp"} {
		timestr, err := gantry.String(key)
		if err != nil {
			continue
		}
		if local, err := standardizeTime(timestr); err == nil {
			return local.Format("2006-01-02")
		}
	}
	return defaultDate
}

const defaultDate = "2012-01-01"
