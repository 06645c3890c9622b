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

// Package sensors maps sensor identifiers to file system layouts and fixed
// metadata for each TERRA-REF station.
package sensors

import (
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"
)

// Sensor identifiers as they appear in raw data paths and metadata records
const (
	Scanalyzer        = "scanalyzer"
	CO2Sensor         = "co2Sensor"
	CropCircle        = "cropCircle"
	EnvironmentLogger = "EnvironmentLogger"
	FlirIrCamera      = "flirIrCamera"
	Irrigation        = "irrigation"
	Lightning         = "lightning"
	NDVISensor        = "ndviSensor"
	PARSensor         = "parSensor"
	PRISensor         = "priSensor"
	PS2Top            = "ps2Top"
	Scanner3DTop      = "scanner3DTop"
	StereoTop         = "stereoTop"
	SWIR              = "SWIR"
	VNIR              = "VNIR"
	Weather           = "weather"
	FullField         = "fullfield"
	DDPSCIndoorSuite  = "ddpscIndoorSuite"
)

// Regex fragments for the filename pattern placeholders
const (
	yearPattern     = `(20\d\d)`
	monthPattern    = `(0[1-9]|1[0-2])`
	dayPattern      = `(10|20|[0-2][1-9]|3[01])`
	timePattern     = `([0-1]\d|2[0-3])-([0-5]\d)-([0-5]\d)`
	fullTimePattern = `([0-1]\d|2[0-3])-([0-5]\d)-([0-5]\d)-(\d{3})`
)

var (
	datePattern     = yearPattern + "-" + monthPattern + "-" + dayPattern
	fullDatePattern = datePattern + "__" + fullTimePattern
)

// Info describes one sensor or derived product at a station
type Info struct {
	Display         string
	Template        string
	Pattern         string
	FixedMetadataID string
	BetyTraits      map[string]string
}

// Station is the set of sensors and products available at one site
type Station map[string]Info

// Stations is the registry of known TERRA-REF sites. Bety trait names are
// looked up through BetyTraits so that renames only touch this table.
var Stations = map[string]Station{
	"danforth": {
		DDPSCIndoorSuite: {
			BetyTraits: map[string]string{
				"sv_area":   "sv_area",
				"tv_area":   "tv_area",
				"hull_area": "hull_area",
				"solidity":  "solidity",
				"height":    "height",
				"perimeter": "perimeter",
			},
		},
	},

	"ksu": {
		"dsm": {
			Display:  "Digital Surface Model GeoTIFFs",
			Template: "{base}/{station}/Level_1/{sensor}/{filename}",
			Pattern:  "{time}_DSM_16ASH-TERRA.tif",
		},
		"rededge": {
			Display:  "Red Edge",
			Template: "{base}/{station}/Level_1/{sensor}/{filename}",
			Pattern:  "{time}_BGREN_16ASH-TERRA",
		},
	},

	"ua-mac": {
		CO2Sensor: {
			FixedMetadataID: "5873a9924f0cad7d8131b648",
			Template:        "{base}/{station}/raw_data/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:         `([0-9a-f]){8}-([0-9a-f]){4}-([0-9a-f]){4}-([0-9a-f]){4}-([0-9a-f]){12}_(metadata.json|rawData0000.bin)`,
		},
		StereoTop: {
			FixedMetadataID: "5873a8ae4f0cad7d8131ac0e",
			Template:        "{base}/{station}/raw_data/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:         "hashid{opts}.bin",
		},
		FlirIrCamera: {
			FixedMetadataID: "5873a7184f0cad7d8131994a",
			Template:        "{base}/{station}/raw_data/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:         "hashid_ir.bin",
		},
		CropCircle: {
			FixedMetadataID: "5873a7ed4f0cad7d8131a2e7",
		},
		Irrigation: {
			FixedMetadataID: "TBD",
		},
		EnvironmentLogger: {
			FixedMetadataID: "TBD",
			Template:        "{base}/{station}/raw_data/{sensor}/{date}/{filename}",
			Pattern:         "{timestamp}_environment_logger.json",
		},
		Lightning: {
			FixedMetadataID: "TBD",
		},
		NDVISensor: {
			FixedMetadataID: "5873a8f64f0cad7d8131af54",
		},
		PARSensor: {
			FixedMetadataID: "5873a8ce4f0cad7d8131ad86",
		},
		PRISensor: {
			FixedMetadataID: "5873a9174f0cad7d8131b09a",
		},
		PS2Top: {
			FixedMetadataID: "5873a84b4f0cad7d8131a73d",
		},
		Scanner3DTop: {
			FixedMetadataID: "5873a7444f0cad7d81319b2b",
			Template:        "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:         "hashid__Top-heading-{opts}_0.ply",
		},
		SWIR: {
			FixedMetadataID: "5873a79e4f0cad7d81319f5f",
		},
		VNIR: {
			FixedMetadataID: "5873a7bb4f0cad7d8131a0b7",
		},
		Weather: {
			FixedMetadataID: "TBD",
		},
		Scanalyzer: {
			FixedMetadataID: "5873eac64f0cad7d81349b0b",
		},
		FullField: {
			Display:  "Full Field Stitched Mosaics",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{date}{opts}.tif",
		},
		"vnir_netcdf": {
			Display:    "VNIR Hyperspectral NetCDFs",
			Template:   "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:    "{sensor}_L1_{station}_{timestamp}{opts}.nc",
			BetyTraits: map[string]string{"NDVI705": "NDVI705"},
		},
		"swir_netcdf": {
			Display:    "SWIR Hyperspectral NetCDFs",
			Template:   "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:    "{sensor}_L1_{station}_{timestamp}{opts}.nc",
			BetyTraits: map[string]string{"NDVI705": "NDVI705"},
		},
		"rgb_geotiff": {
			Display:  "RGB GeoTIFFs",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.tif",
		},
		"rgb_canopyCover": {
			Template:   "{base}/{station}/Level_1/{sensor}/{date}/{filename}",
			Pattern:    "{sensor}_L2_{station}_{date}{opts}.csv",
			BetyTraits: map[string]string{"canopy_cover": "canopy_cover"},
		},
		"texture_analysis": {
			Display:  "RGB Texture Analysis",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.csv",
		},
		"ir_geotiff": {
			Display:  "Thermal IR GeoTIFFs",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.tif",
		},
		"ps2_png": {
			Display:  "PSII PNGs",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.png",
		},
		"ps2_fluorescence": {
			Display:  "PSII Fluorescence Features",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.png",
		},
		"spectral_index_csvs": {
			Display:  "Multispectral Index CSVs",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.csv",
		},
		"envlog_netcdf": {
			Display:  "EnvironmentLogger netCDFs",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{filename}",
			Pattern:  "{sensor}_L1_{station}_{timestamp}{opts}.nc",
		},
		"laser3d_mergedlas": {
			Display:  "Laser Scanner 3D LAS",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "scanner3DTop_L1_{station}_{timestamp}_merged{opts}.las",
		},
		"laser3d_plant_height": {
			Display:  "Laser Scanner 3D Plant Height",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "scanner3DTop_L1_{station}_{timestamp}_height{opts}.tif",
		},
		"laser3d_heightmap": {
			Display:  "Digital Surface Model GeoTiffs",
			Template: "{base}/{station}/Level_1/{sensor}/{date}/{timestamp}/{filename}",
			Pattern:  "scanner3DTop_L2_{station}_{timestamp}_heightmap{opts}.tif",
		},
		"ir_meanTemp": {
			Template:   "{base}/{station}/Level_1/{sensor}/{date}/{filename}",
			Pattern:    "{sensor}_L2_{station}_{date}{opts}.csv",
			BetyTraits: map[string]string{"surface_temperature": "surface_temperature"},
		},
	},
}

// Sensors resolves file system paths for sensor data at one station
type Sensors struct {
	Base    string
	Station string
	Sensor  string

	stations map[string]Station
}

// NewSensors returns a path resolver rooted at base for the named station.
// The sensor may be empty and supplied per call instead.
func NewSensors(base, station, sensor string) (*Sensors, error) {
	return newSensors(base, station, sensor, Stations)
}

func newSensors(base, station, sensor string, stations map[string]Station) (*Sensors, error) {
	if _, ok := stations[station]; !ok {
		return nil, fmt.Errorf("unknown station name %q", station)
	}
	return &Sensors{
		Base:     strings.TrimRight(base, "/"),
		Station:  station,
		Sensor:   sensor,
		stations: stations,
	}, nil
}

// PathOptions adjusts how a sensor path is built
type PathOptions struct {
	// Sensor overrides the resolver's sensor
	Sensor string
	// Filename, when set, is validated against the sensor's pattern and
	// used as-is instead of the generated well-known filename
	Filename string
	// Opts are suffixes joined into the generated filename
	Opts []string
	// Ext replaces the extension of the generated filename
	Ext string
}

func (s *Sensors) info(sensor string) (Info, error) {
	info, ok := s.stations[s.Station][sensor]
	if !ok {
		return Info{}, fmt.Errorf("sensor %s does not exist", sensor)
	}
	return info, nil
}

func splitTimestamp(timestamp string) (date, hms string) {
	if i := strings.Index(timestamp, "__"); i > -1 {
		return timestamp[:i], timestamp[i+2:]
	}
	return timestamp, ""
}

func expand(template string, fields map[string]string) string {
	pairs := make([]string, 0, len(fields)*2)
	for key, value := range fields {
		pairs = append(pairs, "{"+key+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// GetSensorPath returns the canonical path for sensor data captured at the
// given timestamp (date or date__HH-MM-SS-mmm). When opts.Filename is empty
// a well-known filename is generated from the sensor's pattern; otherwise the
// supplied filename must match the pattern.
func (s *Sensors) GetSensorPath(timestamp string, opts PathOptions) (string, error) {
	sensor := opts.Sensor
	if sensor == "" {
		sensor = s.Sensor
	}
	if sensor == "" {
		return "", fmt.Errorf("sensor not set")
	}
	info, err := s.info(sensor)
	if err != nil {
		return "", err
	}

	date, hms := splitTimestamp(timestamp)

	suffix := ""
	if len(opts.Opts) > 0 {
		suffix = "_" + strings.Join(opts.Opts, "_")
	}

	filename := opts.Filename
	if filename != "" {
		pattern := "^" + expand(info.Pattern, map[string]string{
			"sensor":    `\D*`,
			"station":   `\D*`,
			"date":      datePattern,
			"time":      fullTimePattern,
			"timestamp": fullDatePattern,
			"opts":      `\D*`,
		}) + "$"
		matched, err := regexp.MatchString(pattern, filename)
		if err != nil {
			return "", err
		}
		if !matched {
			return "", fmt.Errorf("filename %s does not match the %s pattern", filename, sensor)
		}
	} else {
		filename = expand(info.Pattern, map[string]string{
			"station":   s.Station,
			"sensor":    sensor,
			"timestamp": timestamp,
			"date":      date,
			"time":      hms,
			"opts":      suffix,
		})
	}

	if opts.Ext != "" {
		ext := path.Ext(filename)
		filename = strings.TrimSuffix(filename, ext) + "." + strings.TrimLeft(opts.Ext, ".")
	}

	return expand(info.Template, map[string]string{
		"base":      s.Base,
		"station":   s.Station,
		"sensor":    sensor,
		"timestamp": timestamp,
		"date":      date,
		"time":      hms,
		"filename":  filename,
	}), nil
}

// GetSensorPathByDataset resolves a path from a Clowder dataset name of the
// form "sensor - 2017-06-28__23-48-28-435". The hms argument adds or replaces
// the time portion for datasets named by date only.
func (s *Sensors) GetSensorPathByDataset(dsname, hms string, opts PathOptions) (string, error) {
	sensorName := dsname
	timestamp := "2017-01-01"
	if i := strings.Index(dsname, " - "); i > -1 {
		sensorName = dsname[:i]
		timestamp = dsname[i+3:]
	}

	if hms != "" {
		date, _ := splitTimestamp(timestamp)
		timestamp = date + "__" + hms
	}

	if opts.Sensor == "" {
		opts.Sensor = sensorName
	}
	return s.GetSensorPath(timestamp, opts)
}

// CreateSensorPath is GetSensorPath with the side effect of creating any
// missing directories in the returned path
func (s *Sensors) CreateSensorPath(timestamp string, opts PathOptions) (string, error) {
	p, err := s.GetSensorPath(timestamp, opts)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(path.Dir(p), 0755); err != nil {
		return "", err
	}
	return p, nil
}

// GetFixedDatasetID returns the Clowder dataset ID holding the fixed
// metadata for a sensor
func (s *Sensors) GetFixedDatasetID(sensor string) (string, error) {
	if sensor == "" {
		sensor = s.Sensor
	}
	info, err := s.info(sensor)
	if err != nil {
		return "", err
	}
	return info.FixedMetadataID, nil
}

// GetDisplayName returns the human readable name for a sensor
func (s *Sensors) GetDisplayName(sensor string) (string, error) {
	if sensor == "" {
		sensor = s.Sensor
	}
	info, err := s.info(sensor)
	if err != nil {
		return "", err
	}
	return info.Display, nil
}

// GetSites lists the known station names
func GetSites() []string {
	sites := make([]string, 0, len(Stations))
	for name := range Stations {
		sites = append(sites, name)
	}
	return sites
}

// GetSensors lists the sensors registered for the resolver's station
func (s *Sensors) GetSensors() []string {
	station := s.stations[s.Station]
	names := make([]string, 0, len(station))
	for name := range station {
		names = append(names, name)
	}
	return names
}

// BetyTraitName maps an extractor trait key to the name submitted to BETYdb
func (s *Sensors) BetyTraitName(sensor, trait string) (string, bool) {
	info, err := s.info(sensor)
	if err != nil {
		return "", false
	}
	name, ok := info.BetyTraits[trait]
	return name, ok
}
