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

	"github.com/terraref/terrautils/metadata"
	"github.com/terraref/terrautils/sensors"
	"github.com/terraref/terrautils/spatial"
	"github.com/terraref/terrautils/util"
)

// DefaultStation is the field site whose captures this library normalizes
const DefaultStation = "ua-mac"

// SiteResolver looks up the field plots covering a point on a date
type SiteResolver interface {
	SitesByLatLon(lat, lon float64, date string) ([]metadata.Site, error)
}

// ExperimentResolver looks up the experiments active on a date
type ExperimentResolver interface {
	Experiments(date string) ([]metadata.Experiment, error)
}

// FixedMetadataSource returns the fixed metadata record for a sensor in
// effect on a date
type FixedMetadataSource interface {
	FindForDate(sensorID, date string) (util.Properties, error)
}

// CleanOptions carries the collaborators and calibration used while
// cleaning. All resolver fields are optional; a nil resolver leaves the
// corresponding section of the cleaned record empty.
type CleanOptions struct {
	// Station defaults to DefaultStation
	Station string
	// Filepath of the raw document, included in log lines
	Filepath string
	// ScanPrograms decides full field eligibility per scan script
	ScanPrograms ScanPrograms
	// FixedMetadata supplies sensor fixed metadata (field of view, head
	// offsets) needed for the spatial sections
	FixedMetadata FixedMetadataSource
	Sites         SiteResolver
	Experiments   ExperimentResolver
	// Calibration defaults to the Maricopa site survey
	Calibration *spatial.SiteCalibration
}

func (o CleanOptions) station() string {
	if o.Station == "" {
		return DefaultStation
	}
	return o.Station
}

func (o CleanOptions) calibration() spatial.SiteCalibration {
	if o.Calibration == nil {
		return spatial.MaricopaSiteCalibration
	}
	return *o.Calibration
}

// Clean converts a raw LemnaTec metadata document into the standardized
// TERRA-REF record: field names and values are normalized, the fixed
// metadata references attached, and the experiment, site and spatial
// sections derived. Missing or unmapped fields degrade to partial records
// with logged gaps; Clean only fails when the document is not LemnaTec
// metadata at all or the sensor is unknown.
func Clean(context util.LogContext, raw map[string]interface{}, sensorID string, opts CleanOptions) (*metadata.Cleaned, error) {
	props := util.Properties(metadata.CleanJSONKeys(raw))
	lem, err := props.Map("lemnatec_measurement_metadata")
	if err != nil {
		return nil, fmt.Errorf("document has no lemnatec_measurement_metadata: %v", err)
	}
	if _, ok := sensorPropMaps[sensorID]; !ok {
		return nil, UnknownSensorError{SensorID: sensorID}
	}

	gantryOrig, err := lem.Map("gantry_system_variable_metadata")
	if err != nil {
		gantryOrig = util.Properties{}
	}
	gantry := standardizeGantry(context, gantryOrig, opts.ScanPrograms, opts.Filepath)

	queryDate := dateFromRawMetadata(props)
	fixedRecord := util.Properties{}
	if opts.FixedMetadata != nil {
		if record, err := opts.FixedMetadata.FindForDate(sensorID, queryDate); err == nil {
			fixedRecord = record
		} else {
			util.LogAlert(context, fmt.Sprintf("no fixed metadata for %s on %s: %v", sensorID, queryDate, err))
		}
	}

	sensorOrig, err := lem.Map("sensor_variable_metadata")
	if err != nil {
		sensorOrig = util.Properties{}
	}
	sensorVariable, err := standardizeSensorVariable(context, sensorID, sensorOrig, fixedRecord, gantry, opts.Filepath)
	if err != nil {
		return nil, err
	}

	cleaned := &metadata.Cleaned{
		GantryVariableMetadata: gantry,
		GantryFixedMetadata:    fixedMetadataReference(context, opts.station(), sensors.Scanalyzer),
		SensorFixedMetadata:    fixedMetadataReference(context, opts.station(), sensorID),
		SensorVariableMetadata: sensorVariable,
		Cleaned:                true,
	}

	date, err := gantry.String("date")
	if err != nil {
		date = queryDate
	}

	if opts.Experiments != nil {
		experiments, err := opts.Experiments.Experiments(date)
		if err != nil {
			util.LogAlert(context, "cannot resolve experiments: "+err.Error())
		} else {
			cleaned.ExperimentMetadata = experiments
		}
	}

	// Bounds calculation needs the full fixed metadata record, not just
	// the reference URL
	full := *cleaned
	full.SensorFixedMetadata = fixedRecord
	bounds, err := spatial.CalculateGPSBounds(&full, sensorID, opts.calibration())
	if err != nil {
		util.LogAlert(context, "cannot derive capture geometry: "+err.Error())
		return cleaned, nil
	}

	cleaned.SpatialMetadata = map[string]metadata.SpatialEntry{}
	for label, box := range bounds {
		cleaned.SpatialMetadata[label] = metadata.SpatialEntry{
			BoundingBox: box.Polygon(),
			Centroid:    box.CentroidPoint(),
		}
	}

	if opts.Sites != nil {
		cleaned.SiteMetadata = resolveSites(context, bounds, date, opts.Sites)
	}
	return cleaned, nil
}

// fixedMetadataReference returns the url-only stub pointing at the
// authoritative fixed metadata record; the copy embedded in raw capture
// documents is ignored
func fixedMetadataReference(context util.LogContext, station, sensorID string) util.Properties {
	url, err := sensors.FixedMetadataURL(station, sensorID)
	if err != nil {
		util.LogAlert(context, "no fixed metadata reference: "+err.Error())
		return util.Properties{}
	}
	return util.Properties{"url": url}
}

// resolveSites returns the plots containing each head's image centroid,
// deduplicated across heads
func resolveSites(context util.LogContext, bounds map[string]spatial.BoundingBox, date string, resolver SiteResolver) []metadata.Site {
	seen := map[string]bool{}
	var result []metadata.Site
	for _, box := range bounds {
		lat, lon := box.Centroid()
		found, err := resolver.SitesByLatLon(lat, lon, date)
		if err != nil {
			util.LogAlert(context, "cannot resolve sites: "+err.Error())
			continue
		}
		for _, site := range found {
			if seen[site.ID] {
				continue
			}
			seen[site.ID] = true
			result = append(result, site)
		}
	}
	return result
}
