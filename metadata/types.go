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

package metadata

import (
	"github.com/terraref/terrautils/util"
	"github.com/venicegeo/geojson-go/geojson"
)

// Cleaned is the standardized TERRA-REF metadata record produced from a raw
// LemnaTec capture. It is constructed fresh per input document and not
// modified after being returned.
type Cleaned struct {
	GantryVariableMetadata util.Properties         `json:"gantry_variable_metadata"`
	GantryFixedMetadata    util.Properties         `json:"gantry_fixed_metadata"`
	SensorFixedMetadata    util.Properties         `json:"sensor_fixed_metadata"`
	SensorVariableMetadata util.Properties         `json:"sensor_variable_metadata"`
	ExperimentMetadata     []Experiment            `json:"experiment_metadata,omitempty"`
	SiteMetadata           []Site                  `json:"site_metadata,omitempty"`
	SpatialMetadata        map[string]SpatialEntry `json:"spatial_metadata,omitempty"`
	Cleaned                bool                    `json:"terraref_cleaned_metadata"`
}

// Experiment identifies a field experiment active on the capture date
type Experiment struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	URL       string `json:"url"`
}

// Site identifies a BETYdb site (field plot) covered by a capture. Sitename
// is the plot that contains the image centroid.
type Site struct {
	ID       string `json:"id"`
	Sitename string `json:"sitename"`
	URL      string `json:"url"`
}

// SpatialEntry holds the derived geometry for one sensor head
type SpatialEntry struct {
	BoundingBox *geojson.Polygon `json:"bounding_box"`
	Centroid    *geojson.Point   `json:"centroid"`
}

// GeoJSONFeatureCreator is an interface for data that can convert itself to a
// GeoJSON feature
type GeoJSONFeatureCreator interface {
	GeoJSONFeature() (*geojson.Feature, error)
}

// FeatureSet bundles labeled geometries, e.g. the per-head bounding boxes of
// a capture, for output as one GeoJSON feature collection
type FeatureSet struct {
	FeatureCreators map[string]GeoJSONFeatureCreator
}

// GeoJSONFeatureCollection converts the set to a feature collection, tagging
// each feature with its label
func (s FeatureSet) GeoJSONFeatureCollection() (*geojson.FeatureCollection, error) {
	features := make([]*geojson.Feature, 0, len(s.FeatureCreators))
	for label, creator := range s.FeatureCreators {
		feature, err := creator.GeoJSONFeature()
		if err != nil {
			return nil, err
		}
		if feature.Properties == nil {
			feature.Properties = map[string]interface{}{}
		}
		feature.Properties["label"] = label
		features = append(features, feature)
	}
	return geojson.NewFeatureCollection(features), nil
}
