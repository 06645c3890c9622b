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
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/venicegeo/geojson-go/geojson"

	"github.com/terraref/terrautils/util"
)

func TestCleanJSONKeys(t *testing.T) {
	obj := map[string]interface{}{
		"lemnatec.measurement.metadata": map[string]interface{}{
			"position.x": 1.0,
			"plain":      "value",
		},
		"no_dots": "kept",
	}

	cleaned := CleanJSONKeys(obj)

	assert.Contains(t, cleaned, "lemnatec_measurement_metadata")
	assert.Contains(t, cleaned, "no_dots")
	nested := cleaned["lemnatec_measurement_metadata"].(map[string]interface{})
	assert.Contains(t, nested, "position_x")
	assert.Contains(t, nested, "plain")
}

func TestIsCleaned(t *testing.T) {
	assert.True(t, IsCleaned(util.Properties{"terraref_cleaned_metadata": true}))
	assert.True(t, IsCleaned(util.Properties{"terraref_cleaned_metadata": "True"}))
	assert.False(t, IsCleaned(util.Properties{"terraref_cleaned_metadata": false}))
	assert.False(t, IsCleaned(util.Properties{}))
}

func TestExtractCleaned_Direct(t *testing.T) {
	record := util.Properties{"terraref_cleaned_metadata": true, "x": 1}

	assert.NotNil(t, ExtractCleaned(record))
	assert.Nil(t, ExtractCleaned(util.Properties{"x": 1}))
}

func TestExtractCleaned_ClowderListing(t *testing.T) {
	// A Clowder metadata listing wraps each attachment in "content"
	listing := []interface{}{
		map[string]interface{}{
			"content": map[string]interface{}{"source": "extractor"},
		},
		map[string]interface{}{
			"content": map[string]interface{}{
				"terraref_cleaned_metadata": true,
				"gantry_variable_metadata":  map[string]interface{}{"date": "2017-06-28"},
			},
		},
	}

	cleaned := ExtractCleaned(listing)

	assert.NotNil(t, cleaned)
	gantry, err := cleaned.Map("gantry_variable_metadata")
	assert.Nil(t, err)
	assert.True(t, gantry.Has("date"))
}

func TestExtractCleaned_NothingCleaned(t *testing.T) {
	assert.Nil(t, ExtractCleaned([]interface{}{
		map[string]interface{}{"content": map[string]interface{}{"x": 1}},
		"not even an object",
	}))
	assert.Nil(t, ExtractCleaned(42))
}

func TestCalculateScanTime(t *testing.T) {
	listing := []interface{}{
		map[string]interface{}{
			"content": map[string]interface{}{
				"terraref_cleaned_metadata": true,
				"gantry_variable_metadata": map[string]interface{}{
					"datetime": "2017-06-28T23:48:28-07:00",
				},
			},
		},
	}

	assert.Equal(t, "2017-06-28T23:48:28-07:00", CalculateScanTime(listing))
	assert.Equal(t, "", CalculateScanTime([]interface{}{}))
}

func TestDateFromCleanedMetadata(t *testing.T) {
	md := util.Properties{
		"gantry_variable_metadata": map[string]interface{}{"date": "2017-06-28"},
	}
	assert.Equal(t, "2017-06-28", DateFromCleanedMetadata(md))

	assert.Equal(t, DefaultQueryDate, DateFromCleanedMetadata(util.Properties{}))
}

// Mock
type stubFeatureCreator struct {
	label string
	fail  bool
}

func (s stubFeatureCreator) GeoJSONFeature() (*geojson.Feature, error) {
	if s.fail {
		return nil, fmt.Errorf("no geometry for %s", s.label)
	}
	point := geojson.NewPoint([]float64{-111.97, 33.07})
	return geojson.NewFeature(point, s.label, nil), nil
}

func TestFeatureSet_GeoJSONFeatureCollection(t *testing.T) {
	// Mock
	set := FeatureSet{FeatureCreators: map[string]GeoJSONFeatureCreator{
		"east": stubFeatureCreator{label: "east"},
		"west": stubFeatureCreator{label: "west"},
	}}

	// Tested code
	collection, err := set.GeoJSONFeatureCollection()

	// Asserts
	assert.Nil(t, err)
	assert.Len(t, collection.Features, 2)
	labels := map[string]bool{}
	for _, feature := range collection.Features {
		labels[feature.Properties["label"].(string)] = true
	}
	assert.True(t, labels["east"])
	assert.True(t, labels["west"])
}

func TestFeatureSet_GeoJSONFeatureCollection_Error(t *testing.T) {
	// Mock
	set := FeatureSet{FeatureCreators: map[string]GeoJSONFeatureCreator{
		"east": stubFeatureCreator{label: "east", fail: true},
	}}

	// Tested code
	_, err := set.GeoJSONFeatureCollection()

	// Asserts
	assert.NotNil(t, err)
}
