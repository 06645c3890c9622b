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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terraref/terrautils/util"
)

func scanner3DFixedMetadata() util.Properties {
	return util.Properties{
		"scanner_west_location_in_camera_box_m": map[string]interface{}{
			"x": 0.0, "y": 2.014, "z": 0.331,
		},
		"scanner_east_location_in_camera_box_m": map[string]interface{}{
			"x": 0.0, "y": 0.082, "z": 0.331,
		},
	}
}

func TestCalculatePointCloudOrigin_PositiveScan(t *testing.T) {
	// Mock
	context := &(util.BasicLogContext{})
	gantryMD := util.Properties{
		"position_m":                 util.Properties{"x": 179.0935, "y": 0.0, "z": 0.5777},
		"scan_direction_is_positive": "True",
	}

	// Tested code
	origin := calculatePointCloudOrigin(context, scanner3DFixedMetadata(), gantryMD)

	// Asserts
	west, err := origin.Map("west")
	assert.Nil(t, err)
	x, _ := west.Float("x")
	y, _ := west.Float("y")
	z, _ := west.Float("z")
	assert.InDelta(t, 179.0935+0.082, x, 1e-9)
	assert.InDelta(t, 0.0+3.450+2.014*2, y, 1e-9)
	assert.InDelta(t, 0.5777-3.445+0.331, z, 1e-9)

	east, err := origin.Map("east")
	assert.Nil(t, err)
	ey, _ := east.Float("y")
	assert.InDelta(t, 0.0+3.450+0.082*2, ey, 1e-9)
}

func TestCalculatePointCloudOrigin_NegativeScan(t *testing.T) {
	context := &(util.BasicLogContext{})
	gantryMD := util.Properties{
		"position_m":                 util.Properties{"x": 179.0935, "y": 12.0, "z": 0.5777},
		"scan_direction_is_positive": "False",
	}

	origin := calculatePointCloudOrigin(context, scanner3DFixedMetadata(), gantryMD)

	west, err := origin.Map("west")
	assert.Nil(t, err)
	y, _ := west.Float("y")
	assert.InDelta(t, 12.0+25.711+2.014*2, y, 1e-9)
}

func TestCalculatePointCloudOrigin_MissingData(t *testing.T) {
	context := &(util.BasicLogContext{})
	empty := util.Properties{"east": util.Properties{}, "west": util.Properties{}}

	// Gantry reported a PLC error: no position data
	withError := calculatePointCloudOrigin(context, scanner3DFixedMetadata(), util.Properties{
		"error":                      "PLC control not available",
		"position_m":                 util.Properties{"x": 1.0, "y": 1.0, "z": 1.0},
		"scan_direction_is_positive": "True",
	})
	assert.Equal(t, empty, withError)

	// No gantry position
	noPosition := calculatePointCloudOrigin(context, scanner3DFixedMetadata(), util.Properties{
		"scan_direction_is_positive": "True",
	})
	assert.Equal(t, empty, noPosition)

	// No head offsets in the fixed metadata
	noOffsets := calculatePointCloudOrigin(context, util.Properties{}, util.Properties{
		"position_m":                 util.Properties{"x": 1.0, "y": 1.0, "z": 1.0},
		"scan_direction_is_positive": "True",
	})
	assert.Equal(t, empty, noOffsets)
}
