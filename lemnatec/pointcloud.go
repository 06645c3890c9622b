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
	"github.com/terraref/terrautils/util"
)

// calculatePointCloudOrigin derives the origin of the laser scanner's PLY
// point clouds in the gantry coordinate system, per
// https://github.com/terraref/reference-data/issues/44:
//   - Z is the gantry position minus 3445mm
//   - X is 82mm north of the center of the 3D scanner
//   - Y is +3450mm for a positive-direction scan, +25711mm for a negative one
//
// The origin is based on the position of the west scanner head, so any
// further misalignment correction applies to the east PLY files. The origin
// cannot be computed when the gantry reported a PLC error (no position data)
// or the head offsets are missing from the fixed metadata; the east/west
// entries are then left empty.
func calculatePointCloudOrigin(context util.LogContext, fixedMD, gantryMD util.Properties) util.Properties {
	origin := util.Properties{"east": util.Properties{}, "west": util.Properties{}}

	position, posErr := gantryMD.Map("position_m")
	camboxEast, eastErr := fixedMD.Map("scanner_east_location_in_camera_box_m")
	camboxWest, westErr := fixedMD.Map("scanner_west_location_in_camera_box_m")
	positive, dirErr := gantryMD.Bool("scan_direction_is_positive")

	if gantryMD.Has("error") || posErr != nil || dirErr != nil || eastErr != nil || westErr != nil {
		util.LogError(context, "Cannot calculate point cloud origin -- missing gantry position information")
		return origin
	}

	x, _ := position.Float("x")
	y, _ := position.Float("y")
	z, _ := position.Float("z")

	xv := x + 0.082
	zv := z - 3.445
	yv := y + 25.711
	if positive {
		yv = y + 3.450
	}

	for side, cambox := range map[string]util.Properties{"east": camboxEast, "west": camboxWest} {
		cx, _ := cambox.Float("x")
		cy, _ := cambox.Float("y")
		cz, _ := cambox.Float("z")
		origin[side] = util.Properties{
			"x": xv + cx,
			"y": yv + cy*2,
			"z": zv + cz,
		}
	}
	return origin
}
