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
	"time"
)

// gantryTimeLayout is the local time format written by the LemnaTec control
// software, e.g. "04/25/2016 12:26:41"
const gantryTimeLayout = "01/02/2006 15:04:05"

// arizonaTime is the field scanner's local timezone. Arizona does not
// observe daylight saving, so the offset is a constant -07:00.
var arizonaTime = loadArizonaTime()

func loadArizonaTime() *time.Location {
	if loc, err := time.LoadLocation("America/Phoenix"); err == nil {
		return loc
	}
	return time.FixedZone("MST", -7*60*60)
}

// standardizeTime parses a gantry timestamp into the scanner's local time
func standardizeTime(timestr string) (time.Time, error) {
	return time.ParseInLocation(gantryTimeLayout, timestr, arizonaTime)
}
