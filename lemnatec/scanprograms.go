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
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// ScanPrograms maps a standardized scan script name to whether captures from
// that program may be stitched into the full field mosaic. Programs not in
// the map are eligible.
type ScanPrograms map[string]bool

// FullfieldEligible reports eligibility as the "True"/"False" strings used
// throughout the cleaned metadata
func (p ScanPrograms) FullfieldEligible(scriptName string) string {
	if eligible, ok := p[scriptName]; ok && !eligible {
		return "False"
	}
	return "True"
}

// LoadScanPrograms reads a program eligibility table from a CSV file with
// header columns program_name and fullfield_eligible (Y/N)
func LoadScanPrograms(path string) (ScanPrograms, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadScanPrograms(file)
}

// ReadScanPrograms parses a program eligibility table from CSV
func ReadScanPrograms(r io.Reader) (ScanPrograms, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	nameCol, eligibleCol := -1, -1
	for i, name := range header {
		switch name {
		case "program_name":
			nameCol = i
		case "fullfield_eligible":
			eligibleCol = i
		}
	}
	if nameCol < 0 || eligibleCol < 0 {
		return nil, fmt.Errorf("scan program table missing program_name or fullfield_eligible column")
	}

	programs := ScanPrograms{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		programs[row[nameCol]] = row[eligibleCol] == "Y"
	}
	return programs, nil
}
