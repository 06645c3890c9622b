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
	"strings"

	"github.com/terraref/terrautils/util"
)

// DefaultQueryDate is used when a record carries no usable capture date
const DefaultQueryDate = "2012-01-01"

// CleanJSONKeys replaces periods in metadata keys with underscores,
// recursively. Clowder rejects metadata documents whose keys contain periods.
func CleanJSONKeys(obj map[string]interface{}) map[string]interface{} {
	cleaned := make(map[string]interface{}, len(obj))
	for key, value := range obj {
		cleanKey := strings.Replace(key, ".", "_", -1)
		if nested, ok := value.(map[string]interface{}); ok {
			cleaned[cleanKey] = CleanJSONKeys(nested)
		} else {
			cleaned[cleanKey] = value
		}
	}
	return cleaned
}

// IsCleaned reports whether a metadata object carries the cleaned flag
func IsCleaned(md util.Properties) bool {
	flag, err := md.Bool("terraref_cleaned_metadata")
	return err == nil && flag
}

// ExtractCleaned crawls a Clowder metadata listing and returns the cleaned
// TERRA-REF record, or nil if none is present. The listing may be either the
// record itself or a list of {"content": ...} attachments.
func ExtractCleaned(clowderMD interface{}) util.Properties {
	switch md := clowderMD.(type) {
	case util.Properties:
		if IsCleaned(md) {
			return md
		}
	case map[string]interface{}:
		if props := util.Properties(md); IsCleaned(props) {
			return props
		}
	case []interface{}:
		for _, sub := range md {
			subMap, ok := sub.(map[string]interface{})
			if !ok {
				continue
			}
			props := util.Properties(subMap)
			if content, err := props.Map("content"); err == nil {
				props = content
			}
			if IsCleaned(props) {
				return props
			}
		}
	}
	return nil
}

// CalculateScanTime returns the capture timestamp of a cleaned record, or an
// empty string if the record has none
func CalculateScanTime(clowderMD interface{}) string {
	cleaned := ExtractCleaned(clowderMD)
	if cleaned == nil {
		return ""
	}
	gantry, err := cleaned.Map("gantry_variable_metadata")
	if err != nil {
		return ""
	}
	scanTime, _ := gantry.String("datetime")
	return scanTime
}

// DateFromCleanedMetadata returns the capture date of a cleaned record,
// falling back to DefaultQueryDate
func DateFromCleanedMetadata(md util.Properties) string {
	gantry, err := md.Map("gantry_variable_metadata")
	if err != nil {
		return DefaultQueryDate
	}
	date, err := gantry.String("date")
	if err != nil {
		return DefaultQueryDate
	}
	return date
}
