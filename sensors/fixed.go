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

package sensors

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
	"path/filepath"
	"sync"

	"github.com/terraref/terrautils/util"
)

// FixedMetadataURL returns the authoritative Clowder URL for a sensor's
// fixed metadata. The copy embedded in raw capture metadata is ignored in
// favor of this record.
func FixedMetadataURL(station, sensorID string) (string, error) {
	info, ok := Stations[station][sensorID]
	if !ok {
		return "", fmt.Errorf("sensor %s does not exist", sensorID)
	}
	return util.GetClowderHost() + "api/datasets/" + info.FixedMetadataID + "/metadata.jsonld", nil
}

// FetchFixedMetadata retrieves the current fixed metadata record for a
// sensor from Clowder
func FetchFixedMetadata(station, sensorID string) (util.Properties, error) {
	url, err := FixedMetadataURL(station, sensorID)
	if err != nil {
		return nil, err
	}
	var listing []struct {
		Content util.Properties `json:"content"`
	}
	if _, err := util.ReqByObjJSON("GET", url, "", nil, &listing); err != nil {
		return nil, err
	}
	if len(listing) == 0 {
		return nil, fmt.Errorf("no fixed metadata in Clowder for sensor %s", sensorID)
	}
	return listing[0].Content, nil
}

// FixedMetadataStore serves sensor fixed metadata from a local checkout of
// the sensor-metadata repository. Each sensor has a JSON file containing an
// array of records, each valid from its start_date until superseded.
type FixedMetadataStore struct {
	Root string

	mutex sync.Mutex
	cache map[string][]util.Properties
}

// NewFixedMetadataStore returns a store reading from the given directory
func NewFixedMetadataStore(root string) *FixedMetadataStore {
	return &FixedMetadataStore{
		Root:  root,
		cache: map[string][]util.Properties{},
	}
}

func (s *FixedMetadataStore) load(sensorID string) ([]util.Properties, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if records, ok := s.cache[sensorID]; ok {
		return records, nil
	}

	data, err := ioutil.ReadFile(filepath.Join(s.Root, sensorID+".json"))
	if err != nil {
		return nil, err
	}
	var records []util.Properties
	if err = json.Unmarshal(data, &records); err != nil {
		// some sensors carry a single record rather than a list
		var single util.Properties
		if err2 := json.Unmarshal(data, &single); err2 != nil {
			return nil, err
		}
		records = []util.Properties{single}
	}
	s.cache[sensorID] = records
	return records, nil
}

// FindForDate returns the fixed metadata record in effect on the given date
// (YYYY-MM-DD): the record with the latest start_date not after it. Records
// without a start_date apply to all dates.
func (s *FixedMetadataStore) FindForDate(sensorID, date string) (util.Properties, error) {
	records, err := s.load(sensorID)
	if err != nil {
		return nil, err
	}

	var best util.Properties
	bestStart := ""
	for _, record := range records {
		start, err := record.String("start_date")
		if err != nil {
			start = ""
		}
		if start > date {
			continue
		}
		if best == nil || start >= bestStart {
			best = record
			bestStart = start
		}
	}
	if best == nil {
		return nil, fmt.Errorf("no fixed metadata for sensor %s on %s", sensorID, date)
	}
	return best, nil
}
