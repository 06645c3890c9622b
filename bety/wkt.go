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

package bety

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/venicegeo/geojson-go/geojson"
)

// polygonFromWKT parses the POLYGON geometries BETYdb stores for plot
// boundaries, e.g. "POLYGON ((-111.97 33.07 353, -111.97 33.08 353, ...))".
// Vertices may carry a Z value, which is dropped.
func polygonFromWKT(wkt string) (*geojson.Polygon, error) {
	trimmed := strings.TrimSpace(wkt)
	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "POLYGON") {
		return nil, fmt.Errorf("unsupported WKT geometry %q", firstWord(trimmed))
	}
	start := strings.Index(trimmed, "((")
	end := strings.LastIndex(trimmed, "))")
	if start < 0 || end < 0 || end < start {
		return nil, fmt.Errorf("malformed POLYGON: %q", wkt)
	}

	var rings [][][]float64
	for _, ring := range strings.Split(trimmed[start+2:end], "),") {
		ring = strings.Trim(strings.TrimSpace(ring), "()")
		var coordinates [][]float64
		for _, vertex := range strings.Split(ring, ",") {
			fields := strings.Fields(vertex)
			if len(fields) < 2 {
				return nil, fmt.Errorf("malformed POLYGON vertex %q", vertex)
			}
			lon, err := strconv.ParseFloat(fields[0], 64)
			if err != nil {
				return nil, err
			}
			lat, err := strconv.ParseFloat(fields[1], 64)
			if err != nil {
				return nil, err
			}
			coordinates = append(coordinates, []float64{lon, lat})
		}
		rings = append(rings, coordinates)
	}
	return geojson.NewPolygon(rings), nil
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return s
}
