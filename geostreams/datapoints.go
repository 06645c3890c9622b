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

package geostreams

import (
	"fmt"

	"github.com/terraref/terrautils/util"
)

// Plot is a named field plot with GeoJSON geometry
type Plot struct {
	Name     string
	Geometry map[string]interface{}
}

// PlotResolver finds the plots containing a point on a date
type PlotResolver interface {
	PlotsByLatLon(lat, lon float64, date string) ([]Plot, error)
}

// MACFieldScanner is the sensor type assigned to plots created for field
// scanner observations
var MACFieldScanner = SensorType{
	ID:         "MAC Field Scanner",
	Title:      "MAC Field Scanner",
	SensorType: 4,
}

// DatapointRequest describes one observation to post, creating the plot
// sensor and stream on demand
type DatapointRequest struct {
	// StreamPrefix names the stream; the full stream name is
	// "prefix (sensorID)"
	StreamPrefix string
	// Lat, Lon locate the observation; used to find plots when PlotName
	// is empty or unknown
	Lat, Lon float64
	// PlotName, when set, selects an existing plot sensor directly
	PlotName string
	// FilterDate restricts the plot search to experiments active on it
	FilterDate string
	// StartTime, EndTime in ISO-8601 with offset
	StartTime, EndTime string
	// Geometry for the datapoint; the plot boundary when nil
	Geometry map[string]interface{}
	// Properties attached to the datapoint
	Properties util.Properties
}

// CreateDatapointWithDependencies posts a datapoint, creating the plot
// sensor and stream if they do not exist yet. Plots are matched by name
// first, then geographically through the resolver.
func (c *Context) CreateDatapointWithDependencies(request DatapointRequest, plots PlotResolver) error {
	matched := map[int64]Plot{}

	if request.PlotName != "" {
		sensor, err := c.GetSensorByName(request.PlotName)
		if err != nil {
			return err
		}
		if sensor != nil {
			matched[sensor.ID] = Plot{Name: request.PlotName, Geometry: sensor.Geometry}
		}
	}

	if len(matched) == 0 {
		if plots == nil {
			return fmt.Errorf("no plot sensor named %q and no plot resolver available", request.PlotName)
		}
		found, err := plots.PlotsByLatLon(request.Lat, request.Lon, request.FilterDate)
		if err != nil {
			return err
		}
		for _, plot := range found {
			sensor, err := c.GetSensorByName(plot.Name)
			if err != nil {
				return err
			}
			if sensor == nil {
				sensorID, err := c.CreateSensor(plot.Name, plot.Geometry, MACFieldScanner, "Maricopa")
				if err != nil {
					return err
				}
				matched[sensorID] = plot
			} else {
				matched[sensor.ID] = plot
			}
		}
	}

	for sensorID, plot := range matched {
		streamName := fmt.Sprintf("%s (%d)", request.StreamPrefix, sensorID)
		stream, err := c.GetStreamByName(streamName)
		if err != nil {
			return err
		}
		var streamID int64
		if stream == nil {
			if streamID, err = c.CreateStream(streamName, sensorID, plot.Geometry, nil); err != nil {
				return err
			}
		} else {
			streamID = stream.ID
		}

		util.LogInfo(c, fmt.Sprintf("posting datapoint to stream %d", streamID))
		geometry := request.Geometry
		if geometry == nil {
			geometry = plot.Geometry
		}
		if _, err = c.CreateDatapoint(streamID, geometry, request.StartTime, request.EndTime, request.Properties); err != nil {
			return err
		}
	}
	return nil
}
