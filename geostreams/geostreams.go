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

// Package geostreams wraps the Clowder Geostreams API for sensor, stream
// and datapoint management.
package geostreams

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/terraref/terrautils/util"
)

// Context is the context for Geostreams operations
type Context struct {
	// Host of the Clowder instance, including scheme, ending with a /
	Host string
	// Key is the secret key to log in to Clowder
	Key string

	sessionID string
}

// NewContext creates a context from the environment
func NewContext() *Context {
	return &Context{
		Host: util.GetClowderHost(),
		Key:  util.GetClowderKey(),
	}
}

// AppName returns the name of the service
func (c *Context) AppName() string {
	return "terrautils"
}

// SessionID returns a Session ID, creating one if needed
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

func (c *Context) endpoint(path string, params url.Values) string {
	if params == nil {
		params = url.Values{}
	}
	params.Set("key", c.Key)
	return c.Host + "api/geostreams/" + path + "?" + params.Encode()
}

// Sensor is a Geostreams sensor record; in TERRA-REF a sensor represents a
// field plot
type Sensor struct {
	ID         int64                  `json:"id"`
	Name       string                 `json:"name"`
	Geometry   map[string]interface{} `json:"geometry"`
	Properties util.Properties        `json:"properties,omitempty"`
}

// Stream is a Geostreams stream attached to a sensor
type Stream struct {
	ID         int64                  `json:"id"`
	Name       string                 `json:"name"`
	SensorID   string                 `json:"sensor_id"`
	Geometry   map[string]interface{} `json:"geometry"`
	Properties util.Properties        `json:"properties,omitempty"`
}

type idResponse struct {
	ID int64 `json:"id"`
}

// SensorType describes the instrument class of a Geostreams sensor
type SensorType struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SensorType int    `json:"sensorType"`
}

// CreateSensor creates a new sensor and returns its ID
func (c *Context) CreateSensor(name string, geom map[string]interface{}, sensorType SensorType, region string) (int64, error) {
	body := map[string]interface{}{
		"name":     name,
		"type":     "Point",
		"geometry": geom,
		"properties": map[string]interface{}{
			"popupContent": name,
			"type":         sensorType,
			"name":         name,
			"region":       region,
		},
	}
	var response idResponse
	if _, err := util.ReqByObjJSON("POST", c.endpoint("sensors", nil), "", body, &response); err != nil {
		return 0, util.LogSimpleErr(c, "Could not create Geostreams sensor.", err)
	}
	util.LogDebug(c, fmt.Sprintf("sensor id = [%d]", response.ID))
	return response.ID, nil
}

// CreateStream creates a new stream attached to a sensor and returns its ID
func (c *Context) CreateStream(name string, sensorID int64, geom map[string]interface{}, properties util.Properties) (int64, error) {
	body := map[string]interface{}{
		"name":       name,
		"type":       "Feature",
		"geometry":   geom,
		"properties": properties,
		"sensor_id":  strconv.FormatInt(sensorID, 10),
	}
	var response idResponse
	if _, err := util.ReqByObjJSON("POST", c.endpoint("streams", nil), "", body, &response); err != nil {
		return 0, util.LogSimpleErr(c, "Could not create Geostreams stream.", err)
	}
	util.LogDebug(c, fmt.Sprintf("stream id = [%d]", response.ID))
	return response.ID, nil
}

// CreateDatapoint creates a new datapoint on a stream and returns its ID.
// Times are ISO-8601 with offset, e.g. 2017-01-25T09:33:02-07:00.
func (c *Context) CreateDatapoint(streamID int64, geom map[string]interface{}, startTime, endTime string, properties util.Properties) (int64, error) {
	body := map[string]interface{}{
		"start_time": startTime,
		"end_time":   endTime,
		"type":       "Point",
		"geometry":   geom,
		"properties": properties,
		"stream_id":  strconv.FormatInt(streamID, 10),
	}
	var response idResponse
	if _, err := util.ReqByObjJSON("POST", c.endpoint("datapoints", nil), "", body, &response); err != nil {
		return 0, util.LogSimpleErr(c, "Could not create Geostreams datapoint.", err)
	}
	util.LogDebug(c, fmt.Sprintf("datapoint id = [%d]", response.ID))
	return response.ID, nil
}

// Datapoint is a single observation posted in bulk
type Datapoint struct {
	StartTime  string                 `json:"start_time"`
	EndTime    string                 `json:"end_time"`
	Type       string                 `json:"type"`
	Geometry   map[string]interface{} `json:"geometry"`
	Properties util.Properties        `json:"properties"`
}

// CreateDatapoints creates a batch of datapoints on a stream
func (c *Context) CreateDatapoints(streamID int64, datapoints []Datapoint) error {
	body := map[string]interface{}{
		"datapoints": datapoints,
		"stream_id":  strconv.FormatInt(streamID, 10),
	}
	if _, err := util.ReqByObjJSON("POST", c.endpoint("datapoints/bulk", nil), "", body, nil); err != nil {
		return util.LogSimpleErr(c, "Could not create Geostreams datapoints.", err)
	}
	return nil
}

// GetSensorByName returns the sensor with the given name, or nil when none
// exists
func (c *Context) GetSensorByName(name string) (*Sensor, error) {
	params := url.Values{}
	params.Set("sensor_name", name)
	var sensors []Sensor
	if _, err := util.ReqByObjJSON("GET", c.endpoint("sensors", params), "", nil, &sensors); err != nil {
		return nil, util.LogSimpleErr(c, "Could not search Geostreams sensors.", err)
	}
	for i := range sensors {
		if sensors[i].Name == name {
			util.LogDebug(c, fmt.Sprintf("found sensor %q = [%d]", name, sensors[i].ID))
			return &sensors[i], nil
		}
	}
	return nil, nil
}

// GetStreamByName returns the stream with the given name, or nil when none
// exists
func (c *Context) GetStreamByName(name string) (*Stream, error) {
	params := url.Values{}
	params.Set("stream_name", name)
	var streams []Stream
	if _, err := util.ReqByObjJSON("GET", c.endpoint("streams", params), "", nil, &streams); err != nil {
		return nil, util.LogSimpleErr(c, "Could not search Geostreams streams.", err)
	}
	for i := range streams {
		if streams[i].Name == name {
			util.LogDebug(c, fmt.Sprintf("found stream %q = [%d]", name, streams[i].ID))
			return &streams[i], nil
		}
	}
	return nil, nil
}

// GetSensorsByCircle returns the sensors within radius meters of a point
func (c *Context) GetSensorsByCircle(lat, lon, radius float64) ([]Sensor, error) {
	params := url.Values{}
	params.Set("geocode", fmt.Sprintf("%v,%v,%v", lat, lon, radius))
	var sensors []Sensor
	if _, err := util.ReqByObjJSON("GET", c.endpoint("sensors", params), "", nil, &sensors); err != nil {
		return nil, util.LogSimpleErr(c, "Could not search Geostreams sensors.", err)
	}
	return sensors, nil
}
