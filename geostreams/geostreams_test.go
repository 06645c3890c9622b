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
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/terraref/terrautils/util"
)

func geostreamsTestServer(t *testing.T, handler http.HandlerFunc) (*Context, func()) {
	t.Helper()
	server := httptest.NewServer(handler)
	context := &Context{Host: server.URL + "/", Key: "secret"}
	return context, server.Close
}

func pointGeometry() map[string]interface{} {
	return map[string]interface{}{
		"type":        "Point",
		"coordinates": []interface{}{-111.975, 33.075, 0.0},
	}
}

func TestCreateSensor(t *testing.T) {
	// Mock
	var posted map[string]interface{}
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/api/geostreams/sensors", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		body, _ := ioutil.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(body, &posted))
		w.Write([]byte(`{"id": 3355}`))
	})
	defer closeServer()

	// Tested code
	id, err := context.CreateSensor("Range 10 Column 5", pointGeometry(), MACFieldScanner, "Maricopa")

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, int64(3355), id)
	assert.Equal(t, "Range 10 Column 5", posted["name"])
	assert.Equal(t, "Point", posted["type"])
	properties := posted["properties"].(map[string]interface{})
	assert.Equal(t, "Maricopa", properties["region"])
	assert.Equal(t, "Range 10 Column 5", properties["popupContent"])
}

func TestCreateStream(t *testing.T) {
	var posted map[string]interface{}
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/geostreams/streams", r.URL.Path)
		body, _ := ioutil.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(body, &posted))
		w.Write([]byte(`{"id": 4466}`))
	})
	defer closeServer()

	id, err := context.CreateStream("IR Surface Temperature (3355)", 3355, pointGeometry(), nil)

	assert.Nil(t, err)
	assert.Equal(t, int64(4466), id)
	// The API wants the sensor reference as a string
	assert.Equal(t, "3355", posted["sensor_id"])
	assert.Equal(t, "Feature", posted["type"])
}

func TestCreateDatapoint(t *testing.T) {
	var posted map[string]interface{}
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/geostreams/datapoints", r.URL.Path)
		body, _ := ioutil.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(body, &posted))
		w.Write([]byte(`{"id": 5577}`))
	})
	defer closeServer()

	id, err := context.CreateDatapoint(4466, pointGeometry(),
		"2017-06-28T23:48:28-07:00", "2017-06-28T23:48:28-07:00",
		util.Properties{"surface_temperature": 305.2})

	assert.Nil(t, err)
	assert.Equal(t, int64(5577), id)
	assert.Equal(t, "4466", posted["stream_id"])
	assert.Equal(t, "2017-06-28T23:48:28-07:00", posted["start_time"])
}

func TestCreateDatapoints_Bulk(t *testing.T) {
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/geostreams/datapoints/bulk", r.URL.Path)
		var posted map[string]interface{}
		body, _ := ioutil.ReadAll(r.Body)
		assert.Nil(t, json.Unmarshal(body, &posted))
		assert.Len(t, posted["datapoints"], 2)
		w.Write([]byte(`{}`))
	})
	defer closeServer()

	err := context.CreateDatapoints(4466, []Datapoint{
		{StartTime: "2017-06-28T23:48:28-07:00", Type: "Point"},
		{StartTime: "2017-06-28T23:49:28-07:00", Type: "Point"},
	})

	assert.Nil(t, err)
}

func TestGetSensorByName(t *testing.T) {
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Range 10 Column 5", r.URL.Query().Get("sensor_name"))
		w.Write([]byte(`[
			{"id": 1, "name": "Range 10 Column 50"},
			{"id": 2, "name": "Range 10 Column 5"}
		]`))
	})
	defer closeServer()

	// The listing matches by prefix; only an exact name counts
	sensor, err := context.GetSensorByName("Range 10 Column 5")

	assert.Nil(t, err)
	assert.NotNil(t, sensor)
	assert.Equal(t, int64(2), sensor.ID)
}

func TestGetSensorByName_NotFound(t *testing.T) {
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer closeServer()

	sensor, err := context.GetSensorByName("Range 99 Column 99")

	assert.Nil(t, err)
	assert.Nil(t, sensor)
}

type stubPlots struct {
	plots []Plot
}

func (s stubPlots) PlotsByLatLon(lat, lon float64, date string) ([]Plot, error) {
	return s.plots, nil
}

func TestCreateDatapointWithDependencies_NewPlot(t *testing.T) {
	// Mock: the plot sensor and stream do not exist, so both get created
	// before the datapoint is posted
	var created []string
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/geostreams/sensors" && r.Method == "GET":
			w.Write([]byte(`[]`))
		case r.URL.Path == "/api/geostreams/sensors":
			created = append(created, "sensor")
			w.Write([]byte(`{"id": 10}`))
		case r.URL.Path == "/api/geostreams/streams" && r.Method == "GET":
			w.Write([]byte(`[]`))
		case r.URL.Path == "/api/geostreams/streams":
			created = append(created, "stream")
			w.Write([]byte(`{"id": 20}`))
		case r.URL.Path == "/api/geostreams/datapoints":
			created = append(created, "datapoint")
			w.Write([]byte(`{"id": 30}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	defer closeServer()

	plots := stubPlots{plots: []Plot{{Name: "Range 10 Column 5", Geometry: pointGeometry()}}}
	request := DatapointRequest{
		StreamPrefix: "IR Surface Temperature",
		Lat:          33.075,
		Lon:          -111.975,
		StartTime:    "2017-06-28T23:48:28-07:00",
		EndTime:      "2017-06-28T23:48:28-07:00",
		Properties:   util.Properties{"surface_temperature": 305.2},
	}

	// Tested code
	err := context.CreateDatapointWithDependencies(request, plots)

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, []string{"sensor", "stream", "datapoint"}, created)
}

func TestCreateDatapointWithDependencies_ExistingPlot(t *testing.T) {
	var created []string
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/api/geostreams/sensors" && r.Method == "GET":
			w.Write([]byte(`[{"id": 10, "name": "Range 10 Column 5"}]`))
		case r.URL.Path == "/api/geostreams/streams" && r.Method == "GET":
			w.Write([]byte(`[{"id": 20, "name": "IR Surface Temperature (10)"}]`))
		case r.URL.Path == "/api/geostreams/datapoints":
			created = append(created, "datapoint")
			w.Write([]byte(`{"id": 30}`))
		default:
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
	})
	defer closeServer()

	request := DatapointRequest{
		StreamPrefix: "IR Surface Temperature",
		PlotName:     "Range 10 Column 5",
		StartTime:    "2017-06-28T23:48:28-07:00",
		EndTime:      "2017-06-28T23:48:28-07:00",
	}

	err := context.CreateDatapointWithDependencies(request, nil)

	assert.Nil(t, err)
	assert.Equal(t, []string{"datapoint"}, created)
}

func TestCreateDatapointWithDependencies_NoResolver(t *testing.T) {
	context, closeServer := geostreamsTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	defer closeServer()

	err := context.CreateDatapointWithDependencies(DatapointRequest{PlotName: "nowhere"}, nil)

	assert.NotNil(t, err)
}
