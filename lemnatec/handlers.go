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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/terraref/terrautils/metadata"
	"github.com/terraref/terrautils/spatial"
	"github.com/terraref/terrautils/util"
)

// Context is the log context for metadata cleaning requests
type Context struct {
	sessionID string
}

// AppName returns the name of the service
func (c *Context) AppName() string {
	return "terrautils"
}

// SessionID returns the ID of the current session
func (c *Context) SessionID() string {
	if c.sessionID == "" {
		c.sessionID, _ = util.PsuUUID()
	}
	return c.sessionID
}

// CleanHandler is a handler for /clean/{sensorId}
// @Title cleanHandler
// @Description standardizes a raw LemnaTec metadata document
// @Accept  json
// @Param   sensorId        path    string  true         "The sensor that produced the metadata"
// @Success 200 {object}  metadata.Cleaned
// @Failure 400 {object}  string
// @Router /clean/{sensorId} [post]
type CleanHandler struct {
	Context Context
	Options CleanOptions
}

// NewCleanHandler creates a new handler with the given cleaning options
func NewCleanHandler(options CleanOptions) *CleanHandler {
	return &CleanHandler{Options: options}
}

// ServeHTTP implements the http.Handler interface for the CleanHandler type
func (h *CleanHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sensorID, ok := mux.Vars(r)["sensorId"]
	if !ok {
		message := "No sensor ID found in URL"
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		message := fmt.Sprintf("Could not read request: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}
	var raw map[string]interface{}
	if err = json.Unmarshal(body, &raw); err != nil {
		message := fmt.Sprintf("The request body is not a JSON object: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	cleaned, err := Clean(&h.Context, raw, sensorID, h.Options)
	if err != nil {
		message := fmt.Sprintf("Error cleaning metadata: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	response, err := json.Marshal(cleaned)
	if err != nil {
		message := fmt.Sprintf("Error marshaling cleaned metadata: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}

// BoundsHandler is a handler for /bounds/{sensorId}
// @Title boundsHandler
// @Description derives the WGS84 bounding box of a capture from its cleaned metadata
// @Accept  json
// @Param   sensorId        path    string  true         "The sensor that produced the capture"
// @Success 200 {object}  map[string]spatial.BoundingBox
// @Failure 400 {object}  string
// @Router /bounds/{sensorId} [post]
type BoundsHandler struct {
	Context     Context
	Calibration spatial.SiteCalibration
}

// NewBoundsHandler creates a new handler for the given site calibration
func NewBoundsHandler(calibration spatial.SiteCalibration) *BoundsHandler {
	return &BoundsHandler{Calibration: calibration}
}

// ServeHTTP implements the http.Handler interface for the BoundsHandler type
func (h *BoundsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	sensorID, ok := mux.Vars(r)["sensorId"]
	if !ok {
		message := "No sensor ID found in URL"
		util.LogAlert(&h.Context, message)
		util.HTTPError(r, w, &h.Context, message, http.StatusNotFound)
		return
	}

	body, err := ioutil.ReadAll(r.Body)
	if err != nil {
		message := fmt.Sprintf("Could not read request: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}
	var cleaned metadata.Cleaned
	if err = json.Unmarshal(body, &cleaned); err != nil {
		message := fmt.Sprintf("The request body is not a cleaned metadata record: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	bounds, err := spatial.CalculateGPSBounds(&cleaned, sensorID, h.Calibration)
	if err != nil {
		message := fmt.Sprintf("Error calculating bounds: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusBadRequest)
		return
	}

	response, err := json.Marshal(bounds)
	if err != nil {
		message := fmt.Sprintf("Error marshaling bounds: %v", err)
		util.LogSimpleErr(&h.Context, message, err)
		util.HTTPError(r, w, &h.Context, message, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(response)
}
