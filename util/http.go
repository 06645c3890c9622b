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

package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"time"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// HTTPClient returns the shared HTTP client used for collaborator requests
func HTTPClient() *http.Client {
	return httpClient
}

// HTTPError logs and writes an error response as JSON
func HTTPError(request *http.Request, writer http.ResponseWriter, context LogContext, message string, status int) {
	LogAudit(context, LogAuditInput{
		Actor:    "self",
		Action:   fmt.Sprintf("HTTP %d response to %s", status, request.URL.Path),
		Actee:    request.RemoteAddr,
		Message:  message,
		Severity: ERROR,
	})
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	body, _ := json.Marshal(map[string]interface{}{"status": status, "message": message})
	writer.Write(body)
}

// ReqByObjJSON makes an HTTP request with a JSON-marshaled input object and
// unmarshals the JSON response into the output object, if one is provided.
// The response is returned alongside any error for status inspection.
func ReqByObjJSON(method, url, key string, input, output interface{}) (*http.Response, error) {
	var body []byte
	var err error
	if input != nil {
		if body, err = json.Marshal(input); err != nil {
			return nil, err
		}
	}

	request, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/json")
	if key != "" {
		request.Header.Set("Authorization", key)
	}

	response, err := httpClient.Do(request)
	if err != nil {
		return response, err
	}
	defer response.Body.Close()

	responseBody, _ := ioutil.ReadAll(response.Body)
	if response.StatusCode >= 400 {
		return response, HTTPErr{Status: response.StatusCode, Message: fmt.Sprintf("%v: %v", response.Status, string(responseBody))}
	}

	if output != nil {
		if err = json.Unmarshal(responseBody, output); err != nil {
			return response, err
		}
	}
	return response, nil
}
