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
	"io/ioutil"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTraitsFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := ioutil.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSubmitTraits_CSV(t *testing.T) {
	// Mock
	var received string
	var contentType string
	context, closeServer := betyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/beta/traits.csv", r.URL.Path)
		assert.Equal(t, "testkey", r.URL.Query().Get("key"))
		contentType = r.Header.Get("Content-Type")
		body, _ := ioutil.ReadAll(r.Body)
		received = string(body)
		w.WriteHeader(http.StatusCreated)
	})
	defer closeServer()
	path := writeTraitsFile(t, "traits.csv", "site,trait,value\nplot one,canopy_cover,0.53\n")

	// Tested code
	err := context.SubmitTraits(path, "csv")

	// Asserts
	assert.Nil(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.Contains(t, received, "canopy_cover")
}

func TestSubmitTraits_UnsupportedType(t *testing.T) {
	context := &Context{BaseURL: "http://localhost", Key: "testkey"}

	err := context.SubmitTraits("traits.yaml", "yaml")

	assert.NotNil(t, err)
}

func TestSubmitTraits_ServerRejects(t *testing.T) {
	context, closeServer := betyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad row", http.StatusUnprocessableEntity)
	})
	defer closeServer()
	path := writeTraitsFile(t, "traits.csv", "bad\n")

	err := context.SubmitTraits(path, "csv")

	assert.NotNil(t, err)
}

func TestSubmitTraits_MissingFile(t *testing.T) {
	context := &Context{BaseURL: "http://localhost", Key: "testkey"}

	err := context.SubmitTraits("/does/not/exist.csv", "csv")

	assert.NotNil(t, err)
}
