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
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables
const (
	BETYDB_URL            = "BETYDB_URL"
	BETYDB_KEY            = "BETYDB_KEY"
	CLOWDER_HOST          = "CLOWDER_HOST"
	CLOWDER_KEY           = "CLOWDER_KEY"
	SENSOR_METADATA_CACHE = "SENSOR_METADATA_CACHE"
)

const defaultBetyURL = "https://terraref.ncsa.illinois.edu/bety"
const defaultSensorMetadataCache = "/home/extractor/sites/ua-mac/sensor-metadata"

// GetBetyURL returns the BETYdb base URL from the environment, with an
// optional path appended
func GetBetyURL(path string) string {
	url, ok := os.LookupEnv(BETYDB_URL)
	if !ok {
		url = defaultBetyURL
	}
	if path != "" {
		url = strings.TrimRight(url, "/") + "/" + strings.TrimLeft(path, "/")
	}
	return url
}

// GetBetyKey returns the BETYdb API key from the environment, falling back
// to the first line of ~/.betykey if the variable is unset
func GetBetyKey() string {
	if key, ok := os.LookupEnv(BETYDB_KEY); ok {
		return key
	}

	home, err := os.UserHomeDir()
	if err == nil {
		if contents, err := ioutil.ReadFile(filepath.Join(home, ".betykey")); err == nil {
			return strings.TrimSpace(strings.SplitN(string(contents), "\n", 2)[0])
		}
	}

	LogAlert(&BasicLogContext{}, "Did not get a BETYdb key from the environment or ~/.betykey. BETYdb will not be available.")
	return ""
}

// GetClowderHost returns the Clowder host URL from the environment,
// normalized to end with a slash so API paths can be appended directly
func GetClowderHost() string {
	host, ok := os.LookupEnv(CLOWDER_HOST)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get a Clowder host from the environment. Geostreams will not be available.")
		return ""
	}
	if !strings.HasSuffix(host, "/") {
		host += "/"
	}
	return host
}

// GetClowderKey returns the Clowder secret key from the environment
func GetClowderKey() string {
	key, ok := os.LookupEnv(CLOWDER_KEY)
	if !ok {
		LogAlert(&BasicLogContext{}, "Did not get a Clowder key from the environment. Geostreams will not be available.")
	}
	return key
}

// GetSensorMetadataCache returns the local path of the sensor-metadata
// checkout holding the fixed metadata documents
func GetSensorMetadataCache() string {
	cache, ok := os.LookupEnv(SENSOR_METADATA_CACHE)
	if !ok {
		return defaultSensorMetadataCache
	}
	return cache
}
