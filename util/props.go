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
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Properties is a parsed JSON metadata object, as handed over by instrument
// firmware or a collaborating service. Values arrive with inconsistent types
// (numbers as strings, booleans spelled "True"), so the accessors coerce.
type Properties map[string]interface{}

// ParseProperties parses raw JSON into a Properties object
func ParseProperties(data []byte) (Properties, error) {
	props := Properties{}
	err := json.Unmarshal(data, &props)
	return props, err
}

// Has reports whether the key is present
func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String recovers the value at the given key, assuming it is a string
func (p Properties) String(key string) (string, error) {
	val, ok := p[key]
	if !ok {
		return "", fmt.Errorf("property key does not exist: %s", key)
	}
	if valStr, ok := val.(string); ok {
		return valStr, nil
	}
	return "", fmt.Errorf("could not convert value to string: key=%s, value=%v", key, val)
}

// Float recovers the value at the given key as a float64, coercing from
// string or integer representations where needed
func (p Properties) Float(key string) (float64, error) {
	val, ok := p[key]
	if !ok {
		return 0, fmt.Errorf("property key does not exist: %s", key)
	}
	switch v := val.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case json.Number:
		return v.Float64()
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, fmt.Errorf("could not convert value to float: key=%s, value=%q", key, v)
		}
		return parsed, nil
	}
	return 0, fmt.Errorf("could not convert value to float: key=%s, value=%v", key, val)
}

// Bool recovers the value at the given key as a bool, accepting the "True"/
// "False" strings used by LemnaTec firmware
func (p Properties) Bool(key string) (bool, error) {
	val, ok := p[key]
	if !ok {
		return false, fmt.Errorf("property key does not exist: %s", key)
	}
	switch v := val.(type) {
	case bool:
		return v, nil
	case string:
		parsed, err := strconv.ParseBool(strings.ToLower(strings.TrimSpace(v)))
		if err != nil {
			return false, fmt.Errorf("could not convert value to bool: key=%s, value=%q", key, v)
		}
		return parsed, nil
	}
	return false, fmt.Errorf("could not convert value to bool: key=%s, value=%v", key, val)
}

// Map recovers the nested object at the given key
func (p Properties) Map(key string) (Properties, error) {
	val, ok := p[key]
	if !ok {
		return nil, fmt.Errorf("property key does not exist: %s", key)
	}
	switch v := val.(type) {
	case Properties:
		return v, nil
	case map[string]interface{}:
		return Properties(v), nil
	}
	return nil, fmt.Errorf("could not convert value to object: key=%s, value=%v", key, val)
}
