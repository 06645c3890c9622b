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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseProperties(t *testing.T) {
	props, err := ParseProperties([]byte(`{"a": "1", "b": {"c": 2}}`))

	assert.Nil(t, err)
	assert.True(t, props.Has("a"))
	assert.False(t, props.Has("missing"))

	_, err = ParseProperties([]byte(`not json`))
	assert.NotNil(t, err)
}

func TestPropertiesString(t *testing.T) {
	props := Properties{"s": "value", "n": 1.0}

	s, err := props.String("s")
	assert.Nil(t, err)
	assert.Equal(t, "value", s)

	_, err = props.String("n")
	assert.NotNil(t, err)
	_, err = props.String("missing")
	assert.NotNil(t, err)
}

func TestPropertiesFloat(t *testing.T) {
	props := Properties{
		"f":      1.5,
		"i":      2,
		"quoted": "179.0935",
		"padded": " 3.5 ",
		"words":  "one point five",
	}

	f, err := props.Float("f")
	assert.Nil(t, err)
	assert.Equal(t, 1.5, f)

	i, err := props.Float("i")
	assert.Nil(t, err)
	assert.Equal(t, 2.0, i)

	quoted, err := props.Float("quoted")
	assert.Nil(t, err)
	assert.Equal(t, 179.0935, quoted)

	padded, err := props.Float("padded")
	assert.Nil(t, err)
	assert.Equal(t, 3.5, padded)

	_, err = props.Float("words")
	assert.NotNil(t, err)
}

func TestPropertiesBool(t *testing.T) {
	props := Properties{
		"b":        true,
		"lemnatec": "True",
		"negative": "False",
		"lower":    "false",
		"words":    "maybe",
	}

	for key, expected := range map[string]bool{"b": true, "lemnatec": true, "negative": false, "lower": false} {
		value, err := props.Bool(key)
		assert.Nil(t, err)
		assert.Equal(t, expected, value, key)
	}

	_, err := props.Bool("words")
	assert.NotNil(t, err)
}

func TestPropertiesMap(t *testing.T) {
	props := Properties{
		"raw":   map[string]interface{}{"x": 1.0},
		"typed": Properties{"y": 2.0},
		"plain": "not a map",
	}

	raw, err := props.Map("raw")
	assert.Nil(t, err)
	assert.True(t, raw.Has("x"))

	typed, err := props.Map("typed")
	assert.Nil(t, err)
	assert.True(t, typed.Has("y"))

	_, err = props.Map("plain")
	assert.NotNil(t, err)
}
