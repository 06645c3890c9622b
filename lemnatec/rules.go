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

// Package lemnatec standardizes raw LemnaTec instrument metadata.
//
// The original metadata changes key spellings over time (e.g.
// time=Time=timestamp=TimeStamp), so each sensor carries a mapping table
// listing every historical spelling of every known field and the stable
// nested path it normalizes to. The cleaned records are posted to the
// Clowder metadata endpoint and consumed downstream by extractors.
package lemnatec

import (
	"fmt"

	"github.com/terraref/terrautils/util"
)

// Requirement classifies how a mapping rule is reconciled when its raw field
// is absent from the input
type Requirement int

const (
	// Optional fields are simply left out of the standardized record
	Optional Requirement = iota
	// RequiredWithDefault fields are filled from the rule's default
	RequiredWithDefault
	// RequiredNoDefault fields are reported and left absent
	RequiredNoDefault
)

// Rule maps one raw-key spelling to its normalized nested path
type Rule struct {
	Path    []string
	Req     Requirement
	Default interface{}
}

// PropertyMap is the full mapping table for one metadata sub-document,
// keyed by raw field name
type PropertyMap map[string]Rule

// setNested writes a value at a nested path, creating intermediate maps
func setNested(props util.Properties, path []string, value interface{}) {
	for _, key := range path[:len(path)-1] {
		next, ok := props[key].(util.Properties)
		if !ok {
			next = util.Properties{}
			props[key] = next
		}
		props = next
	}
	props[path[len(path)-1]] = value
}

// nestedContains reports whether a nested path exists
func nestedContains(props util.Properties, path []string) bool {
	for _, key := range path[:len(path)-1] {
		next, ok := props[key].(util.Properties)
		if !ok {
			return false
		}
		props = next
	}
	return props.Has(path[len(path)-1])
}

// standardize converts a raw metadata sub-document to its standardized form
// using the given mapping table. Raw fields without a mapping are dropped
// with one warning each; absent fields are reconciled per their rule's
// Requirement. It never fails; gaps are logged and the partial record
// returned.
func standardize(context util.LogContext, name string, orig util.Properties, propMap PropertyMap, filepath string) util.Properties {
	standardized := util.Properties{}

	for key, value := range orig {
		rule, ok := propMap[key]
		if !ok {
			util.LogAlert(context, fmt.Sprintf("Encountered field %q, missing from map in %s (%s)", key, name, filepath))
			continue
		}
		setNested(standardized, rule.Path, value)
	}

	for _, rule := range propMap {
		if rule.Req == Optional || nestedContains(standardized, rule.Path) {
			continue
		}
		switch rule.Req {
		case RequiredWithDefault:
			util.LogDebug(context, fmt.Sprintf("Setting default value %v for key %q", rule.Default, rule.Path))
			setNested(standardized, rule.Path, rule.Default)
		case RequiredNoDefault:
			util.LogError(context, fmt.Sprintf("missing required field %q in %s", rule.Path, name))
		}
	}
	return standardized
}
