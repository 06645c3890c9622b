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

// Package bety wraps the BETYdb beta API for trait, experiment and site
// queries.
package bety

import (
	"strings"
	"time"

	"github.com/terraref/terrautils/util"
)

// Context is the context for BETYdb operations
type Context struct {
	// BaseURL of the BETYdb instance, without the /api/beta suffix
	BaseURL string
	// Key authenticating every request
	Key string

	sessionID string
}

// NewContext creates a context from the environment
func NewContext() *Context {
	return &Context{
		BaseURL: util.GetBetyURL(""),
		Key:     util.GetBetyKey(),
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

// Experiment is one row of the BETYdb experiments table
type Experiment struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	ViewURL   string `json:"view_url"`

	// Sites are attached when querying with associations_mode=full_info
	Sites []SiteAssociation `json:"sites,omitempty"`
}

// ActiveOn reports whether a date (YYYY-MM-DD) falls inside the
// experiment's date range
func (e Experiment) ActiveOn(date string) bool {
	target, err := time.Parse("2006-01-02", date)
	if err != nil {
		return false
	}
	start, err := time.Parse("2006-01-02", e.StartDate)
	if err != nil {
		return false
	}
	end, err := time.Parse("2006-01-02", e.EndDate)
	if err != nil {
		return false
	}
	return !target.Before(start) && !target.After(end)
}

// Site is one row of the BETYdb sites table. Geometry is the plot boundary
// in WKT.
type Site struct {
	ID       int64  `json:"id"`
	Sitename string `json:"sitename"`
	City     string `json:"city"`
	Geometry string `json:"geometry"`
	ViewURL  string `json:"view_url"`

	// Experiments are attached when querying with
	// associations_mode=full_info
	Experiments []ExperimentAssociation `json:"experiments,omitempty"`
}

// SiteAssociation wraps a site nested inside another record
type SiteAssociation struct {
	Site Site `json:"site"`
}

// ExperimentAssociation wraps an experiment nested inside another record
type ExperimentAssociation struct {
	Experiment Experiment `json:"experiment"`
}

// Trait is one row of the BETYdb traits table; the schema varies by trait
// so rows stay loosely typed
type Trait util.Properties

// isSeason4HalfPlot identifies the E/W half plots that Season 4 experiments
// carry alongside the full plots; most callers only want the full ones
func isSeason4HalfPlot(experimentName, sitename string) bool {
	if !strings.Contains(experimentName, "Season 4") {
		return false
	}
	return strings.HasSuffix(sitename, " E") || strings.HasSuffix(sitename, " W")
}
