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
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/venicegeo/geojson-go/geojson"

	"github.com/terraref/terrautils/util"
)

// Params are extra query parameters forwarded to the BETYdb API
type Params map[string]string

func (c *Context) apiURL(endpoint string, params Params) string {
	values := url.Values{}
	values.Set("key", c.Key)
	for key, value := range params {
		values.Set(key, value)
	}
	base := strings.TrimRight(c.BaseURL, "/")
	return base + "/api/beta/" + endpoint + "?" + values.Encode()
}

// query performs a GET against a BETYdb endpoint and unmarshals the
// response into output
func (c *Context) query(endpoint string, params Params, output interface{}) error {
	_, err := util.ReqByObjJSON("GET", c.apiURL(endpoint, params), "", nil, output)
	if err != nil {
		return util.LogSimpleErr(c, fmt.Sprintf("BETYdb %s query failed.", endpoint), err)
	}
	return nil
}

// GetExperiments returns rows from the experiments table
func (c *Context) GetExperiments(params Params) ([]Experiment, error) {
	var listing struct {
		Data []ExperimentAssociation `json:"data"`
	}
	if err := c.query("experiments", params, &listing); err != nil {
		return nil, err
	}
	experiments := make([]Experiment, len(listing.Data))
	for i, wrapper := range listing.Data {
		experiments[i] = wrapper.Experiment
	}
	return experiments, nil
}

// GetTraits returns rows from the traits table
func (c *Context) GetTraits(params Params) ([]Trait, error) {
	var listing struct {
		Data []struct {
			Trait Trait `json:"trait"`
		} `json:"data"`
	}
	if err := c.query("traits", params, &listing); err != nil {
		return nil, err
	}
	traits := make([]Trait, len(listing.Data))
	for i, wrapper := range listing.Data {
		traits[i] = wrapper.Trait
	}
	return traits, nil
}

// GetTrait returns a single trait by ID
func (c *Context) GetTrait(traitID int64) (Trait, error) {
	traits, err := c.GetTraits(Params{"id": strconv.FormatInt(traitID, 10)})
	if err != nil {
		return nil, err
	}
	if len(traits) == 0 {
		return nil, fmt.Errorf("no trait with id %d", traitID)
	}
	return traits[0], nil
}

// SiteFilter narrows a sites query
type SiteFilter struct {
	// Date (YYYY-MM-DD) restricts sites to experiments active on it
	Date string
	// IncludeHalves keeps the Season 4 E/W half plots
	IncludeHalves bool
	// Params are forwarded to the API, e.g. sitename, city, containing
	Params Params
}

// GetSite returns a single site by ID
func (c *Context) GetSite(siteID int64) (Site, error) {
	sites, err := c.GetSites(SiteFilter{Params: Params{"id": strconv.FormatInt(siteID, 10)}})
	if err != nil {
		return Site{}, err
	}
	if len(sites) == 0 {
		return Site{}, fmt.Errorf("no site with id %d", siteID)
	}
	return sites[0], nil
}

// GetSites returns rows from the sites table.
//
// Without a date filter this is a single query. With a date filter the
// experiments table decides which sites qualify: either by walking the
// matching experiments' site associations, or, when a containing point is
// given, by intersecting the contained sites' experiment associations with
// the experiments active on the date (the API cannot filter the experiment
// association listing spatially).
func (c *Context) GetSites(filter SiteFilter) ([]Site, error) {
	if filter.Date == "" {
		params := Params{"limit": "none"}
		for key, value := range filter.Params {
			params[key] = value
		}
		var listing struct {
			Data []SiteAssociation `json:"data"`
		}
		if err := c.query("sites", params, &listing); err != nil {
			return nil, err
		}
		sites := make([]Site, len(listing.Data))
		for i, wrapper := range listing.Data {
			sites[i] = wrapper.Site
		}
		return sites, nil
	}

	if _, ok := filter.Params["containing"]; !ok {
		return c.sitesByExperimentDate(filter)
	}
	return c.sitesByPointAndDate(filter)
}

func (c *Context) sitesByExperimentDate(filter SiteFilter) ([]Site, error) {
	params := Params{"associations_mode": "full_info", "limit": "none"}
	for key, value := range filter.Params {
		params[key] = value
	}
	experiments, err := c.GetExperiments(params)
	if err != nil {
		return nil, err
	}

	seen := map[int64]bool{}
	var sites []Site
	for _, experiment := range experiments {
		if !experiment.ActiveOn(filter.Date) {
			continue
		}
		for _, association := range experiment.Sites {
			site := association.Site
			if isSeason4HalfPlot(experiment.Name, site.Sitename) && !filter.IncludeHalves {
				continue
			}
			if seen[site.ID] {
				continue
			}
			seen[site.ID] = true
			sites = append(sites, site)
		}
	}
	return sites, nil
}

func (c *Context) sitesByPointAndDate(filter SiteFilter) ([]Site, error) {
	experiments, err := c.GetExperiments(filter.Params)
	if err != nil {
		return nil, err
	}
	active := map[int64]bool{}
	for _, experiment := range experiments {
		if experiment.ActiveOn(filter.Date) {
			active[experiment.ID] = true
		}
	}

	params := Params{"associations_mode": "full_info"}
	for key, value := range filter.Params {
		params[key] = value
	}
	var listing struct {
		Data []SiteAssociation `json:"data"`
	}
	if err := c.query("sites", params, &listing); err != nil {
		return nil, err
	}

	seen := map[int64]bool{}
	var sites []Site
	for _, wrapper := range listing.Data {
		site := wrapper.Site
		for _, association := range site.Experiments {
			if !active[association.Experiment.ID] {
				continue
			}
			if isSeason4HalfPlot(association.Experiment.Name, site.Sitename) && !filter.IncludeHalves {
				continue
			}
			if seen[site.ID] {
				break
			}
			seen[site.ID] = true
			site.Experiments = nil
			sites = append(sites, site)
			break
		}
	}
	return sites, nil
}

// GetSitesByLatLon returns the sites containing a point, optionally
// restricted to experiments active on a date
func (c *Context) GetSitesByLatLon(lat, lon float64, filterDate string) ([]Site, error) {
	containing := fmt.Sprintf("%v,%v", lat, lon)
	return c.GetSites(SiteFilter{
		Date:   filterDate,
		Params: Params{"containing": containing},
	})
}

// GetSiteBoundaries returns the boundary polygon of each matching site,
// keyed by sitename. Sites whose WKT geometry cannot be parsed are skipped.
func (c *Context) GetSiteBoundaries(filter SiteFilter) (map[string]*geojson.Polygon, error) {
	sites, err := c.GetSites(filter)
	if err != nil {
		return nil, err
	}
	boundaries := map[string]*geojson.Polygon{}
	for _, site := range sites {
		polygon, err := polygonFromWKT(site.Geometry)
		if err != nil {
			util.LogAlert(c, fmt.Sprintf("cannot parse geometry for site %s: %v", site.Sitename, err))
			continue
		}
		boundaries[site.Sitename] = polygon
	}
	return boundaries, nil
}
