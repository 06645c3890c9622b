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
	"strconv"

	"github.com/terraref/terrautils/geostreams"
	"github.com/terraref/terrautils/metadata"
	"github.com/terraref/terrautils/util"
)

// SiteResolver adapts a BETYdb context to the site lookup used while
// cleaning metadata
type SiteResolver struct {
	Context *Context
}

// SitesByLatLon returns the plots containing a point on a date
func (r SiteResolver) SitesByLatLon(lat, lon float64, date string) ([]metadata.Site, error) {
	sites, err := r.Context.GetSitesByLatLon(lat, lon, date)
	if err != nil {
		return nil, err
	}
	result := make([]metadata.Site, len(sites))
	for i, site := range sites {
		result[i] = metadata.Site{
			ID:       strconv.FormatInt(site.ID, 10),
			Sitename: site.Sitename,
			URL:      site.ViewURL,
		}
	}
	return result, nil
}

// PlotResolver adapts a BETYdb context to the plot lookup used when posting
// Geostreams datapoints
type PlotResolver struct {
	Context *Context
}

// PlotsByLatLon returns the plots containing a point, with their boundary
// geometry as GeoJSON
func (r PlotResolver) PlotsByLatLon(lat, lon float64, date string) ([]geostreams.Plot, error) {
	sites, err := r.Context.GetSitesByLatLon(lat, lon, date)
	if err != nil {
		return nil, err
	}
	var plots []geostreams.Plot
	for _, site := range sites {
		polygon, err := polygonFromWKT(site.Geometry)
		if err != nil {
			util.LogAlert(r.Context, "cannot parse geometry for site "+site.Sitename+": "+err.Error())
			continue
		}
		plots = append(plots, geostreams.Plot{
			Name: site.Sitename,
			Geometry: map[string]interface{}{
				"type":        "Polygon",
				"coordinates": polygon.Coordinates,
			},
		})
	}
	return plots, nil
}

// ExperimentResolver adapts a BETYdb context to the experiment lookup used
// while cleaning metadata
type ExperimentResolver struct {
	Context *Context
}

// Experiments returns the experiments active on a date
func (r ExperimentResolver) Experiments(date string) ([]metadata.Experiment, error) {
	experiments, err := r.Context.GetExperiments(nil)
	if err != nil {
		return nil, err
	}
	var result []metadata.Experiment
	for _, experiment := range experiments {
		if !experiment.ActiveOn(date) {
			continue
		}
		result = append(result, metadata.Experiment{
			Name:      experiment.Name,
			StartDate: experiment.StartDate,
			EndDate:   experiment.EndDate,
			URL:       experiment.ViewURL,
		})
	}
	return result, nil
}
