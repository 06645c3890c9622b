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

package main

import (
	"fmt"

	cli "gopkg.in/urfave/cli.v1"
)

const version = "1.0.0"

var commands = cli.Commands{
	cli.Command{
		Name:      "clean",
		Aliases:   []string{"c"},
		Usage:     "Standardize a raw LemnaTec metadata file",
		ArgsUsage: "<metadata.json>",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "sensor, s", Usage: "sensor that produced the metadata (required)"},
			cli.StringFlag{Name: "scan-programs", Usage: "path to the scan program eligibility CSV"},
			cli.StringFlag{Name: "sensor-metadata", Usage: "path to a local sensor-metadata checkout"},
		},
		Action: cleanAction,
	},
	cli.Command{
		Name:      "bounds",
		Aliases:   []string{"b"},
		Usage:     "Derive the WGS84 bounding box of a capture from cleaned metadata",
		ArgsUsage: "<cleaned.json>",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "sensor, s", Usage: "sensor that produced the capture (required)"},
			cli.BoolFlag{Name: "geojson", Usage: "emit a GeoJSON feature collection instead of raw bounds"},
		},
		Action: boundsAction,
	},
	cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Launch the terrautils webserver",
		Action:  serveAction,
	},
	cli.Command{
		Name:    "version",
		Aliases: []string{"v"},
		Usage:   "Print the version number of the terrautils CLI",
		Action:  versionAction,
	},
}

func createCliApp() (app *cli.App) {
	app = cli.NewApp()
	app.Name = "terrautils"
	app.Usage = "Standardize TERRA-REF sensor metadata and derive capture geometry"
	app.Commands = commands
	return
}

func versionAction(*cli.Context) {
	fmt.Println(version)
}
