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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"os"

	cli "gopkg.in/urfave/cli.v1"

	"github.com/terraref/terrautils/lemnatec"
	"github.com/terraref/terrautils/metadata"
	"github.com/terraref/terrautils/sensors"
	"github.com/terraref/terrautils/spatial"
	"github.com/terraref/terrautils/util"
)

func cleanOptionsFromFlags(c *cli.Context, logContext util.LogContext) lemnatec.CleanOptions {
	options := lemnatec.CleanOptions{}

	programsPath := c.String("scan-programs")
	if programsPath != "" {
		programs, err := lemnatec.LoadScanPrograms(programsPath)
		if err != nil {
			util.LogAlert(logContext, fmt.Sprintf("Cannot load scan programs from %s: %v", programsPath, err))
		} else {
			options.ScanPrograms = programs
		}
	}

	metadataDir := c.String("sensor-metadata")
	if metadataDir == "" {
		metadataDir = util.GetSensorMetadataCache()
	}
	if _, err := os.Stat(metadataDir); err == nil {
		options.FixedMetadata = sensors.NewFixedMetadataStore(metadataDir)
	} else {
		util.LogAlert(logContext, fmt.Sprintf("No sensor metadata cache at %s, spatial sections will be empty", metadataDir))
	}
	return options
}

func cleanAction(c *cli.Context) error {
	logContext := &(util.BasicLogContext{})

	sensorID := c.String("sensor")
	if sensorID == "" || c.NArg() != 1 {
		return cli.NewExitError("usage: terrautils clean --sensor <sensorId> <metadata.json>", 1)
	}
	path := c.Args().Get(0)

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("cannot read %s: %v", path, err), 1)
	}
	var raw map[string]interface{}
	if err = json.Unmarshal(data, &raw); err != nil {
		return cli.NewExitError(fmt.Sprintf("%s is not a JSON object: %v", path, err), 1)
	}

	options := cleanOptionsFromFlags(c, logContext)
	options.Filepath = path

	cleaned, err := lemnatec.Clean(logContext, raw, sensorID, options)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("cleaning failed: %v", err), 1)
	}

	// Wrapped the way the Clowder metadata endpoint expects attachments
	output, err := json.MarshalIndent([]map[string]interface{}{{"content": cleaned}}, "", "    ")
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(string(output))
	return nil
}

func boundsAction(c *cli.Context) error {
	sensorID := c.String("sensor")
	if sensorID == "" || c.NArg() != 1 {
		return cli.NewExitError("usage: terrautils bounds --sensor <sensorId> <cleaned.json>", 1)
	}
	path := c.Args().Get(0)

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("cannot read %s: %v", path, err), 1)
	}
	var cleaned metadata.Cleaned
	if err = json.Unmarshal(data, &cleaned); err != nil {
		return cli.NewExitError(fmt.Sprintf("%s is not a cleaned metadata record: %v", path, err), 1)
	}

	bounds, err := spatial.CalculateGPSBounds(&cleaned, sensorID, spatial.MaricopaSiteCalibration)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("bounds calculation failed: %v", err), 1)
	}

	var result interface{} = bounds
	if c.Bool("geojson") {
		creators := map[string]metadata.GeoJSONFeatureCreator{}
		for label, box := range bounds {
			creators[label] = box
		}
		collection, err := metadata.FeatureSet{FeatureCreators: creators}.GeoJSONFeatureCollection()
		if err != nil {
			return cli.NewExitError(err.Error(), 1)
		}
		result = collection
	}

	output, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	fmt.Println(string(output))
	return nil
}
