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
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/terraref/terrautils/bety"
	"github.com/terraref/terrautils/lemnatec"
	"github.com/terraref/terrautils/sensors"
	"github.com/terraref/terrautils/spatial"
	"github.com/terraref/terrautils/util"
)

func getPortStr() string {
	if port, ok := os.LookupEnv("PORT"); ok {
		return ":" + port
	}
	return ":8080"
}

func serverCleanOptions(logContext util.LogContext) lemnatec.CleanOptions {
	options := lemnatec.CleanOptions{}

	metadataDir := util.GetSensorMetadataCache()
	if _, err := os.Stat(metadataDir); err == nil {
		options.FixedMetadata = sensors.NewFixedMetadataStore(metadataDir)
	} else {
		util.LogAlert(logContext, fmt.Sprintf("No sensor metadata cache at %s, fixed metadata will not be attached", metadataDir))
	}

	if len(util.GetBetyKey()) != 0 {
		betyContext := bety.NewContext()
		options.Sites = bety.SiteResolver{Context: betyContext}
		options.Experiments = bety.ExperimentResolver{Context: betyContext}
	} else {
		util.LogAlert(logContext, "No BETYdb key found, sites and experiments will not be resolved")
	}

	return options
}

func createRouter(ctx util.LogContext) (*mux.Router, error) {
	router := mux.NewRouter()
	router.HandleFunc("/", func(writer http.ResponseWriter, request *http.Request) {
		writer.Write([]byte("OK"))
	})
	router.Handle("/clean/{sensorId}", lemnatec.NewCleanHandler(serverCleanOptions(ctx)))
	router.Handle("/bounds/{sensorId}", lemnatec.NewBoundsHandler(spatial.MaricopaSiteCalibration))
	return router, nil
}

func serveAction(*cli.Context) {
	logContext := &(util.BasicLogContext{})

	portStr := getPortStr()

	if router, err := createRouter(logContext); err == nil {
		launchServerFunc(portStr, router)
	} else {
		util.LogSimpleErr(logContext, "Failed to create router: ", err)
	}
}

var launchServerFunc = launchServer

func launchServer(portStr string, router *mux.Router) {
	server := http.Server{
		Addr:    portStr,
		Handler: router,
	}

	log.Fatal(server.ListenAndServe())
}
