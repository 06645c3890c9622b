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
	"bytes"
	"fmt"
	"io/ioutil"
	"net/http"

	"github.com/terraref/terrautils/util"
)

var traitContentTypes = map[string]string{
	"csv":  "text/csv",
	"json": "application/json",
	"xml":  "application/xml",
}

// SubmitTraits uploads a traits file to BETYdb. The filetype may be csv,
// json or xml.
func (c *Context) SubmitTraits(path, filetype string) error {
	contentType, ok := traitContentTypes[filetype]
	if !ok {
		return fmt.Errorf("unsupported trait file type %q", filetype)
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return util.LogSimpleErr(c, "Could not read traits file.", err)
	}

	url := c.apiURL("traits."+filetype, nil)
	request, err := http.NewRequest("POST", url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	request.Header.Set("Content-Type", contentType)

	response, err := util.HTTPClient().Do(request)
	if err != nil {
		return util.LogSimpleErr(c, "Error submitting data to BETYdb.", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK && response.StatusCode != http.StatusCreated {
		err := util.HTTPErr{Status: response.StatusCode, Message: response.Status}
		return util.LogSimpleErr(c, "Error submitting data to BETYdb.", err)
	}
	util.LogInfo(c, "Data successfully submitted to BETYdb.")
	return nil
}
