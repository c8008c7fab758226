/***************************************************************
 *
 * Copyright (C) 2024, University of Nebraska-Lincoln
 *
 * Licensed under the Apache License, Version 2.0 (the "License"); you
 * may not use this file except in compliance with the License.  You may
 * obtain a copy of the License at
 *
 *    http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 ***************************************************************/

// Package xrootd_url splits root:// URLs into the server and path pieces
// that xrdfs wants, and glues them back together for xrdcp.
package xrootd_url

import (
	"fmt"

	"github.com/grafana/regexp"
)

const RootScheme = "root"

// The path component must itself be absolute, so a full URL carries a
// double slash after the host: root://host[:port]//abs/path
var rootURLRegex = regexp.MustCompile(`^(?P<server>root://[^/]+)/(?P<path>/.*)$`)

type FormatError struct {
	URL string
}

// ErrInvalidFormat matches any *FormatError via errors.Is.
var ErrInvalidFormat = &FormatError{}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid xrootd URL '%s'; expected root://<host>[:<port>]//<absolute path>", e.URL)
}

func (e *FormatError) Is(target error) bool {
	_, ok := target.(*FormatError)
	return ok
}

func (e *FormatError) Kind() string {
	return "InvalidURLError"
}

// Parse returns the server (scheme and host, no trailing slash) and the
// absolute path of an xrootd URL.
func Parse(url string) (server string, path string, err error) {
	match := rootURLRegex.FindStringSubmatch(url)
	if match == nil {
		return "", "", &FormatError{URL: url}
	}
	return match[rootURLRegex.SubexpIndex("server")], match[rootURLRegex.SubexpIndex("path")], nil
}

// Join is the inverse of Parse.
func Join(server, path string) string {
	return server + "/" + path
}
