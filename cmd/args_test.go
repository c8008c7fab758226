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

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	tests := []struct {
		name     string
		argv     []string
		expected pluginArgs
	}{
		{"download", []string{"test", "-infile", "path/to/file.txt", "-outfile", "hello.txt"},
			pluginArgs{infile: "path/to/file.txt", outfile: "hello.txt"}},
		{"swapped", []string{"test", "-outfile", "hello.txt", "-infile", "path/to/file.txt"},
			pluginArgs{infile: "path/to/file.txt", outfile: "hello.txt"}},
		{"upload-last", []string{"test", "-infile", "in", "-outfile", "out", "-upload"},
			pluginArgs{upload: true, infile: "in", outfile: "out"}},
		{"upload-first", []string{"test", "-upload", "-outfile", "out", "-infile", "in"},
			pluginArgs{upload: true, infile: "in", outfile: "out"}},
		{"upload-middle", []string{"test", "-infile", "in", "-upload", "-outfile", "out"},
			pluginArgs{upload: true, infile: "in", outfile: "out"}},
		{"classad", []string{"test", "-classad"}, pluginArgs{capabilities: true}},
		{"version", []string{"test", "-version"}, pluginArgs{version: true}},
		{"version-short", []string{"test", "-v"}, pluginArgs{version: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args, err := parseArgs(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, args)
		})
	}
}

func TestParseBadArgs(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"no-args", []string{"test"}},
		{"only-infile", []string{"test", "-infile", "hello.txt"}},
		{"only-outfile", []string{"test", "-outfile", "foo/bar"}},
		{"unknown-single", []string{"test", "-upload"}},
		{"classad-extra", []string{"test", "-classad", "-infile", "a", "-outfile"}},
		{"too-many", []string{"test", "-infile", "a", "-outfile", "b", "-upload", "extra"}},
		{"six-without-upload", []string{"test", "-infile", "a", "-outfile", "b", "c"}},
		{"five-with-upload", []string{"test", "-infile", "a", "-upload", "-outfile"}},
		{"double-upload", []string{"test", "-upload", "-infile", "a", "-upload", "b"}},
		{"two-infiles", []string{"test", "-infile", "a", "-infile", "b"}},
		{"wrong-position", []string{"test", "a", "-infile", "-outfile", "b"}},
		{"unknown-flag", []string{"test", "-infile", "a", "-output", "b"}},
		{"empty-value", []string{"test", "-infile", "", "-outfile", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseArgs(tt.argv)
			require.Error(t, err)
			var usageErr *usageError
			assert.ErrorAs(t, err, &usageErr)
		})
	}
}

func TestPrintUsage(t *testing.T) {
	var out bytes.Buffer
	printUsage(&out, "/usr/libexec/condor/xrdcp_plugin")
	lines := strings.Split(out.String(), "\n")
	assert.Equal(t, "Usage: xrdcp_plugin -infile <input-filename> -outfile <output-filename>", lines[0])
	assert.Equal(t, "       xrdcp_plugin -classad", lines[1])
	assert.Contains(t, out.String(), "-upload")
}
