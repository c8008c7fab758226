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

package xrootd

import (
	"context"
	"strings"

	"github.com/grafana/regexp"
	"github.com/pkg/errors"

	"github.com/htcondor/xrdcp-plugin/executor"
)

var versionRegex = regexp.MustCompile(`v?\d+\.\d+\.\d+\S*`)

// CopyToolVersion returns the version reported by `xrdcp --version`.
// Older clients print it on stderr, so both streams are searched.
func (c *Client) CopyToolVersion(ctx context.Context) (string, error) {
	result, err := c.runner.Run(ctx, executor.Command{
		Program: c.copyCommand,
		Args:    []string{"--version"},
		Env:     c.Env(),
	})
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", errors.Errorf("%s --version exited with status %d", c.copyCommand, result.ExitCode)
	}
	output := strings.TrimSpace(result.Stdout + "\n" + result.Stderr)
	if match := versionRegex.FindString(output); match != "" {
		return match, nil
	}
	return "", errors.Errorf("could not determine version from %s output %q", c.copyCommand, output)
}
