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

package executor

import (
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func TestRunCapturesOutput(t *testing.T) {
	requireShell(t)
	result, err := ExecRunner{}.Run(context.Background(), Command{
		Program: "sh",
		Args:    []string{"-c", "echo to-stdout; echo to-stderr >&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, "to-stdout", strings.TrimSpace(result.Stdout))
	assert.Equal(t, "to-stderr", strings.TrimSpace(result.Stderr))
}

func TestRunNonzeroExit(t *testing.T) {
	requireShell(t)
	result, err := ExecRunner{}.Run(context.Background(), Command{
		Program: "sh",
		Args:    []string{"-c", "echo broken >&2; exit 3"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
	assert.Contains(t, result.Stderr, "broken")
}

func TestRunPassesEnvironment(t *testing.T) {
	requireShell(t)
	t.Setenv("XRDCP_PLUGIN_INHERITED", "parent")
	result, err := ExecRunner{}.Run(context.Background(), Command{
		Program: "sh",
		Args:    []string{"-c", "echo $XRD_APPNAME $XRDCP_PLUGIN_INHERITED"},
		Env:     map[string]string{"XRD_APPNAME": "condor_xrdcp_plugin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "condor_xrdcp_plugin parent", strings.TrimSpace(result.Stdout))
}

func TestRunMissingProgram(t *testing.T) {
	result, err := ExecRunner{}.Run(context.Background(), Command{
		Program: "/nonexistent/xrdcp-does-not-exist",
	})
	require.Error(t, err)
	assert.Equal(t, -1, result.ExitCode)
	assert.Contains(t, err.Error(), "failed to run")
}

func TestEnvironOrdering(t *testing.T) {
	cmd := Command{Env: map[string]string{"B_VAR": "2", "A_VAR": "1"}}
	env := cmd.Environ()
	require.GreaterOrEqual(t, len(env), 2)
	assert.Equal(t, []string{"A_VAR=1", "B_VAR=2"}, env[len(env)-2:])
}
