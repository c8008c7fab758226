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

// Package executor runs external programs to completion, capturing
// their output streams and exit status.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type (
	// Command describes one invocation.  Env entries are appended to the
	// current process environment.
	Command struct {
		Program string
		Args    []string
		Env     map[string]string
	}

	// Result of a finished invocation.  A nonzero ExitCode is not an
	// error at this layer; callers decide what a failure means.
	Result struct {
		Stdout   string
		Stderr   string
		ExitCode int
	}

	Runner interface {
		Run(ctx context.Context, cmd Command) (*Result, error)
	}

	// ExecRunner is the os/exec backed Runner.
	ExecRunner struct{}
)

func (c Command) String() string {
	return fmt.Sprintf("%s %v", c.Program, c.Args)
}

// Environ returns the environment the command will run with.
func (c Command) Environ() []string {
	env := os.Environ()
	keys := make([]string, 0, len(c.Env))
	for key := range c.Env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		env = append(env, key+"="+c.Env[key])
	}
	return env
}

// Run blocks until the program exits.  An error is returned only when
// the program could not be started or waited on.
func (ExecRunner) Run(ctx context.Context, cmd Command) (*Result, error) {
	execCmd := exec.CommandContext(ctx, cmd.Program, cmd.Args...)
	execCmd.Env = cmd.Environ()

	var stdout, stderr bytes.Buffer
	execCmd.Stdout = &stdout
	execCmd.Stderr = &stderr

	log.Debugln("Running command:", cmd)
	err := execCmd.Run()
	result := &Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
			log.Debugf("Command %s exited with status %d", cmd.Program, result.ExitCode)
			return result, nil
		}
		result.ExitCode = -1
		return result, errors.Wrapf(err, "failed to run %s", cmd.Program)
	}
	return result, nil
}
