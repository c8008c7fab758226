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

//
// Create mockups of the XRootD command line tools
//
// Allows unit tests to run without xrdcp, xrdfs or a live XRootD
// endpoint.  Remote objects live in memory, keyed by server and path.
//

package mock

import (
	"context"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/htcondor/xrdcp-plugin/executor"
	"github.com/htcondor/xrdcp-plugin/xrootd_url"
)

const notFoundStderr = "[ERROR] Server responded with an error: [3011] No such file or directory\n"

// XrootdTools is an executor.Runner that behaves like xrdcp and xrdfs
// against an in-memory server.
type XrootdTools struct {
	mu sync.Mutex

	CopyCommand string
	FsCommand   string

	calls   []executor.Command
	files   map[string][]byte
	dirs    map[string]bool
	failing map[string]string
}

func NewXrootdTools() *XrootdTools {
	return &XrootdTools{
		CopyCommand: "xrdcp",
		FsCommand:   "xrdfs",
		files:       make(map[string][]byte),
		dirs:        make(map[string]bool),
		failing:     make(map[string]string),
	}
}

func remoteKey(server, remotePath string) string {
	return server + "|" + path.Clean(remotePath)
}

// PutRemote stores an object on the fake server.
func (x *XrootdTools) PutRemote(server, remotePath string, data []byte) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.files[remoteKey(server, remotePath)] = data
}

// GetRemote fetches an object from the fake server.
func (x *XrootdTools) GetRemote(server, remotePath string) ([]byte, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()
	data, ok := x.files[remoteKey(server, remotePath)]
	return data, ok
}

// AddRemoteDir marks a directory as existing on the fake server.
func (x *XrootdTools) AddRemoteDir(server, remotePath string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.dirs[remoteKey(server, remotePath)] = true
}

func (x *XrootdTools) HasRemoteDir(server, remotePath string) bool {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.dirs[remoteKey(server, remotePath)]
}

// FailOn makes any invocation whose arguments contain target exit 1 with
// the given stderr.
func (x *XrootdTools) FailOn(target, stderr string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.failing[target] = stderr
}

// Calls returns every invocation seen so far.
func (x *XrootdTools) Calls() []executor.Command {
	x.mu.Lock()
	defer x.mu.Unlock()
	calls := make([]executor.Command, len(x.calls))
	copy(calls, x.calls)
	return calls
}

// CallCount counts invocations of program; for xrdfs a non-empty op
// restricts the count to that subcommand (stat, mkdir, ls).
func (x *XrootdTools) CallCount(program, op string) int {
	count := 0
	for _, call := range x.Calls() {
		if call.Program != program {
			continue
		}
		if op != "" && (len(call.Args) < 2 || call.Args[1] != op) {
			continue
		}
		count++
	}
	return count
}

func (x *XrootdTools) Run(_ context.Context, cmd executor.Command) (*executor.Result, error) {
	x.mu.Lock()
	x.calls = append(x.calls, cmd)
	for target, stderr := range x.failing {
		for _, arg := range cmd.Args {
			if arg == target {
				x.mu.Unlock()
				return &executor.Result{Stderr: stderr, ExitCode: 1}, nil
			}
		}
	}
	x.mu.Unlock()

	switch cmd.Program {
	case x.CopyCommand:
		return x.copy(cmd.Args)
	case x.FsCommand:
		return x.fs(cmd.Args)
	}
	return &executor.Result{Stderr: cmd.Program + ": command not found\n", ExitCode: 127}, nil
}

func (x *XrootdTools) copy(args []string) (*executor.Result, error) {
	if len(args) == 1 && args[0] == "--version" {
		return &executor.Result{Stdout: "v5.6.9\n"}, nil
	}
	if len(args) < 2 {
		return &executor.Result{Stderr: "xrdcp: missing source or destination\n", ExitCode: 50}, nil
	}
	src, dest := args[len(args)-2], args[len(args)-1]

	var data []byte
	if strings.HasPrefix(src, "root://") {
		server, remotePath, err := xrootd_url.Parse(src)
		if err != nil {
			return &executor.Result{Stderr: err.Error(), ExitCode: 50}, nil
		}
		var ok bool
		if data, ok = x.GetRemote(server, remotePath); !ok {
			return &executor.Result{Stderr: notFoundStderr, ExitCode: 54}, nil
		}
	} else {
		var err error
		if data, err = os.ReadFile(src); err != nil {
			return &executor.Result{Stderr: err.Error() + "\n", ExitCode: 51}, nil
		}
	}

	if strings.HasPrefix(dest, "root://") {
		server, remotePath, err := xrootd_url.Parse(dest)
		if err != nil {
			return &executor.Result{Stderr: err.Error(), ExitCode: 50}, nil
		}
		x.PutRemote(server, remotePath, data)
	} else if err := os.WriteFile(dest, data, 0644); err != nil {
		return &executor.Result{Stderr: err.Error() + "\n", ExitCode: 51}, nil
	}
	return &executor.Result{}, nil
}

func (x *XrootdTools) fs(args []string) (*executor.Result, error) {
	if len(args) < 3 {
		return &executor.Result{Stderr: "xrdfs: missing arguments\n", ExitCode: 50}, nil
	}
	server, op, remotePath := args[0], args[1], args[len(args)-1]
	switch op {
	case "stat":
		_, isFile := x.GetRemote(server, remotePath)
		if isFile || x.HasRemoteDir(server, remotePath) {
			return &executor.Result{Stdout: "Path:   " + remotePath + "\n"}, nil
		}
		return &executor.Result{Stderr: notFoundStderr, ExitCode: 54}, nil
	case "mkdir":
		for dir := path.Clean(remotePath); dir != "/" && dir != "."; dir = path.Dir(dir) {
			x.AddRemoteDir(server, dir)
		}
		return &executor.Result{}, nil
	case "ls":
		if !x.HasRemoteDir(server, remotePath) {
			return &executor.Result{Stderr: notFoundStderr, ExitCode: 54}, nil
		}
		var listing strings.Builder
		x.mu.Lock()
		prefix := remoteKey(server, remotePath) + "/"
		for key := range x.files {
			if strings.HasPrefix(key, prefix) && !strings.Contains(strings.TrimPrefix(key, prefix), "/") {
				listing.WriteString(strings.TrimPrefix(key, server+"|") + "\n")
			}
		}
		x.mu.Unlock()
		return &executor.Result{Stdout: listing.String()}, nil
	}
	return &executor.Result{Stderr: "xrdfs: unknown command " + op + "\n", ExitCode: 50}, nil
}
