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

// Package xrootd wraps the XRootD command line tools: xrdcp for data
// movement and xrdfs for remote directory queries.
package xrootd

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/htcondor/xrdcp-plugin/executor"
	"github.com/htcondor/xrdcp-plugin/metrics"
)

const (
	DefaultCopyCommand = "xrdcp"
	DefaultFsCommand   = "xrdfs"
	DefaultAppName     = "condor_xrdcp_plugin"

	appNameEnv    = "XRD_APPNAME"
	credentialEnv = "KRB5CCNAME"
)

// Client invokes xrdcp and xrdfs.  The zero value is not usable; build
// one with NewClient.
type Client struct {
	runner      executor.Runner
	copyCommand string
	fsCommand   string
	appName     string

	// Path to the Kerberos credential cache; empty until a user is known.
	credentialCache string
}

type ClientOption func(*Client)

func WithCopyCommand(command string) ClientOption {
	return func(c *Client) {
		if command != "" {
			c.copyCommand = command
		}
	}
}

func WithFsCommand(command string) ClientOption {
	return func(c *Client) {
		if command != "" {
			c.fsCommand = command
		}
	}
}

func WithAppName(name string) ClientOption {
	return func(c *Client) {
		if name != "" {
			c.appName = name
		}
	}
}

func NewClient(runner executor.Runner, opts ...ClientOption) *Client {
	client := &Client{
		runner:      runner,
		copyCommand: DefaultCopyCommand,
		fsCommand:   DefaultFsCommand,
		appName:     DefaultAppName,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// SetCredentialCache points spawned tools at the given credential cache
// file.  An empty path stops exporting the variable.
func (c *Client) SetCredentialCache(path string) {
	c.credentialCache = path
}

func (c *Client) CredentialCache() string {
	return c.credentialCache
}

// Env returns the variables added to the environment of every spawned tool.
func (c *Client) Env() map[string]string {
	env := map[string]string{appNameEnv: c.appName}
	if c.credentialCache != "" {
		env[credentialEnv] = "FILE:" + c.credentialCache
	}
	return env
}

// CopyArgs builds the xrdcp argument list.  Overwrite is always forced;
// a source ending in "/" or "." is treated as a directory.
func CopyArgs(src, dest string) []string {
	args := []string{"--nopbar", "--debug", "1", "-f"}
	if strings.HasSuffix(src, "/") || strings.HasSuffix(src, ".") {
		args = append(args, "-r")
	}
	return append(args, src, dest)
}

// Copy runs xrdcp from src to dest and returns its stdout.
func (c *Client) Copy(ctx context.Context, src, dest string) (string, error) {
	log.Debugln("Copying", src, "to", dest)
	result, err := c.runner.Run(ctx, executor.Command{
		Program: c.copyCommand,
		Args:    CopyArgs(src, dest),
		Env:     c.Env(),
	})
	if err != nil {
		return "", err
	}
	if result.ExitCode != 0 {
		return "", &CopyError{
			Source:      src,
			Destination: dest,
			ExitCode:    result.ExitCode,
			Stderr:      result.Stderr,
		}
	}
	return result.Stdout, nil
}

func (c *Client) fs(ctx context.Context, server, operation string, options []string, path string) (*executor.Result, error) {
	args := []string{server, operation}
	args = append(args, options...)
	args = append(args, path)
	return c.runner.Run(ctx, executor.Command{
		Program: c.fsCommand,
		Args:    args,
		Env:     c.Env(),
	})
}

// Stat reports whether path exists on the server.  Any nonzero xrdfs
// status is taken to mean it does not.
func (c *Client) Stat(ctx context.Context, server, path string) (bool, error) {
	result, err := c.fs(ctx, server, "stat", nil, path)
	if err != nil {
		metrics.RemoteOps.WithLabelValues("stat", "error").Inc()
		return false, errors.Wrapf(err, "failed to stat %s on %s", path, server)
	}
	if result.ExitCode != 0 {
		metrics.RemoteOps.WithLabelValues("stat", "missing").Inc()
		log.Debugf("xrdfs stat of %s on %s returned %d", path, server, result.ExitCode)
		return false, nil
	}
	metrics.RemoteOps.WithLabelValues("stat", "found").Inc()
	return true, nil
}

// Mkdir creates path, and any missing parents, on the server.
func (c *Client) Mkdir(ctx context.Context, server, path string) error {
	result, err := c.fs(ctx, server, "mkdir", []string{"-p"}, path)
	if err != nil {
		metrics.RemoteOps.WithLabelValues("mkdir", "error").Inc()
		return errors.Wrapf(err, "failed to create %s on %s", path, server)
	}
	if result.ExitCode != 0 {
		metrics.RemoteOps.WithLabelValues("mkdir", "error").Inc()
		return &DirectoryError{
			Server: server,
			Path:   path,
			Stderr: result.Stderr,
			Stdout: result.Stdout,
		}
	}
	metrics.RemoteOps.WithLabelValues("mkdir", "created").Inc()
	return nil
}

// List returns the raw `xrdfs ls` output for a remote directory.
func (c *Client) List(ctx context.Context, server, path string) (string, error) {
	result, err := c.fs(ctx, server, "ls", nil, path)
	if err != nil {
		return "", errors.Wrapf(err, "failed to list %s on %s", path, server)
	}
	if result.ExitCode != 0 {
		return "", &DirectoryError{
			Server: server,
			Path:   path,
			Stderr: result.Stderr,
			Stdout: result.Stdout,
		}
	}
	return result.Stdout, nil
}
