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

package plugin

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/htcondor/xrdcp-plugin/metrics"
	"github.com/htcondor/xrdcp-plugin/mock"
	"github.com/htcondor/xrdcp-plugin/xrootd"
)

const testServer = "root://eosuser.cern.ch"

func TestEnsureIsIdempotent(t *testing.T) {
	tools := mock.NewXrootdTools()
	dirs := NewDirEnsurer(xrootd.NewClient(tools))
	ctx := context.Background()
	hitsBefore := testutil.ToFloat64(metrics.DirectoryCacheHits)

	require.NoError(t, dirs.Ensure(ctx, testServer, "/eos/user/b/bejones/out"))
	require.NoError(t, dirs.Ensure(ctx, testServer, "/eos/user/b/bejones/out"))

	assert.Equal(t, 1, tools.CallCount("xrdfs", "mkdir"))
	assert.Equal(t, 1, tools.CallCount("xrdfs", "stat"))
	assert.True(t, tools.HasRemoteDir(testServer, "/eos/user/b/bejones/out"))
	assert.True(t, dirs.Checked(testServer, "/eos/user/b/bejones/out"))
	assert.Equal(t, hitsBefore+1, testutil.ToFloat64(metrics.DirectoryCacheHits))
}

func TestEnsureExistingDirectory(t *testing.T) {
	tools := mock.NewXrootdTools()
	tools.AddRemoteDir(testServer, "/eos/user/b/bejones")
	dirs := NewDirEnsurer(xrootd.NewClient(tools))

	require.NoError(t, dirs.Ensure(context.Background(), testServer, "/eos/user/b/bejones"))
	assert.Equal(t, 0, tools.CallCount("xrdfs", "mkdir"))
	assert.True(t, dirs.Checked(testServer, "/eos/user/b/bejones"))
}

func TestEnsureListsExistingDirectoryWhenDebugging(t *testing.T) {
	level := log.GetLevel()
	t.Cleanup(func() { log.SetLevel(level) })
	tools := mock.NewXrootdTools()
	tools.AddRemoteDir(testServer, "/eos/user/b/bejones")
	tools.PutRemote(testServer, "/eos/user/b/bejones/old.out", []byte("old"))
	ctx := context.Background()

	log.SetLevel(log.InfoLevel)
	require.NoError(t, NewDirEnsurer(xrootd.NewClient(tools)).Ensure(ctx, testServer, "/eos/user/b/bejones"))
	assert.Equal(t, 0, tools.CallCount("xrdfs", "ls"))

	log.SetLevel(log.DebugLevel)
	require.NoError(t, NewDirEnsurer(xrootd.NewClient(tools)).Ensure(ctx, testServer, "/eos/user/b/bejones"))
	assert.Equal(t, 1, tools.CallCount("xrdfs", "ls"))
	assert.Equal(t, 0, tools.CallCount("xrdfs", "mkdir"))
}

func TestEnsureCacheIsPerServer(t *testing.T) {
	tools := mock.NewXrootdTools()
	dirs := NewDirEnsurer(xrootd.NewClient(tools))
	ctx := context.Background()

	require.NoError(t, dirs.Ensure(ctx, testServer, "/data"))
	require.NoError(t, dirs.Ensure(ctx, "root://other.example.org", "/data"))
	assert.Equal(t, 2, tools.CallCount("xrdfs", "mkdir"))
}

func TestEnsureMkdirFailure(t *testing.T) {
	tools := mock.NewXrootdTools()
	tools.FailOn("/eos/readonly", "[ERROR] Server responded with an error: [3010] Permission denied")
	dirs := NewDirEnsurer(xrootd.NewClient(tools))
	ctx := context.Background()

	err := dirs.Ensure(ctx, testServer, "/eos/readonly")
	require.Error(t, err)
	var dirErr *xrootd.DirectoryError
	require.ErrorAs(t, err, &dirErr)
	assert.Contains(t, err.Error(), "Permission denied")
	assert.False(t, dirs.Checked(testServer, "/eos/readonly"))

	// Failures are not cached; the next attempt goes back to the server
	assert.Error(t, dirs.Ensure(ctx, testServer, "/eos/readonly"))
	assert.Equal(t, 2, tools.CallCount("xrdfs", "stat"))
}
