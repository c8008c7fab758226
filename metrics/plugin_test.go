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

package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTextfile(t *testing.T) {
	assert.NoError(t, WriteTextfile(""))

	TransfersTotal.WithLabelValues("download", "success").Inc()
	TransferBytesTotal.WithLabelValues("download").Add(1024)

	filename := filepath.Join(t.TempDir(), "xrdcp_plugin.prom")
	require.NoError(t, WriteTextfile(filename))

	contents, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(contents), `xrdcp_plugin_transfers_total{result="success",type="download"}`)
	assert.Contains(t, string(contents), "xrdcp_plugin_transfer_bytes_total")
}

func TestWriteTextfileBadPath(t *testing.T) {
	err := WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "out.prom"))
	assert.Error(t, err)
}

func TestRemoteOpsLabels(t *testing.T) {
	before := testutil.ToFloat64(RemoteOps.WithLabelValues("mkdir", "created"))
	RemoteOps.WithLabelValues("mkdir", "created").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(RemoteOps.WithLabelValues("mkdir", "created")))
}
