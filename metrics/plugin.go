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
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xrdcp_plugin_transfers_total",
		Help: "The number of transfers attempted by the plugin, by direction (upload|download) and result (success|failure)",
	}, []string{"type", "result"})

	TransferBytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xrdcp_plugin_transfer_bytes_total",
		Help: "The number of bytes moved by successful transfers, by direction",
	}, []string{"type"})

	TransferDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "xrdcp_plugin_transfer_duration_seconds",
		Help:    "Wall-clock time spent in xrdcp per transfer, by direction",
		Buckets: prometheus.ExponentialBuckets(0.1, 4, 8),
	}, []string{"type"})

	RemoteOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "xrdcp_plugin_remote_ops_total",
		Help: "The number of xrdfs operations issued, by operation (stat|mkdir) and result",
	}, []string{"op", "result"})

	DirectoryCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "xrdcp_plugin_directory_cache_hits_total",
		Help: "The number of remote directory checks answered from the per-run cache",
	})
)

// WriteTextfile dumps the default registry in the text exposition format
// so a node exporter textfile collector can pick it up.  An empty
// filename disables the export.
func WriteTextfile(filename string) error {
	if filename == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(filename, prometheus.DefaultGatherer); err != nil {
		return errors.Wrapf(err, "failed to write metrics to %s", filename)
	}
	return nil
}
