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

package byte_rate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromTransfer(t *testing.T) {
	tests := []struct {
		name     string
		size     int64
		elapsed  time.Duration
		expected float64
	}{
		{"one-mib-per-second", MiB, time.Second, MiB},
		{"half-second", 10 * KiB, 500 * time.Millisecond, 20 * KiB},
		{"zero-bytes", 0, time.Second, 0},
		{"instant-copy-clamped", 1000, 0, 1000 * 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, float64(FromTransfer(tt.size, tt.elapsed)), 0.01)
		})
	}
}

func TestByteRateString(t *testing.T) {
	assert.Equal(t, "512.00B/s", ByteRate(512).String())
	assert.Equal(t, "1.50KB/s", ByteRate(1.5*KiB).String())
	assert.Equal(t, "5.00MB/s", ByteRate(5*MiB).String())
	assert.Equal(t, "2.00GB/s", ByteRate(2*GiB).String())
	assert.Equal(t, "1.00TB/s", ByteRate(TiB).String())
	assert.Equal(t, "3.00PB/s", ByteRate(3*PiB).String())
}
