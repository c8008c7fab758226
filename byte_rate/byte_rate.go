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
	"fmt"
	"time"
)

// ByteRate represents a transfer rate in Bytes/Second.
type ByteRate float64

// Common binary prefixes (Base-2)
const (
	_ = 1.0 << (10 * iota) // Ignore 2^0
	KiB
	MiB
	GiB
	TiB
	PiB
)

// Transfers quicker than this are clamped so that a tiny file copied
// within the clock resolution does not report an infinite rate.
const minElapsed = time.Millisecond

// FromTransfer returns the average rate of moving size bytes in elapsed.
func FromTransfer(size int64, elapsed time.Duration) ByteRate {
	if size <= 0 {
		return 0
	}
	if elapsed < minElapsed {
		elapsed = minElapsed
	}
	return ByteRate(float64(size) / elapsed.Seconds())
}

// String implements fmt.Stringer for nice printing
func (r ByteRate) String() string {
	val := float64(r)
	switch {
	case val >= PiB:
		return fmt.Sprintf("%.2fPB/s", val/PiB)
	case val >= TiB:
		return fmt.Sprintf("%.2fTB/s", val/TiB)
	case val >= GiB:
		return fmt.Sprintf("%.2fGB/s", val/GiB)
	case val >= MiB:
		return fmt.Sprintf("%.2fMB/s", val/MiB)
	case val >= KiB:
		return fmt.Sprintf("%.2fKB/s", val/KiB)
	default:
		return fmt.Sprintf("%.2fB/s", val)
	}
}
