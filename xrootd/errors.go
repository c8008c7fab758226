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
	"fmt"
	"strings"
)

type (
	// CopyError is returned when xrdcp exits nonzero.
	CopyError struct {
		Source      string
		Destination string
		ExitCode    int
		Stderr      string
	}

	// DirectoryError is returned when an xrdfs directory operation fails.
	DirectoryError struct {
		Server string
		Path   string
		Stderr string
		Stdout string
	}
)

func (e *CopyError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return fmt.Sprintf("xrdcp of %s to %s exited with status %d", e.Source, e.Destination, e.ExitCode)
}

func (e *CopyError) Kind() string {
	return "CopyError"
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("Error: %s\nOutput: %s", strings.TrimSpace(e.Stderr), strings.TrimSpace(e.Stdout))
}

func (e *DirectoryError) Kind() string {
	return "DirectoryError"
}
