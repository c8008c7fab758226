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

package main

import (
	"fmt"
	"io"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

func main() {
	os.Exit(handleCLI(os.Args))
}

// handleCLI runs the plugin with the full argv (program name first) and
// returns the process exit code.
func handleCLI(args []string) int {
	exitCode = 0
	programName = args[0]
	rootCmd.SetArgs(args[1:])
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return exitCode
}

func printVersion(out io.Writer) {
	fmt.Fprintln(out, "Version:", version)
	fmt.Fprintln(out, "Build Date:", date)
	fmt.Fprintln(out, "Build Commit:", commit)
	fmt.Fprintln(out, "Built By:", builtBy)
}
