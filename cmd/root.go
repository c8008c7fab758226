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
	"github.com/spf13/cobra"
)

var (
	exitCode    int
	programName = "xrdcp_plugin"

	rootCmd = &cobra.Command{
		Use:   "xrdcp_plugin",
		Short: "HTCondor file transfer plugin for root:// URLs",
		Long: `xrdcp_plugin is invoked by the HTCondor starter to move job
input and output files to and from XRootD servers.  Transfers are
performed by the xrdcp and xrdfs command line tools.`,
		Args:               cobra.ArbitraryArgs,
		DisableFlagParsing: true, // We have custom flag handling to match HTCSS style.
		SilenceUsage:       true,
		SilenceErrors:      true,
		Run: func(cmd *cobra.Command, args []string) {
			argv := append([]string{programName}, args...)
			exitCode = pluginMain(cmd.Context(), argv, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
)

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
}
