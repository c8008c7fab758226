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
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/htcondor/xrdcp-plugin/config"
	"github.com/htcondor/xrdcp-plugin/executor"
	"github.com/htcondor/xrdcp-plugin/metrics"
	"github.com/htcondor/xrdcp-plugin/param"
	"github.com/htcondor/xrdcp-plugin/plugin"
	"github.com/htcondor/xrdcp-plugin/xrootd"
)

// pluginMain runs one invocation of the transfer plugin and returns the
// exit code.  Every failure exits 1, whether or not a result ad could be
// written.
func pluginMain(ctx context.Context, argv []string, stdout, stderr io.Writer) int {
	if ctx == nil {
		ctx = context.Background()
	}
	args, err := parseArgs(argv)
	if err != nil {
		printUsage(stderr, argv[0])
		return 1
	}
	if args.capabilities {
		fmt.Fprint(stdout, plugin.Capabilities().OldString())
		return 0
	}
	if args.version {
		printVersion(stdout)
		return 0
	}

	if err := config.Init(); err != nil {
		fmt.Fprintln(stderr, "Failed to load configuration:", err)
		return 1
	}
	if err := config.InitLogging(); err != nil {
		fmt.Fprintln(stderr, "Warning:", err)
	}
	log.Debugln("Infile:", args.infile)
	log.Debugln("Outfile:", args.outfile)
	if args.upload {
		log.Debugln("Upload detected")
	}

	meta := plugin.LoadMetadata(param.Plugin_JobAd.GetString(), param.Plugin_MachineAd.GetString())
	if param.Plugin_CreateDirs.GetBool() {
		meta.CreateDirs = true
	}
	if meta.OpSysAndVer != "" {
		log.Debugln("Execution point OS:", meta.OpSysAndVer)
	}

	client := xrootd.NewClient(executor.ExecRunner{},
		xrootd.WithCopyCommand(param.Xrootd_CopyCommand.GetString()),
		xrootd.WithFsCommand(param.Xrootd_FsCommand.GetString()),
		xrootd.WithAppName(param.Xrootd_AppName.GetString()),
	)
	if log.IsLevelEnabled(log.DebugLevel) {
		if toolVersion, err := client.CopyToolVersion(ctx); err != nil {
			log.Debugln("Unable to determine xrdcp version:", err)
		} else {
			log.Debugln("Using xrdcp", toolVersion)
		}
	}
	xfer := plugin.New(client, meta)

	transfers, err := readInfile(args.infile)
	if err != nil {
		log.Errorln("Failed to read transfer requests:", err)
		writeFatalAd(args.outfile, err)
		return 1
	}

	if err := xfer.ResolveCredentials(param.Plugin_CredentialDir.GetString()); err != nil {
		log.Warningln("Unable to locate credentials:", err)
	}

	runErr := runTransfers(ctx, xfer, transfers, args)
	if err := metrics.WriteTextfile(param.Plugin_MetricsFile.GetString()); err != nil {
		log.Warningln(err)
	}
	if runErr != nil {
		log.Errorln(runErr)
		return 1
	}
	return 0
}

func readInfile(infile string) ([]plugin.Transfer, error) {
	fp, err := os.Open(infile)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	return plugin.ReadTransfers(fp)
}

func runTransfers(ctx context.Context, xfer *plugin.Plugin, transfers []plugin.Transfer, args pluginArgs) error {
	out, err := os.Create(args.outfile)
	if err != nil {
		return errors.Wrap(err, "failed to open outfile")
	}
	runErr := xfer.RunBatch(ctx, transfers, args.upload, out)
	if err := out.Close(); err != nil && runErr == nil {
		runErr = errors.Wrap(err, "failed to close outfile")
	}
	return runErr
}

// writeFatalAd records a failure that happened before any transfer was
// attempted.  It is best effort: the exit code already reports failure.
func writeFatalAd(outfile string, fatal error) {
	out, err := os.Create(outfile)
	if err != nil {
		log.Errorln("Failed to open outfile:", err)
		return
	}
	defer out.Close()
	if err := plugin.WriteAd(out, plugin.ErrorAd(fatal, "")); err != nil {
		log.Errorln("Failed to write error ad:", err)
	}
}
