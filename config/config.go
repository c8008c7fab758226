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

package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/htcondor/xrdcp-plugin/param"
	"github.com/htcondor/xrdcp-plugin/xrootd"
)

const PreferredPrefix = "XRDCP"

// Init loads defaults, the optional config file and environment
// overrides (XRDCP_<SECTION>_<KEY>) into the global viper instance.
func Init() error {
	lowerPrefix := strings.ToLower(PreferredPrefix)

	viper.SetDefault(param.Logging_Level.GetName(), "panic")
	viper.SetDefault(param.Plugin_JobAd.GetName(), ".job.ad")
	viper.SetDefault(param.Plugin_MachineAd.GetName(), ".machine.ad")
	viper.SetDefault(param.Plugin_CredentialDir.GetName(), "")
	viper.SetDefault(param.Plugin_MetricsFile.GetName(), "")
	viper.SetDefault(param.Plugin_CreateDirs.GetName(), false)
	viper.SetDefault(param.Xrootd_CopyCommand.GetName(), xrootd.DefaultCopyCommand)
	viper.SetDefault(param.Xrootd_FsCommand.GetName(), xrootd.DefaultFsCommand)
	viper.SetDefault(param.Xrootd_AppName.GetName(), xrootd.DefaultAppName)

	viper.SetEnvPrefix(PreferredPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("$HOME/." + lowerPrefix)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return errors.Wrap(err, "failed to read config file")
		}
		// Do not fail if the config file is missing
	}
	if envConfigFile := os.Getenv(PreferredPrefix + "_CONFIG_FILE"); envConfigFile != "" {
		fp, err := os.Open(envConfigFile)
		if err != nil {
			if os.IsNotExist(err) {
				log.Debugln("Config file", envConfigFile, "does not exist; ignoring")
				return nil
			}
			return errors.Wrapf(err, "failed to open config file %s", envConfigFile)
		}
		defer fp.Close()
		if err := viper.MergeConfig(fp); err != nil {
			return errors.Wrapf(err, "failed to parse config file %s", envConfigFile)
		}
	}
	return nil
}

// SetLogging configures the global logrus logger.  Plugin output is
// consumed by the starter, so messages only go to stderr.
func SetLogging(logLevel log.Level) {
	textFormatter := log.TextFormatter{}
	textFormatter.DisableLevelTruncation = true
	textFormatter.FullTimestamp = true
	textFormatter.DisableColors = !term.IsTerminal(int(os.Stderr.Fd()))
	log.SetFormatter(&textFormatter)
	log.SetOutput(os.Stderr)
	log.SetLevel(logLevel)
}

// InitLogging applies the configured Logging.Level.
func InitLogging() error {
	levelStr := param.Logging_Level.GetString()
	if levelStr == "" {
		SetLogging(log.PanicLevel)
		return nil
	}
	level, err := log.ParseLevel(levelStr)
	if err != nil {
		SetLogging(log.PanicLevel)
		return errors.Wrapf(err, "invalid %s value", param.Logging_Level.GetEnvVarName(PreferredPrefix))
	}
	SetLogging(level)
	return nil
}
