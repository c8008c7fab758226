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

// Package param names every configuration key the plugin reads.
package param

import (
	"strings"

	"github.com/spf13/viper"
)

type (
	StringParam struct {
		name string
	}

	BoolParam struct {
		name string
	}
)

var (
	Logging_Level = StringParam{"Logging.Level"}

	Plugin_JobAd         = StringParam{"Plugin.JobAd"}
	Plugin_MachineAd     = StringParam{"Plugin.MachineAd"}
	Plugin_CredentialDir = StringParam{"Plugin.CredentialDir"}
	Plugin_MetricsFile   = StringParam{"Plugin.MetricsFile"}
	Plugin_CreateDirs    = BoolParam{"Plugin.CreateDirs"}

	Xrootd_CopyCommand = StringParam{"Xrootd.CopyCommand"}
	Xrootd_FsCommand   = StringParam{"Xrootd.FsCommand"}
	Xrootd_AppName     = StringParam{"Xrootd.AppName"}
)

func (sP StringParam) GetString() string {
	return viper.GetString(sP.name)
}

func (sP StringParam) GetName() string {
	return sP.name
}

func (sP StringParam) IsSet() bool {
	return viper.IsSet(sP.name)
}

// GetEnvVarName returns the environment variable that overrides the
// parameter, e.g. XRDCP_XROOTD_COPYCOMMAND.
func (sP StringParam) GetEnvVarName(prefix string) string {
	return envVarName(prefix, sP.name)
}

func (bP BoolParam) GetBool() bool {
	return viper.GetBool(bP.name)
}

func (bP BoolParam) GetName() string {
	return bP.name
}

func (bP BoolParam) IsSet() bool {
	return viper.IsSet(bP.name)
}

func (bP BoolParam) GetEnvVarName(prefix string) string {
	return envVarName(prefix, bP.name)
}

func envVarName(prefix, name string) string {
	return strings.ToUpper(prefix + "_" + strings.ReplaceAll(name, ".", "_"))
}
