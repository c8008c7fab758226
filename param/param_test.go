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

package param

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestParams(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	assert.False(t, Xrootd_CopyCommand.IsSet())
	viper.Set("Xrootd.CopyCommand", "/opt/xrootd/bin/xrdcp")
	assert.True(t, Xrootd_CopyCommand.IsSet())
	assert.Equal(t, "/opt/xrootd/bin/xrdcp", Xrootd_CopyCommand.GetString())
	assert.Equal(t, "Xrootd.CopyCommand", Xrootd_CopyCommand.GetName())

	viper.Set("Plugin.CreateDirs", "true")
	assert.True(t, Plugin_CreateDirs.GetBool())
}

func TestEnvVarName(t *testing.T) {
	assert.Equal(t, "XRDCP_XROOTD_COPYCOMMAND", Xrootd_CopyCommand.GetEnvVarName("xrdcp"))
	assert.Equal(t, "XRDCP_PLUGIN_CREATEDIRS", Plugin_CreateDirs.GetEnvVarName("XRDCP"))
}
