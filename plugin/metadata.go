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

package plugin

import (
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/htcondor/xrdcp-plugin/classads"
)

// Metadata is the part of the job and machine ads the plugin cares
// about.  It is loaded once per run and only consulted during uploads.
type Metadata struct {
	// Owner of the job; selects the credential cache.
	Owner string
	// Out and Err are the user's requested names for the job's
	// stdout/stderr (the starter transfers them as _condor_stdout and
	// _condor_stderr).
	Out string
	Err string
	// CreateDirs asks for missing destination directories to be created
	// before an upload.
	CreateDirs bool
	// OpSysAndVer of the execution point; informational.
	OpSysAndVer string
}

const (
	attrOwner        = "Owner"
	attrSubmittedOut = "SubmittedOut"
	attrSubmittedErr = "SubmittedErr"
	attrOpSysAndVer  = "OpSysAndVer"
)

// Both spellings of the directory-creation knob are honored.
var createDirAttrs = []string{"XRDCP_CREATE_DIR", "XRDCP_CREATE_DIRS"}

// LoadMetadata reads the first ad of the job and machine ad files.
// Missing or unreadable files are not an error: the plugin can be run
// outside a starter (e.g. on the AP), where neither file exists.
func LoadMetadata(jobAdPath, machineAdPath string) Metadata {
	jobAd, err := readFirstAd(jobAdPath)
	if err != nil {
		log.Debugln("No job ad available:", err)
	}
	machineAd, err := readFirstAd(machineAdPath)
	if err != nil {
		log.Debugln("No machine ad available:", err)
	}
	return MetadataFromAds(jobAd, machineAd)
}

// MetadataFromAds extracts Metadata from already-parsed ads; either may
// be nil.  Attributes of the wrong type are ignored.
func MetadataFromAds(jobAd, machineAd *classads.ClassAd) Metadata {
	meta := Metadata{}
	if jobAd != nil {
		meta.Owner = stringAttr(jobAd, attrOwner)
		meta.Out = stringAttr(jobAd, attrSubmittedOut)
		meta.Err = stringAttr(jobAd, attrSubmittedErr)
		for _, attr := range createDirAttrs {
			value, ok, err := jobAd.GetBool(attr)
			if err != nil {
				log.Warningln("Ignoring job ad attribute:", err)
				continue
			}
			if ok && value {
				meta.CreateDirs = true
			}
		}
	}
	if machineAd != nil {
		meta.OpSysAndVer = stringAttr(machineAd, attrOpSysAndVer)
	}
	return meta
}

func stringAttr(ad *classads.ClassAd, name string) string {
	value, _, err := ad.GetString(name)
	if err != nil {
		log.Warningln("Ignoring ad attribute:", err)
		return ""
	}
	return value
}

func readFirstAd(path string) (*classads.ClassAd, error) {
	if path == "" {
		return nil, errors.New("no ad file configured")
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	ads, err := classads.ReadClassAd(fp)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}
	if len(ads) == 0 {
		return nil, errors.Errorf("%s contains no ads", path)
	}
	return &ads[0], nil
}
