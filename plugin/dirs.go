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
	"context"

	"github.com/jellydator/ttlcache/v3"
	log "github.com/sirupsen/logrus"

	"github.com/htcondor/xrdcp-plugin/metrics"
	"github.com/htcondor/xrdcp-plugin/xrootd_url"
)

type remoteFs interface {
	Stat(ctx context.Context, server, path string) (bool, error)
	Mkdir(ctx context.Context, server, path string) error
	List(ctx context.Context, server, path string) (string, error)
}

// DirEnsurer creates remote directories on demand, remembering the ones
// it has already seen during this run.  Entries never expire.
type DirEnsurer struct {
	fs      remoteFs
	checked *ttlcache.Cache[string, struct{}]
}

func NewDirEnsurer(fs remoteFs) *DirEnsurer {
	return &DirEnsurer{
		fs:      fs,
		checked: ttlcache.New[string, struct{}](),
	}
}

// Ensure makes sure dir exists on server, creating it (and its parents)
// if needed.
func (d *DirEnsurer) Ensure(ctx context.Context, server, dir string) error {
	key := xrootd_url.Join(server, dir)
	if d.checked.Get(key) != nil {
		metrics.DirectoryCacheHits.Inc()
		return nil
	}
	exists, err := d.fs.Stat(ctx, server, dir)
	if err != nil {
		return err
	}
	if !exists {
		log.Debugln("Creating remote directory", dir, "on", server)
		if err := d.fs.Mkdir(ctx, server, dir); err != nil {
			return err
		}
	} else if log.IsLevelEnabled(log.DebugLevel) {
		// xrdcp runs with -f; note what an upload may overwrite
		if listing, err := d.fs.List(ctx, server, dir); err != nil {
			log.Debugln("Unable to list", dir, "on", server+":", err)
		} else {
			log.Debugf("Existing entries in %s on %s:\n%s", dir, server, listing)
		}
	}
	d.checked.Set(key, struct{}{}, ttlcache.NoTTL)
	return nil
}

// Checked reports whether dir on server is already known to exist.
func (d *DirEnsurer) Checked(server, dir string) bool {
	return d.checked.Get(xrootd_url.Join(server, dir)) != nil
}
