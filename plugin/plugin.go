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

// Package plugin implements the HTCondor file transfer plugin protocol
// on top of the XRootD command line tools.
package plugin

import (
	"context"
	"io"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/units"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/htcondor/xrdcp-plugin/byte_rate"
	"github.com/htcondor/xrdcp-plugin/classads"
	"github.com/htcondor/xrdcp-plugin/metrics"
	"github.com/htcondor/xrdcp-plugin/xrootd"
	"github.com/htcondor/xrdcp-plugin/xrootd_url"
)

const (
	Version          = "1.0.0"
	SupportedMethods = xrootd_url.RootScheme
	TransferProtocol = "xrootd"

	uploadType   = "upload"
	downloadType = "download"

	// Names the starter uses for the job's stdout/stderr in the sandbox
	stdoutPlaceholder = "_condor_stdout"
	stderrPlaceholder = "_condor_stderr"
)

type (
	// Transfer is one request from the input ad file.
	Transfer struct {
		URL       string
		LocalFile string

		// Set when the request ad could not be understood; reported when
		// the request's turn comes so earlier requests still run.
		problem error
	}

	// RequestError describes a malformed transfer request ad.
	RequestError struct {
		Msg string
	}

	Plugin struct {
		Meta Metadata

		client   *xrootd.Client
		dirs     *DirEnsurer
		logger   *log.Entry
		now      func() time.Time
		hostname string
	}
)

func (e *RequestError) Error() string {
	return e.Msg
}

func (e *RequestError) Kind() string {
	return "RequestError"
}

func New(client *xrootd.Client, meta Metadata) *Plugin {
	hostname, err := os.Hostname()
	if err != nil {
		log.Debugln("Unable to determine hostname:", err)
	}
	return &Plugin{
		Meta:     meta,
		client:   client,
		dirs:     NewDirEnsurer(client),
		logger:   log.WithField("run", uuid.NewString()),
		now:      time.Now,
		hostname: hostname,
	}
}

// Capabilities is the ad printed in response to -classad.
func Capabilities() *classads.ClassAd {
	ad := classads.NewClassAd()
	ad.Set("MultipleFileSupport", true)
	ad.Set("SupportedMethods", SupportedMethods)
	ad.Set("PluginType", "FileTransfer")
	ad.Set("Version", Version)
	return ad
}

// CredentialCachePath is where the starter drops the delegated Kerberos
// credentials for username.
func CredentialCachePath(dir, username string) string {
	return filepath.Join(dir, username+".cc")
}

// runningUser is the job owner if known, else the user we run as.
func (p *Plugin) runningUser() (string, error) {
	if p.Meta.Owner != "" {
		return p.Meta.Owner, nil
	}
	if current, err := user.Current(); err == nil && current.Username != "" {
		return current.Username, nil
	}
	for _, env := range []string{"LOGNAME", "USER", "LNAME", "USERNAME"} {
		if name := os.Getenv(env); name != "" {
			return name, nil
		}
	}
	return "", errors.New("unable to determine the running user")
}

// ResolveCredentials points the XRootD tools at the running user's
// credential cache in dir (the current directory when empty).
func (p *Plugin) ResolveCredentials(dir string) error {
	username, err := p.runningUser()
	if err != nil {
		return err
	}
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return errors.Wrap(err, "failed to determine working directory")
		}
	}
	p.client.SetCredentialCache(CredentialCachePath(dir, username))
	p.logger.Debugln("Using credential cache", p.client.CredentialCache())
	return nil
}

// ReadTransfers reads the transfer requests from the input ad file.
func ReadTransfers(reader io.Reader) ([]Transfer, error) {
	ads, err := classads.ReadClassAd(reader)
	if err != nil {
		return nil, err
	}
	transfers := make([]Transfer, 0, len(ads))
	for idx := range ads {
		transfers = append(transfers, transferFromAd(&ads[idx]))
	}
	return transfers, nil
}

func transferFromAd(ad *classads.ClassAd) Transfer {
	transfer := Transfer{}
	var missing []string
	for _, field := range []struct {
		name   string
		target *string
	}{{"Url", &transfer.URL}, {"LocalFileName", &transfer.LocalFile}} {
		value, ok, err := ad.GetString(field.name)
		if err != nil {
			transfer.problem = &RequestError{Msg: err.Error()}
			return transfer
		}
		if !ok || value == "" {
			missing = append(missing, field.name)
			continue
		}
		*field.target = value
	}
	if len(missing) > 0 {
		transfer.problem = &RequestError{Msg: "transfer request is missing " + strings.Join(missing, " and ")}
	}
	return transfer
}

func fileSize(localFile string) (int64, error) {
	info, err := os.Stat(localFile)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// splitRemotePath splits an absolute remote path into its directory and
// final component; "/a/b" gives ("/a", "b") and "/a/" gives ("/a", "").
func splitRemotePath(remotePath string) (dir, file string) {
	idx := strings.LastIndex(remotePath, "/")
	dir, file = remotePath[:idx+1], remotePath[idx+1:]
	if trimmed := strings.TrimRight(dir, "/"); trimmed != "" {
		dir = trimmed
	}
	return
}

func joinRemotePath(dir, file string) string {
	if strings.HasSuffix(dir, "/") {
		return dir + file
	}
	return dir + "/" + file
}

// uploadName maps the starter's stdout/stderr placeholders back to the
// names the user submitted.  A relative name keeps its subdirectories
// below the upload directory; an absolute one (a path on the submit
// host) contributes only its final component.
func (p *Plugin) uploadName(file string) string {
	submitted := ""
	if file == stdoutPlaceholder {
		submitted = p.Meta.Out
	} else if file == stderrPlaceholder {
		submitted = p.Meta.Err
	}
	if submitted == "" {
		return file
	}
	if filepath.IsAbs(submitted) || path.IsAbs(submitted) {
		return filepath.Base(submitted)
	}
	return path.Clean(filepath.ToSlash(submitted))
}

func (p *Plugin) Download(ctx context.Context, url, localFile string) (*classads.ClassAd, error) {
	start := p.now()
	p.logger.Debugln("Downloading:", url, "to", localFile)
	if _, err := p.client.Copy(ctx, url, localFile); err != nil {
		return nil, err
	}
	size, err := fileSize(localFile)
	if err != nil {
		return nil, err
	}
	end := p.now()
	return p.resultAd(downloadType, url, localFile, size, start, end), nil
}

func (p *Plugin) Upload(ctx context.Context, url, localFile string) (*classads.ClassAd, error) {
	start := p.now()
	server, uploadPath, err := xrootd_url.Parse(url)
	if err != nil {
		return nil, err
	}
	uploadDir, uploadFile := splitRemotePath(uploadPath)
	if renamed := p.uploadName(uploadFile); renamed != uploadFile {
		p.logger.Debugln("Renaming", uploadFile, "to", renamed)
		uploadFile = renamed
	}
	uploadPath = joinRemotePath(uploadDir, uploadFile)
	url = xrootd_url.Join(server, uploadPath)

	if p.Meta.CreateDirs {
		// A renamed stdout/stderr may add subdirectories
		targetDir, _ := splitRemotePath(uploadPath)
		if err := p.dirs.Ensure(ctx, server, targetDir); err != nil {
			return nil, err
		}
	}

	p.logger.Debugln("Uploading:", localFile, "to", url)
	if _, err := p.client.Copy(ctx, localFile, url); err != nil {
		return nil, err
	}
	size, err := fileSize(localFile)
	if err != nil {
		return nil, err
	}
	end := p.now()
	return p.resultAd(uploadType, url, localFile, size, start, end), nil
}

func (p *Plugin) resultAd(xferType, url, localFile string, size int64, start, end time.Time) *classads.ClassAd {
	elapsed := end.Sub(start)
	metrics.TransfersTotal.WithLabelValues(xferType, "success").Inc()
	metrics.TransferBytesTotal.WithLabelValues(xferType).Add(float64(size))
	metrics.TransferDuration.WithLabelValues(xferType).Observe(elapsed.Seconds())
	p.logger.Infof("Finished %s of %s (%s at %s)", xferType, url, units.Base2Bytes(size), byte_rate.FromTransfer(size, elapsed))

	ad := classads.NewClassAd()
	ad.Set("TransferSuccess", true)
	ad.Set("TransferProtocol", TransferProtocol)
	ad.Set("TransferType", xferType)
	ad.Set("TransferFileName", localFile)
	ad.Set("TransferFileBytes", size)
	ad.Set("TransferTotalBytes", size)
	ad.Set("TransferStartTime", start.Unix())
	ad.Set("TransferEndTime", end.Unix())
	ad.Set("ConnectionTimeSeconds", int64(elapsed.Seconds()))
	ad.Set("TransferUrl", url)
	if p.hostname != "" {
		ad.Set("TransferLocalMachineName", p.hostname)
	}
	return ad
}

// WriteAd appends ad to out in the legacy form, followed by the blank
// line that separates ads.
func WriteAd(out io.Writer, ad *classads.ClassAd) error {
	_, err := io.WriteString(out, ad.OldString()+"\n")
	return err
}

// RunBatch performs the transfers in order, writing one result ad per
// request.  The first failing request gets an error ad and stops the
// batch; its error is returned.  Failing to write to out is also fatal.
func (p *Plugin) RunBatch(ctx context.Context, transfers []Transfer, upload bool, out io.Writer) error {
	xferType := downloadType
	if upload {
		xferType = uploadType
	}
	for idx, transfer := range transfers {
		var ad *classads.ClassAd
		err := transfer.problem
		if err == nil {
			if upload {
				ad, err = p.Upload(ctx, transfer.URL, transfer.LocalFile)
			} else {
				ad, err = p.Download(ctx, transfer.URL, transfer.LocalFile)
			}
		}
		if err != nil {
			metrics.TransfersTotal.WithLabelValues(xferType, "failure").Inc()
			p.logger.Errorf("Transfer %d of %d (%s) failed: %v", idx+1, len(transfers), transfer.URL, err)
			if writeErr := WriteAd(out, ErrorAd(err, transfer.URL)); writeErr != nil {
				p.logger.Errorln("Failed to write error ad:", writeErr)
			}
			return err
		}
		if err := WriteAd(out, ad); err != nil {
			return errors.Wrap(err, "failed to write transfer result")
		}
	}
	p.logger.Debugf("Completed %d %s transfer(s)", len(transfers), xferType)
	return nil
}
