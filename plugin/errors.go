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
	"reflect"
	"strconv"

	"github.com/pkg/errors"

	"github.com/htcondor/xrdcp-plugin/classads"
)

// MaxErrorLength bounds the description part of TransferError; the
// starter forwards the message to the schedd and long xrdcp debug
// output would otherwise blow past its limits.
const MaxErrorLength = 1024

// MaxQuotedErrorLength bounds TransferError as written to the output ad,
// after control and non-ASCII characters are escaped.
const MaxQuotedErrorLength = 1400

const truncationMarker = "..."

type kinded interface {
	Kind() string
}

// ErrorKind names the failure class reported in TransferError.
func ErrorKind(err error) string {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	cause := errors.Cause(err)
	t := reflect.TypeOf(cause)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	// errors.New and fmt.Errorf values have no useful type name
	if t == nil || t.Name() == "" || t.Name() == "errorString" || t.Name() == "fundamental" || t.Name() == "wrapError" {
		return "Error"
	}
	return t.Name()
}

// FormatError renders err as "<kind>: <description>".  The description
// is cut at MaxErrorLength characters, or earlier when its escaped form
// would push the quoted message past MaxQuotedErrorLength.
func FormatError(err error) string {
	prefix := ErrorKind(err) + ": "
	budget := MaxQuotedErrorLength - quotedLen(prefix) - len(truncationMarker) - len(`""`)
	runes := []rune(err.Error())
	used := 0
	for idx, r := range runes {
		if idx == MaxErrorLength {
			return prefix + string(runes[:idx]) + truncationMarker
		}
		used += quotedLen(string(r))
		if used > budget {
			return prefix + string(runes[:idx]) + truncationMarker
		}
	}
	return prefix + string(runes)
}

// quotedLen is the length of s once escaped for a ClassAd string literal.
func quotedLen(s string) int {
	return len(strconv.QuoteToASCII(s)) - len(`""`)
}

// ErrorAd is the result ad for a failed transfer; url may be empty when
// the failure happened before a request was identified.
func ErrorAd(err error, url string) *classads.ClassAd {
	ad := classads.NewClassAd()
	ad.Set("TransferSuccess", false)
	ad.Set("TransferError", FormatError(err))
	ad.Set("TransferUrl", url)
	return ad
}
