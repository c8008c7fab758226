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
	"path/filepath"
	"strings"
)

// pluginArgs is the parsed HTCSS-style command line.
type pluginArgs struct {
	capabilities bool
	version      bool
	upload       bool
	infile       string
	outfile      string
}

// usageError means the command line was not understood; the usage text
// should be shown.
type usageError struct {
	msg string
}

func (e *usageError) Error() string {
	return e.msg
}

const usageTemplate = `Usage: {0} -infile <input-filename> -outfile <output-filename>
       {0} -classad
Options:
  -classad                    Print a ClassAd containing the capablities of this
                              file transfer plugin.
  -infile <input-filename>    Input ClassAd file
  -outfile <output-filename>  Output ClassAd file
  -upload                     Indicates this transfer is an upload (default is
                              download)
`

func printUsage(out io.Writer, program string) {
	name := filepath.Base(program)
	if name == "" || name == "." {
		name = "xrdcp_plugin"
	}
	fmt.Fprint(out, strings.ReplaceAll(usageTemplate, "{0}", name))
}

// parseArgs accepts exactly:
//
//	<prog> -classad
//	<prog> -infile <in> -outfile <out> [-upload]
//	<prog> -outfile <out> -infile <in> [-upload]
//
// with -upload allowed at any position.  argv[0] is the program name.
func parseArgs(argv []string) (pluginArgs, error) {
	result := pluginArgs{}
	switch len(argv) {
	case 2:
		switch argv[1] {
		case "-classad":
			result.capabilities = true
			return result, nil
		case "-version", "-v":
			result.version = true
			return result, nil
		}
		return result, &usageError{msg: "unknown option " + argv[1]}
	case 5, 6:
	default:
		return result, &usageError{msg: fmt.Sprintf("wrong number of arguments (%d)", len(argv)-1)}
	}

	args := make([]string, 0, len(argv)-1)
	for _, arg := range argv[1:] {
		if arg == "-upload" {
			if result.upload {
				return result, &usageError{msg: "-upload given more than once"}
			}
			result.upload = true
			continue
		}
		args = append(args, arg)
	}
	if len(args) != 4 {
		return result, &usageError{msg: "expected -infile and -outfile, each with a value"}
	}

	for idx := 0; idx < len(args); idx += 2 {
		flag, value := args[idx], args[idx+1]
		var target *string
		switch flag {
		case "-infile":
			target = &result.infile
		case "-outfile":
			target = &result.outfile
		default:
			return result, &usageError{msg: "unexpected argument " + flag}
		}
		if *target != "" {
			return result, &usageError{msg: flag + " given more than once"}
		}
		if value == "" {
			return result, &usageError{msg: flag + " requires a value"}
		}
		*target = value
	}
	return result, nil
}
