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

package classads

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// ClassAd is a flat attribute list.  Attributes are kept in insertion
// order so that serialized ads are stable; HTCondor does not care about
// the order but humans reading plugin output (and the capability ad
// consumers) do.
type ClassAd struct {
	attributes map[string]interface{}
	order      []string
}

// ParseError is returned when a ClassAd cannot be decoded.
type ParseError struct {
	Line string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Line == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Line)
}

func (e *ParseError) Kind() string {
	return "ClassAdParseError"
}

func NewClassAd() *ClassAd {
	return &ClassAd{
		attributes: make(map[string]interface{}),
	}
}

// Get returns the value of the attribute with the given name.
func (c *ClassAd) Get(name string) (interface{}, error) {
	if c.attributes == nil {
		return nil, nil
	} else if value, ok := c.attributes[name]; ok {
		return value, nil
	} else {
		return nil, nil
	}
}

// Has reports whether the attribute is present in the ad.
func (c *ClassAd) Has(name string) bool {
	if c.attributes == nil {
		return false
	}
	_, ok := c.attributes[name]
	return ok
}

// GetString returns the named attribute as a string.  Non-string
// values are an error; a missing attribute returns ok == false.
func (c *ClassAd) GetString(name string) (value string, ok bool, err error) {
	raw, _ := c.Get(name)
	if raw == nil {
		return "", false, nil
	}
	str, isStr := raw.(string)
	if !isStr {
		return "", true, fmt.Errorf("attribute %s is not a string (got %T)", name, raw)
	}
	return str, true, nil
}

// GetBool interprets the named attribute as a boolean.  ClassAd
// booleans, integers (non-zero is true) and the strings "true", "yes"
// and "1" (any case) are accepted.
func (c *ClassAd) GetBool(name string) (value bool, ok bool, err error) {
	raw, _ := c.Get(name)
	switch v := raw.(type) {
	case nil:
		return false, false, nil
	case bool:
		return v, true, nil
	case int:
		return v != 0, true, nil
	case int64:
		return v != 0, true, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "yes", "1":
			return true, true, nil
		case "false", "no", "0", "":
			return false, true, nil
		}
	}
	return false, true, fmt.Errorf("attribute %s is not a boolean (got %v)", name, raw)
}

// GetInt returns the named attribute as an int64.
func (c *ClassAd) GetInt(name string) (value int64, ok bool, err error) {
	raw, _ := c.Get(name)
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case int:
		return int64(v), true, nil
	case int64:
		return v, true, nil
	}
	return 0, true, fmt.Errorf("attribute %s is not an integer (got %T)", name, raw)
}

func (c *ClassAd) Set(name string, value interface{}) {
	if c.attributes == nil {
		c.attributes = make(map[string]interface{})
	}
	if _, exists := c.attributes[name]; !exists {
		c.order = append(c.order, name)
	}
	c.attributes[name] = value
}

// Names returns the attribute names in insertion order.
func (c *ClassAd) Names() []string {
	names := make([]string, len(c.order))
	copy(names, c.order)
	return names
}

// String returns the ad in the bracketed ("new") ClassAd form,
// e.g. `[Name = "value"; Count = 1; ]`.
func (c *ClassAd) String() string {
	var buffer bytes.Buffer
	buffer.WriteString("[")
	for _, name := range c.order {
		buffer.WriteString(name)
		buffer.WriteString(" = ")
		writeValue(&buffer, c.attributes[name])
		buffer.WriteString("; ")
	}
	buffer.WriteString("]")
	return buffer.String()
}

// OldString returns the ad in the legacy ClassAd form: one
// `Name = value` attribute per line, each terminated by a newline.
// This is the form HTCondor expects from the plugin's -classad query.
func (c *ClassAd) OldString() string {
	var buffer bytes.Buffer
	for _, name := range c.order {
		buffer.WriteString(name)
		buffer.WriteString(" = ")
		writeValue(&buffer, c.attributes[name])
		buffer.WriteString("\n")
	}
	return buffer.String()
}

func writeValue(buffer *bytes.Buffer, value interface{}) {
	switch v := value.(type) {
	case string:
		buffer.WriteString(strconv.QuoteToASCII(v))
	case bool:
		fmt.Fprintf(buffer, "%t", v)
	case float64:
		fmt.Fprintf(buffer, "%.3f", v)
	case time.Duration:
		// convert to seconds rounded to nearest millisecond, get 3 significant figures
		valueFloat := float64(v.Round(time.Millisecond).Milliseconds()) / 1000.0
		fmt.Fprintf(buffer, "%.3f", valueFloat)
	case map[string]interface{}:
		buffer.WriteString("[")
		for key, nested := range v {
			buffer.WriteString(key)
			buffer.WriteString(" = ")
			writeValue(buffer, nested)
			buffer.WriteString("; ")
		}
		buffer.WriteString("]")
	default:
		fmt.Fprintf(buffer, "%v", v)
	}
}

// ReadClassAd reads a sequence of ClassAds from the given reader.  Both
// the bracketed form (`[ a = 1; b = "x" ]`, one or more per line) and the
// legacy form (`a = 1` per line, ads separated by blank lines) are
// understood; the form is chosen from the first non-blank character.
func ReadClassAd(reader io.Reader) (ads []ClassAd, err error) {

	// Catch any panics and return an error instead
	defer func() {
		if r := recover(); r != nil {
			err = &ParseError{Msg: fmt.Sprintf("error reading classad: %v", r)}
		}
	}()

	buffered := bufio.NewReader(reader)
	for {
		next, peekErr := buffered.Peek(1)
		if peekErr != nil {
			// Empty (or all-whitespace) input
			return ads, nil
		}
		if next[0] == ' ' || next[0] == '\t' || next[0] == '\n' || next[0] == '\r' {
			if _, err := buffered.ReadByte(); err != nil {
				return nil, err
			}
			continue
		}
		if next[0] == '[' {
			return readBracketed(buffered)
		}
		return readOld(buffered)
	}
}

func readBracketed(reader io.Reader) (ads []ClassAd, err error) {
	scanner := bufio.NewScanner(reader)
	split := func(data []byte, atEOF bool) (advance int, token []byte, err error) {
		if atEOF && len(data) == 0 {
			return 0, nil, nil
		}

		// Watch out for brackets inside quotes
		insideQuotes := false
		for i, curChar := range data {
			if curChar == '"' && !(i > 0 && data[i-1] == '\\') {
				insideQuotes = !insideQuotes
			} else if curChar == ']' && !insideQuotes {
				return i + 1, data[0 : i+1], nil
			}
		}
		if atEOF {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	scanner.Split(split)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ad, err := ParseClassAd(line)
		if err != nil {
			return nil, err
		}
		ads = append(ads, ad)
	}
	if scanner.Err() != nil {
		return nil, scanner.Err()
	}
	return ads, nil
}

func readOld(reader io.Reader) (ads []ClassAd, err error) {
	scanner := bufio.NewScanner(reader)
	current := NewClassAd()
	flush := func() {
		if len(current.order) > 0 {
			ads = append(ads, *current)
			current = NewClassAd()
		}
	}
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			flush()
			continue
		}
		// Comments are allowed in hand-written ads
		if strings.HasPrefix(line, "#") {
			continue
		}
		name, value, err := parseAttribute(line)
		if err != nil {
			return nil, err
		}
		current.Set(name, value)
	}
	if scanner.Err() != nil {
		return nil, scanner.Err()
	}
	flush()
	return ads, nil
}

// ParseClassAd decodes a single bracketed ClassAd.
func ParseClassAd(line string) (ClassAd, error) {
	ad := *NewClassAd()

	// Trim the spaces and "[" "]"
	line = strings.TrimSpace(line)
	line = strings.TrimPrefix(line, "[")
	line = strings.TrimSuffix(line, "]")

	attributeScanner := bufio.NewScanner(strings.NewReader(line))
	attributeScanner.Split(attributeSplitFunc)
	for attributeScanner.Scan() {
		attrStr := strings.TrimSpace(attributeScanner.Text())
		if attrStr == "" {
			continue
		}
		name, value, err := parseAttribute(attrStr)
		if err != nil {
			return ClassAd{}, err
		}
		ad.Set(name, value)
	}
	if err := attributeScanner.Err(); err != nil {
		return ClassAd{}, &ParseError{Line: line, Msg: err.Error()}
	}
	return ad, nil
}

// parseAttribute splits `Name = value` and infers the value type.
func parseAttribute(attrStr string) (string, interface{}, error) {
	// Split on the first "="
	attrSplit := strings.SplitN(attrStr, "=", 2)
	if len(attrSplit) != 2 {
		return "", nil, &ParseError{Line: attrStr, Msg: "attribute is missing '='"}
	}
	name := strings.TrimSpace(attrSplit[0])
	if name == "" {
		return "", nil, &ParseError{Line: attrStr, Msg: "attribute has an empty name"}
	}
	value := strings.TrimSpace(attrSplit[1])

	// If the value is quotes, we know it's a string
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		if unquoted, err := strconv.Unquote(value); err == nil {
			return name, unquoted, nil
		}
		return name, strings.Trim(value, "\""), nil
	} else if intValue, err := strconv.Atoi(value); err == nil {
		return name, intValue, nil
	} else if strings.EqualFold(value, "true") || strings.EqualFold(value, "false") {
		return name, strings.EqualFold(value, "true"), nil
	} else if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
		return name, floatValue, nil
	}
	// Otherwise, we assume it's a string (an unevaluated expression)
	return name, value, nil
}

// Split the classad by attribute, at the first semi-colon not in quotes
func attributeSplitFunc(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}

	// Watch out for semi-colons inside quotes
	insideQuotes := false
	for i, curChar := range data {
		if curChar == '"' && !(i > 0 && data[i-1] == '\\') {
			insideQuotes = !insideQuotes
		} else if curChar == ';' && !insideQuotes {
			// Do not return the semi-colon
			// Trim any spaces
			return i + 1, bytes.TrimSpace(data[0:i]), nil
		}
	}
	if atEOF {
		return len(data), bytes.TrimSpace(data), nil
	}
	return 0, nil, nil
}
