// Copyright 2025 ByteDance Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package datagen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field is one named column of a synthesized dataset.
type Field struct {
	Name   string
	Values []interface{}
}

// Dataset is a set of parallel arrays keyed by field name. Field order
// follows the JSON object the model emitted; the code generator's fallback
// treats the first field as the x-axis and the second as the y-axis, so
// order must survive parsing.
type Dataset struct {
	Fields []Field
}

// ParseDataset decodes a JSON object into a Dataset, preserving key order.
// Scalar values are kept as single-element columns.
func ParseDataset(raw string) (*Dataset, error) {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid dataset JSON: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("dataset JSON must be an object, got %v", tok)
	}

	ds := &Dataset{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("invalid dataset JSON: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected key token %v", keyTok)
		}
		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("invalid value for field %q: %w", key, err)
		}
		ds.Fields = append(ds.Fields, Field{Name: key, Values: asColumn(value)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("invalid dataset JSON: %w", err)
	}
	if len(ds.Fields) == 0 {
		return nil, fmt.Errorf("dataset JSON has no fields")
	}
	return ds, nil
}

func asColumn(value interface{}) []interface{} {
	if arr, ok := value.([]interface{}); ok {
		return arr
	}
	return []interface{}{value}
}

// MarshalJSON re-serializes the dataset as a JSON object in field order.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range d.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(f.Name)
		if err != nil {
			return nil, err
		}
		values, err := json.Marshal(f.Values)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(values)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// PrettyJSON renders the dataset indented, for prompts and the saved
// data_<timestamp>.json reference file.
func (d *Dataset) PrettyJSON() ([]byte, error) {
	raw, err := d.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// XY returns the fields used for the two chart axes: the first field for x
// and the second for y (the first again when only one exists). Empty
// datasets yield a small placeholder series.
func (d *Dataset) XY() (Field, Field) {
	if d == nil || len(d.Fields) == 0 {
		return Field{Name: "x", Values: []interface{}{"A", "B", "C"}},
			Field{Name: "y", Values: []interface{}{1, 2, 3}}
	}
	x := d.Fields[0]
	y := x
	if len(d.Fields) > 1 {
		y = d.Fields[1]
	}
	return x, y
}

// Points is the length of the longest column.
func (d *Dataset) Points() int {
	n := 0
	for _, f := range d.Fields {
		if len(f.Values) > n {
			n = len(f.Values)
		}
	}
	return n
}

// PyLiteral renders column values as a Python list literal for the fallback
// code template.
func (f Field) PyLiteral() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range f.Values {
		if i > 0 {
			b.WriteString(", ")
		}
		switch t := v.(type) {
		case string:
			fmt.Fprintf(&b, "%q", t)
		case json.Number:
			b.WriteString(t.String())
		default:
			fmt.Fprintf(&b, "%v", t)
		}
	}
	b.WriteByte(']')
	return b.String()
}
