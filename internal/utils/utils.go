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

package utils

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// WrapError annotates err with msg, keeping the original cause chain.
func WrapError(err error, msg string) error {
	return errors.Wrap(err, msg)
}

// WrapErrorf annotates err with a formatted message.
func WrapErrorf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// MarshalJSONBytes marshals v to JSON.
func MarshalJSONBytes(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

// MustWriteFile writes data to path, creating parent directories as needed.
func MustWriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "create directory %s", dir)
		}
	}
	return os.WriteFile(path, data, 0644)
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}
