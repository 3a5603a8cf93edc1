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

// Package gallery serves chart type names and example code from a local
// checkout of the pyecharts gallery, one directory per chart type.
package gallery

import (
	"context"
	_ "embed"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/cloudwego/chartagent/llm/log"
)

//go:embed fallback.py
var fallbackExample string

// DefaultTypes is served when the gallery directory is missing or empty.
var DefaultTypes = []string{"Line", "Bar", "Pie", "Scatter"}

// Gallery lists chart types and example files under a root directory. The
// type list is cached and invalidated by a filesystem watcher, so repeated
// selections do not rescan the directory.
type Gallery struct {
	dir string

	mu    sync.RWMutex
	types []string // nil means not scanned yet
}

func New(dir string) *Gallery {
	return &Gallery{dir: dir}
}

// Dir returns the gallery root.
func (g *Gallery) Dir() string { return g.dir }

// Types lists all chart type directories, sorted, skipping hidden entries.
// When the directory cannot be read or holds no subdirectories, DefaultTypes
// is returned.
func (g *Gallery) Types() []string {
	g.mu.RLock()
	cached := g.types
	g.mu.RUnlock()
	if cached != nil {
		return cached
	}

	types := scanTypes(g.dir)
	g.mu.Lock()
	g.types = types
	g.mu.Unlock()
	return types
}

func scanTypes(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Error("read gallery %s: %v", dir, err)
		return DefaultTypes
	}
	var types []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			types = append(types, e.Name())
		}
	}
	if len(types) == 0 {
		return DefaultTypes
	}
	sort.Strings(types)
	return types
}

// Has reports whether name is a known chart type, matching case-insensitively,
// and returns the canonical name.
func (g *Gallery) Has(name string) (string, bool) {
	for _, t := range g.Types() {
		if strings.EqualFold(t, name) {
			return t, true
		}
	}
	return "", false
}

// Example returns example code for a chart type. Files whose names contain
// "basic", "simple" or "base" are preferred; otherwise the lexically first
// file is used. A built-in Line example covers types with no usable file.
func (g *Gallery) Example(chartType string) string {
	files, err := filepath.Glob(filepath.Join(g.dir, chartType, "*.py"))
	if err != nil || len(files) == 0 {
		log.Debug("no example files for %s, using built-in fallback", chartType)
		return fallbackExample
	}
	sort.Strings(files)

	for _, marker := range []string{"basic", "simple", "base"} {
		for _, f := range files {
			if strings.Contains(strings.ToLower(filepath.Base(f)), marker) {
				if code, err := os.ReadFile(f); err == nil {
					return string(code)
				}
			}
		}
	}
	if code, err := os.ReadFile(files[0]); err == nil {
		return string(code)
	}
	return fallbackExample
}

// Watch invalidates the cached type list whenever the gallery root changes.
// It returns after the watcher is installed and stops when ctx is done.
func (g *Gallery) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(g.dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				log.Debug("gallery changed (%s), invalidating type cache", ev.Name)
				g.mu.Lock()
				g.types = nil
				g.mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Error("gallery watcher: %v", err)
			}
		}
	}()
	return nil
}
