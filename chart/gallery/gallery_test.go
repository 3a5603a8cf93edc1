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

package gallery

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newTestGallery(t *testing.T) *Gallery {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Line", "line_smooth.py"), "smooth line example")
	writeFile(t, filepath.Join(dir, "Line", "line_basic.py"), "basic line example")
	writeFile(t, filepath.Join(dir, "Bar", "stacked.py"), "stacked bar example")
	writeFile(t, filepath.Join(dir, "Pie", "README.md"), "not python")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return New(dir)
}

func TestTypesSkipsHiddenAndSorts(t *testing.T) {
	g := newTestGallery(t)
	assert.Equal(t, []string{"Bar", "Line", "Pie"}, g.Types())
}

func TestTypesFallbackWhenMissing(t *testing.T) {
	g := New(filepath.Join(t.TempDir(), "nope"))
	assert.Equal(t, DefaultTypes, g.Types())

	empty := New(t.TempDir())
	assert.Equal(t, DefaultTypes, empty.Types())
}

func TestHasIsCaseInsensitive(t *testing.T) {
	g := newTestGallery(t)
	canonical, ok := g.Has("line")
	assert.True(t, ok)
	assert.Equal(t, "Line", canonical)
	_, ok = g.Has("Sankey")
	assert.False(t, ok)
}

func TestExamplePrefersBasic(t *testing.T) {
	g := newTestGallery(t)
	assert.Equal(t, "basic line example", g.Example("Line"))
	assert.Equal(t, "stacked bar example", g.Example("Bar"))
}

func TestExampleFallsBackToBuiltin(t *testing.T) {
	g := newTestGallery(t)
	code := g.Example("Pie") // only non-python files
	assert.Contains(t, code, "from pyecharts")
	assert.Contains(t, code, ".render(")
}

func TestWatchInvalidatesCache(t *testing.T) {
	g := newTestGallery(t)
	require.Equal(t, []string{"Bar", "Line", "Pie"}, g.Types())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, g.Watch(ctx))

	require.NoError(t, os.MkdirAll(filepath.Join(g.Dir(), "Radar"), 0o755))
	assert.Eventually(t, func() bool {
		types := g.Types()
		for _, typ := range types {
			if typ == "Radar" {
				return true
			}
		}
		return false
	}, 3*time.Second, 50*time.Millisecond)
}

type generatorFunc func(ctx context.Context, system, user string) (string, error)

func (f generatorFunc) Call(ctx context.Context, system, user string) (string, error) {
	return f(ctx, system, user)
}

func TestSelectHintWins(t *testing.T) {
	g := newTestGallery(t)
	s := NewSelector(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		t.Fatal("model must not be called when the hint is valid")
		return "", nil
	}), g)

	typ, reason := s.Select(context.Background(), "monthly sales", "bar")
	assert.Equal(t, "Bar", typ)
	assert.Equal(t, "requested by user", reason)
}

func TestSelectModelReply(t *testing.T) {
	g := newTestGallery(t)
	s := NewSelector(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		assert.Contains(t, user, "Bar, Line, Pie")
		return "  Pie\n", nil
	}), g)

	typ, reason := s.Select(context.Background(), "market share split", "")
	assert.Equal(t, "Pie", typ)
	assert.Equal(t, "model selection", reason)
}

func TestSelectUnknownModelReplyDefaultsToLine(t *testing.T) {
	g := newTestGallery(t)
	s := NewSelector(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		return "Nightingale Rose", nil
	}), g)

	typ, _ := s.Select(context.Background(), "whatever", "")
	assert.Equal(t, "Line", typ)
}

func TestSelectKeywordFallbackOnModelError(t *testing.T) {
	g := newTestGallery(t)
	s := NewSelector(generatorFunc(func(ctx context.Context, system, user string) (string, error) {
		return "", errors.New("api down")
	}), g)

	typ, reason := s.Select(context.Background(), "compare revenue by region", "")
	assert.Equal(t, "Bar", typ)
	assert.Equal(t, "keyword match", reason)

	typ, _ = s.Select(context.Background(), "something unmatchable", "")
	assert.Equal(t, "Line", typ)
}

func TestMatchKeywordsOrder(t *testing.T) {
	types := []string{"Bar", "Line", "Pie", "Scatter", "Heatmap"}
	assert.Equal(t, "Line", matchKeywords("show a LINE of numbers", types))
	assert.Equal(t, "Heatmap", matchKeywords("heat of the city", types))
	assert.Equal(t, "Line", matchKeywords("nothing matches here at all", types))
}
