package main_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/fwojciec/doctext"
	main "github.com/fwojciec/doctext/cmd/doctext"
	"github.com/fwojciec/doctext/fs"
	"github.com/fwojciec/doctext/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "doctext")
	assert.Contains(t, stdout.String(), "--depth")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	assert.Error(t, err)
}

func TestMain_Run_RejectsInvalidOrigin(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{"ftp://docs.example", "-o", t.TempDir()}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestMain_Run_RejectsNegativeDepth(t *testing.T) {
	t.Parallel()

	for _, depth := range []string{"-1", "-2"} {
		t.Run("depth "+depth, func(t *testing.T) {
			t.Parallel()

			m := main.NewMain()
			var stdout, stderr bytes.Buffer

			err := m.Run(context.Background(), []string{"https://docs.example", "-o", t.TempDir(), "--depth=" + depth}, &stdout, &stderr)

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid configuration")
		})
	}
}

func TestCLI_Overlay_Depth(t *testing.T) {
	t.Parallel()

	t.Run("leaves depth unset when the flag is absent", func(t *testing.T) {
		t.Parallel()

		over := (&main.CLI{Origin: "https://docs.example"}).Overlay()

		assert.Nil(t, over.Depth)
	})

	t.Run("keeps an explicit zero depth", func(t *testing.T) {
		t.Parallel()

		depth := 0
		over := (&main.CLI{Origin: "https://docs.example", Depth: &depth}).Overlay()

		require.NotNil(t, over.Depth)
		assert.Equal(t, 0, *over.Depth)
	})
}

func TestMain_Run_RejectsMissingConfigFile(t *testing.T) {
	t.Parallel()

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{
		"https://docs.example",
		"--config", filepath.Join(t.TempDir(), "missing.yaml"),
	}, &stdout, &stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestMain_Run_FailsWhenOutputRootCannotBeCreated(t *testing.T) {
	t.Parallel()

	srv := newDocsServer(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{srv.URL, "-o", filepath.Join(blocker, "docs")}, &stdout, &stderr)

	require.Error(t, err)
	assert.Equal(t, doctext.EFILESYSTEM, doctext.ErrorCode(err))
	assert.Zero(t, srv.hits())
}

func TestMain_Run_CrawlsSite(t *testing.T) {
	t.Parallel()

	t.Run("writes one artifact per in-origin page plus index and metadata", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		out := filepath.Join(t.TempDir(), "docs")

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{srv.URL, "-o", out, "-d", "1"}, &stdout, &stderr)

		require.NoError(t, err)
		for _, rel := range []string{"pages/index.txt", "pages/guide.txt", "pages/api.txt"} {
			assert.FileExists(t, filepath.Join(out, rel))
		}
		assert.NoFileExists(t, filepath.Join(out, "pages/guide/deep.txt"), "depth 2 is beyond the bound")

		guide, err := os.ReadFile(filepath.Join(out, "pages", "guide.txt"))
		require.NoError(t, err)
		assert.Equal(t, "# Guide\n\nRead this first.\n\n- Install\n", string(guide))

		index, err := os.ReadFile(filepath.Join(out, fs.IndexFile))
		require.NoError(t, err)
		assert.Contains(t, string(index), "Pages: 3")

		run, err := fs.ReadMetadata(out)
		require.NoError(t, err)
		assert.Equal(t, 3, run.Fetched)
		assert.Equal(t, 2, run.Ignored, "fragment and external links")
		assert.Contains(t, stdout.String(), "Saved 3 pages")
	})

	t.Run("records the run in the ledger", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		dir := t.TempDir()
		dbPath := filepath.Join(dir, "runs.db")

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{
			srv.URL, "-o", filepath.Join(dir, "docs"), "--depth", "2", "--db", dbPath,
		}, &stdout, &stderr)
		require.NoError(t, err)

		run, err := fs.ReadMetadata(filepath.Join(dir, "docs"))
		require.NoError(t, err)

		db := sqlite.NewDB(dbPath)
		require.NoError(t, db.Open())
		defer db.Close()

		stored, err := sqlite.NewRunLedger(db).FindRunByID(context.Background(), run.ID)
		require.NoError(t, err)
		assert.Equal(t, run.Fetched, stored.Fetched)
		assert.Len(t, stored.Artifacts, 4)
	})

	t.Run("reads settings from a config file", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)
		dir := t.TempDir()
		out := filepath.Join(dir, "docs")
		cfgPath := filepath.Join(dir, "doctext.yaml")
		require.NoError(t, os.WriteFile(cfgPath, []byte(
			"origin: "+srv.URL+"\noutput: "+out+"\ndepth: 0\nformat: markdown\n",
		), 0644))

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{"--config", cfgPath}, &stdout, &stderr)

		require.NoError(t, err)
		entries, err := os.ReadDir(filepath.Join(out, fs.PagesDir))
		require.NoError(t, err)
		require.Len(t, entries, 1)

		index, err := os.ReadFile(filepath.Join(out, fs.PagesDir, "index.txt"))
		require.NoError(t, err)
		assert.Contains(t, string(index), "# Home")
		assert.Contains(t, string(index), "Welcome.")
	})

	t.Run("fetches each page once with several workers", func(t *testing.T) {
		t.Parallel()

		srv := newDocsServer(t)

		m := main.NewMain()
		var stdout, stderr bytes.Buffer

		err := m.Run(context.Background(), []string{srv.URL, "-o", t.TempDir(), "-c", "4"}, &stdout, &stderr)

		require.NoError(t, err)
		for path, n := range srv.counts() {
			assert.Equal(t, 1, n, "%s fetched %d times", path, n)
		}
	})
}

func TestMain_Run_KeepsURLVariantsInSeparateArtifacts(t *testing.T) {
	t.Parallel()

	pages := map[string]string{
		"/":        `<html><body><main><h1>Home</h1><a href="/api?v=1">v1</a><a href="/api?v=2">v2</a><a href="/guide">Guide</a><a href="/guide/">Guide index</a></main></body></html>`,
		"/api?v=1": `<html><body><main><h1>API</h1><p>version 1</p></main></body></html>`,
		"/api?v=2": `<html><body><main><h1>API</h1><p>version 2</p></main></body></html>`,
		"/guide":   `<html><body><main><h1>Guide</h1><p>page</p></main></body></html>`,
		"/guide/":  `<html><body><main><h1>Guide</h1><p>directory</p></main></body></html>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	out := t.TempDir()
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	err := m.Run(context.Background(), []string{srv.URL, "-o", out, "-d", "1", "-c", "4"}, &stdout, &stderr)
	require.NoError(t, err)

	run, err := fs.ReadMetadata(out)
	require.NoError(t, err)
	require.Len(t, run.Artifacts, 5)

	paths := make(map[string]bool)
	for _, a := range run.Artifacts {
		assert.False(t, paths[a.Path], "%s written twice", a.Path)
		paths[a.Path] = true
		assert.FileExists(t, filepath.Join(out, filepath.FromSlash(a.Path)))
	}

	for rel, want := range map[string]string{
		"pages/api_v_1.txt":     "version 1",
		"pages/api_v_2.txt":     "version 2",
		"pages/guide.txt":       "page",
		"pages/guide/index.txt": "directory",
	} {
		content, err := os.ReadFile(filepath.Join(out, filepath.FromSlash(rel)))
		require.NoError(t, err, rel)
		assert.Contains(t, string(content), want, rel)
	}
}

// docsServer serves a small documentation site and counts requests.
type docsServer struct {
	*httptest.Server
	mu   sync.Mutex
	seen map[string]int
}

func (s *docsServer) hits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.seen {
		n += c
	}
	return n
}

func (s *docsServer) counts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]int, len(s.seen))
	for k, v := range s.seen {
		out[k] = v
	}
	return out
}

func newDocsServer(t *testing.T) *docsServer {
	t.Helper()

	pages := map[string]string{
		"/": `<html><head><title>Home</title></head><body>
<nav><a href="/guide">Guide</a></nav>
<main><h1>Home</h1><p>Welcome.</p>
<a href="/api">API</a> <a href="#top">Top</a>
<a href="https://external.example/">External</a></main></body></html>`,
		"/guide": `<html><body><main><h1>Guide</h1><p>Read this first.</p>
<ul><li>Install</li></ul><a href="/guide/deep">Deep</a><a href="/">Home</a></main></body></html>`,
		"/api":        `<html><body><main><h1>API</h1><p>Endpoints.</p><a href="/guide">Guide</a></main></body></html>`,
		"/guide/deep": `<html><body><main><h1>Deep</h1><p>Details.</p></main></body></html>`,
	}

	s := &docsServer{seen: make(map[string]int)}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.seen[r.URL.Path]++
		s.mu.Unlock()

		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(strings.TrimSpace(body)))
	}))
	t.Cleanup(s.Close)
	return s
}
