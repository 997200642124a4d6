// Package fs provides file-based storage for crawl artifacts.
package fs

import (
	"context"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fwojciec/doctext"
	"gopkg.in/yaml.v3"
)

// Artifact layout under the output root.
const (
	PagesDir     = "pages"
	IndexFile    = "INDEX.txt"
	MetadataFile = "crawl.yaml"
)

// URLToPath converts an in-origin URL to a relative artifact path.
// Example: https://example.com/docs/api/users → docs/api/users.txt
//
// Distinct URLs get distinct paths wherever sanitizing allows it. A
// trailing slash names a directory whose artifact is index.txt, and the
// query string is kept as a "_"-joined suffix of the last segment. Runes
// outside [A-Za-z0-9._-] become "_", as do empty and dot segments. The
// fragment is ignored.
func URLToPath(origin doctext.Origin, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", doctext.Errorf(doctext.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !origin.Contains(u) {
		return "", doctext.Errorf(doctext.EINVALID, "URL %q is outside origin %s", rawURL, origin)
	}

	p := strings.TrimPrefix(u.Path, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		p += "index"
	}

	segments := strings.Split(p, "/")
	for i, seg := range segments {
		switch seg {
		case "", ".", "..":
			segments[i] = "_"
		default:
			segments[i] = sanitize(seg)
		}
	}

	last := len(segments) - 1
	if u.RawQuery != "" {
		segments[last] += "_" + sanitize(u.RawQuery)
	}
	if !strings.HasSuffix(segments[last], ".txt") {
		segments[last] += ".txt"
	}
	return strings.Join(segments, "/"), nil
}

// sanitize replaces every rune outside [A-Za-z0-9._-] with "_".
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '_' || r == '-':
			return r
		default:
			return '_'
		}
	}, s)
}

// Ensure Writer implements doctext.ArtifactWriter at compile time.
var _ doctext.ArtifactWriter = (*Writer)(nil)

// Writer writes page artifacts, the index and run metadata under a root
// directory. Every file is written to a temporary file in the target
// directory and renamed into place, so readers never see partial content.
//
// Within one run an artifact path belongs to the first URL saved to it.
// Saving a different URL that maps to the same path fails instead of
// overwriting. Prepare starts a new run.
type Writer struct {
	root   string
	origin doctext.Origin

	mu     sync.Mutex
	owners map[string]string // artifact path -> URL
}

// NewWriter creates a new Writer rooted at root for pages on origin.
func NewWriter(root string, origin doctext.Origin) *Writer {
	return &Writer{root: root, origin: origin, owners: make(map[string]string)}
}

// Root returns the output root directory.
func (w *Writer) Root() string {
	return w.root
}

// Prepare creates the output root and the pages directory and forgets
// the paths claimed by any previous run.
func (w *Writer) Prepare(ctx context.Context) error {
	w.mu.Lock()
	w.owners = make(map[string]string)
	w.mu.Unlock()

	if err := os.MkdirAll(filepath.Join(w.root, PagesDir), 0755); err != nil {
		return doctext.Errorf(doctext.EFILESYSTEM, "creating output root %s: %v", w.root, err)
	}
	return nil
}

// Save writes text to the artifact path for url and returns that path
// relative to the output root, using forward slashes.
func (w *Writer) Save(ctx context.Context, rawURL string, text string) (string, error) {
	relPath, err := URLToPath(w.origin, rawURL)
	if err != nil {
		return "", err
	}
	rel := path.Join(PagesDir, relPath)

	if err := w.claim(rel, rawURL); err != nil {
		return "", err
	}

	if err := writeAtomic(filepath.Join(w.root, filepath.FromSlash(rel)), []byte(text)); err != nil {
		w.release(rel, rawURL)
		return "", err
	}
	return rel, nil
}

// claim reserves rel for rawURL for the rest of the run.
func (w *Writer) claim(rel, rawURL string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if owner, ok := w.owners[rel]; ok && owner != rawURL {
		return doctext.Errorf(doctext.EFILESYSTEM, "artifact %s already holds %s", rel, owner)
	}
	w.owners[rel] = rawURL
	return nil
}

func (w *Writer) release(rel, rawURL string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.owners[rel] == rawURL {
		delete(w.owners, rel)
	}
}

// Finish writes INDEX.txt and crawl.yaml for run.
func (w *Writer) Finish(ctx context.Context, run *doctext.Run) error {
	if err := writeAtomic(filepath.Join(w.root, IndexFile), []byte(doctext.FormatIndex(run))); err != nil {
		return err
	}

	data, err := yaml.Marshal(run)
	if err != nil {
		return doctext.Errorf(doctext.EINTERNAL, "encoding run metadata: %v", err)
	}
	return writeAtomic(filepath.Join(w.root, MetadataFile), data)
}

// ReadMetadata loads the run metadata written by a previous Finish.
func ReadMetadata(root string) (*doctext.Run, error) {
	data, err := os.ReadFile(filepath.Join(root, MetadataFile))
	if os.IsNotExist(err) {
		return nil, doctext.Errorf(doctext.ENOTFOUND, "no crawl metadata in %s", root)
	} else if err != nil {
		return nil, doctext.Errorf(doctext.EFILESYSTEM, "reading crawl metadata: %v", err)
	}

	var run doctext.Run
	if err := yaml.Unmarshal(data, &run); err != nil {
		return nil, doctext.Errorf(doctext.EPARSE, "decoding crawl metadata: %v", err)
	}
	return &run, nil
}

// writeAtomic writes data to a temporary file next to dst and renames it
// over dst.
func writeAtomic(dst string, data []byte) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return doctext.Errorf(doctext.EFILESYSTEM, "creating %s: %v", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return doctext.Errorf(doctext.EFILESYSTEM, "creating temp file in %s: %v", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return doctext.Errorf(doctext.EFILESYSTEM, "writing %s: %v", dst, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return doctext.Errorf(doctext.EFILESYSTEM, "closing %s: %v", dst, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return doctext.Errorf(doctext.EFILESYSTEM, "chmod %s: %v", dst, err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		os.Remove(tmpName)
		return doctext.Errorf(doctext.EFILESYSTEM, "renaming into %s: %v", dst, err)
	}
	return nil
}
