package gen

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer materializes generated artifacts under the target directory. Go
// files are run through goimports before writing so import blocks stay
// canonical, and every file lands via a uniquely named temp file plus rename
// so concurrent readers never observe a half-written artifact.
type Writer struct {
	target string
	cache  *BuildCache
	log    *logrus.Logger
}

// NewWriter returns a writer rooted at the target directory.
func NewWriter(target string) *Writer {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return &Writer{target: target, log: log}
}

// WithCache attaches a build cache; unchanged artifacts are then skipped.
func (w *Writer) WithCache(c *BuildCache) *Writer {
	w.cache = c
	return w
}

// WithLogger attaches a logger for per-file debug output.
func (w *Writer) WithLogger(log *logrus.Logger) *Writer {
	if log != nil {
		w.log = log
	}
	return w
}

// WriteAll writes every file concurrently and returns the first failure.
func (w *Writer) WriteAll(ctx context.Context, files []File) error {
	grp, _ := errgroup.WithContext(ctx)
	for _, f := range files {
		f := f
		grp.Go(func() error {
			return w.write(f)
		})
	}
	return grp.Wait()
}

func (w *Writer) write(f File) error {
	content := f.Content
	if strings.HasSuffix(f.Name, ".go") {
		formatted, err := imports.Process(f.Name, content, nil)
		if err != nil {
			return NewGenerationError(PhaseWrite, "", "format "+f.Name, err)
		}
		content = formatted
	}

	dest := filepath.Join(w.target, filepath.FromSlash(f.Name))
	if w.cache != nil && w.cache.UpToDate(f.Name, content) {
		if _, err := os.Stat(dest); err == nil {
			w.log.WithField("file", f.Name).Debug("unchanged, skipped")
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return NewGenerationError(PhaseWrite, "", "create directory for "+f.Name, err)
	}
	tmp := dest + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return NewGenerationError(PhaseWrite, "", "write "+f.Name, err)
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return NewGenerationError(PhaseWrite, "", "write "+f.Name, err)
	}
	if w.cache != nil {
		w.cache.Record(f.Name, content)
	}
	w.log.WithFields(logrus.Fields{"file": f.Name, "bytes": len(content)}).Debug("artifact written")
	return nil
}
