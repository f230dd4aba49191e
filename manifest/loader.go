package manifest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/ggoodman/mcp-registry-go/internal/logctx"
	"github.com/ggoodman/mcp-registry-go/registry"
)

// Loader discovers capabilities from a manifest file into a registry. The
// registry's DiscoveryState remembers which file and content digest were
// last applied, so reloading an unchanged file does nothing.
type Loader struct {
	Registry registry.Registry
	Logger   *slog.Logger

	// Now overrides the clock used for DiscoveredAt. Defaults to time.Now.
	Now func() time.Time
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return slog.Default()
}

func (l *Loader) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Load applies the manifest at path. When the file's content differs from
// what was last discovered, the registry is cleared and repopulated from it.
// It reports whether the registry changed. A file that fails to parse leaves
// the registry untouched.
func (l *Loader) Load(ctx context.Context, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read manifest: %w", err)
	}
	sum := sha256.Sum256(data)
	digest := hex.EncodeToString(sum[:])

	ctx = logctx.WithManifestData(ctx, &logctx.ManifestData{Path: path, Digest: digest})
	log := l.logger()

	prev := l.Registry.DiscoveryState()
	if prev.Source == path && prev.Digest == digest {
		log.DebugContext(ctx, "manifest: unchanged")
		return false, nil
	}

	m, err := Parse(data)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}

	l.Registry.Clear()
	st := m.Register(l.Registry)
	st.Source = path
	st.Digest = digest
	st.DiscoveredAt = l.now().UTC()
	l.Registry.SetDiscoveryState(st)

	log.InfoContext(ctx, "manifest: discovered",
		slog.Int("tools", len(st.Tools)),
		slog.Int("prompts", len(st.Prompts)),
		slog.Int("resources", len(st.Resources)),
		slog.Int("resource_templates", len(st.ResourceTemplates)),
	)
	return true, nil
}

// Watch reloads path whenever it is written, created or renamed into place,
// calling onChange after each reload that changed the registry. It blocks
// until ctx is done. Reload failures are logged and the previous registry
// contents are kept.
func (l *Loader) Watch(ctx context.Context, path string, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("manifest watcher: %w", err)
	}
	defer func() {
		_ = w.Close()
	}()

	// Editors commonly replace files via rename, which drops a watch on the
	// file itself; watch the directory instead.
	target := filepath.Clean(path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	log := l.logger()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			changed, err := l.Load(ctx, path)
			if err != nil {
				log.WarnContext(ctx, "manifest: reload failed", slog.String("err", err.Error()))
				continue
			}
			if changed && onChange != nil {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.DebugContext(ctx, "manifest: watcher error", slog.String("err", err.Error()))
		}
	}
}
