package compiler

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/syssam/gqlc/compiler/gen"
	"github.com/syssam/gqlc/compiler/load"
)

// watchDebounce coalesces editor save bursts into one regeneration.
const watchDebounce = 250 * time.Millisecond

// Watch runs Generate once, then reruns it whenever a watched input file
// changes. It watches the project file's directory plus the static prefix of
// every schema and document pattern, and ignores events under the target
// directory so its own writes never retrigger it.
func Watch(ctx context.Context, cfgPath string, log *logrus.Logger, opts ...gen.Option) error {
	fileCfg, err := load.ReadConfig(cfgPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range collectWatchDirs(cfgPath, fileCfg) {
		if err := watcher.Add(dir); err != nil {
			return err
		}
		log.WithField("dir", dir).Debug("watching")
	}
	target := filepath.Clean(fileCfg.Target)

	run := func() {
		if err := Generate(ctx, cfgPath, opts...); err != nil {
			log.WithError(err).Error("generation failed")
			return
		}
		log.Info("generation complete")
	}
	run()

	timer := time.NewTimer(watchDebounce)
	if !timer.Stop() {
		<-timer.C
	}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			name := filepath.Clean(event.Name)
			if name == target || strings.HasPrefix(name, target+string(filepath.Separator)) {
				continue
			}
			log.WithFields(logrus.Fields{"file": event.Name, "op": event.Op.String()}).Debug("change detected")
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("watch error")
		case <-timer.C:
			run()
		}
	}
}

// collectWatchDirs derives the set of directories to watch: the project
// file's directory plus, for each glob pattern, the longest path prefix
// before the first glob metacharacter.
func collectWatchDirs(cfgPath string, cfg *load.FileConfig) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		dir = filepath.Clean(dir)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	add(filepath.Dir(cfgPath))
	for _, pattern := range append(append([]string{}, cfg.Schema...), cfg.Documents...) {
		add(staticPrefix(pattern))
	}
	return dirs
}

// staticPrefix returns the directory part of pattern up to (not including)
// the first segment containing a glob metacharacter.
func staticPrefix(pattern string) string {
	segments := strings.Split(filepath.ToSlash(pattern), "/")
	var static []string
	for i, seg := range segments {
		if strings.ContainsAny(seg, "*?[") {
			break
		}
		// The last segment names a file, not a directory.
		if i == len(segments)-1 {
			break
		}
		static = append(static, seg)
	}
	if len(static) == 0 {
		return "."
	}
	return strings.Join(static, string(filepath.Separator))
}
