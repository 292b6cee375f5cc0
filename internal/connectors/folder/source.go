package folder

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/dbgm/internal/core/domain"
	"github.com/custodia-labs/dbgm/internal/core/erased"
	"github.com/custodia-labs/dbgm/internal/core/ports/driven"
	"github.com/custodia-labs/dbgm/internal/logger"
)

// Ensure Source implements the interface.
var _ driven.Source[FileKey, *File, *ScanError] = (*Source)(nil)

var log = logger.New("folder")

// Change is a change event reported by a folder source.
type Change = driven.TypedChange[FileKey, *ScanError]

// Options configures a folder source.
type Options struct {
	// Name is the display name. Defaults to the folder's base name.
	Name string

	// Patterns select originals by path relative to the folder.
	// Defaults to domain.DefaultImagePatterns.
	Patterns []string

	// IncludeHidden includes dot-files and files in dot-directories.
	IncludeHidden bool

	// MinScanInterval is the minimum time between two walks. Zero disables
	// rate limiting.
	MinScanInterval time.Duration

	// Watch skips walks while no filesystem notification arrived.
	Watch bool

	// Cache stores image dimensions across runs. May be nil.
	Cache driven.DimensionCache
}

// OptionsFromSettings converts folder settings to source options.
func OptionsFromSettings(s domain.FolderSettings, cache driven.DimensionCache) Options {
	return Options{
		Patterns:        slices.Clone(s.Patterns),
		IncludeHidden:   s.IncludeHidden,
		MinScanInterval: s.MinScanInterval,
		Watch:           s.Watch,
		Cache:           cache,
	}
}

// entry is the remembered state of a discovered file.
type entry struct {
	key         FileKey
	unavailable bool
}

// Source is a folder of images. It is not safe for concurrent use, apart
// from its internal watcher goroutine.
type Source struct {
	root    string
	name    string
	opts    Options
	known   map[string]*entry
	limiter *rate.Limiter
	scanned bool

	watcher *fsnotify.Watcher
	dirty   atomic.Bool
	wg      sync.WaitGroup
}

// New creates a folder source rooted at root. The folder does not need to
// exist yet; its originals are discovered on the first Reload.
func New(root string, opts Options) (*Source, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: folder %q: %v", domain.ErrInvalidInput, root, err)
	}

	if len(opts.Patterns) == 0 {
		opts.Patterns = domain.DefaultImagePatterns()
	}
	for _, p := range opts.Patterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad pattern %q", domain.ErrInvalidInput, p)
		}
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(abs)
	}

	limit := rate.Inf
	if opts.MinScanInterval > 0 {
		limit = rate.Every(opts.MinScanInterval)
	}

	return &Source{
		root:    abs,
		name:    name,
		opts:    opts,
		known:   make(map[string]*entry),
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Erased returns the source in the form a catalog holds.
func (s *Source) Erased() driven.ErasedSource {
	return erased.Erase[FileKey, *File, *ScanError](s)
}

// Name returns the source display name.
func (s *Source) Name() string {
	return s.name
}

// Root returns the absolute folder path.
func (s *Source) Root() string {
	return s.root
}

// Original returns the remembered file for key.
func (s *Source) Original(key FileKey) (*File, domain.Lookup) {
	e, ok := s.known[key.Path]
	if !ok {
		return nil, domain.LookupNotFound
	}
	f := &File{path: e.key.Path, cache: s.opts.Cache}
	if e.key.CompareKey(key) != domain.SameOriginal {
		return f, domain.LookupContentMismatch
	}
	return f, domain.LookupOriginal
}

// Reload walks the folder, unless debouncing says nothing can have changed,
// and reports every file whose state changed since the previous walk.
func (s *Source) Reload() []Change {
	if !s.shouldScan() {
		return nil
	}
	s.scanned = true
	s.dirty.Store(false)

	if s.opts.Watch && s.watcher == nil {
		s.startWatcher()
	}

	changes := s.scan()
	if len(changes) > 0 {
		log.Debug("%s: %d changes", s.root, len(changes))
	}
	return changes
}

func (s *Source) shouldScan() bool {
	if !s.scanned {
		s.limiter.Allow()
		return true
	}
	if s.watcher != nil && !s.dirty.Load() {
		log.Debug("%s unchanged, skipping scan", s.root)
		return false
	}
	if !s.limiter.Allow() {
		log.Debug("%s scanned recently, skipping scan", s.root)
		return false
	}
	return true
}

// scan walks the folder and diffs the result against remembered state.
func (s *Source) scan() []Change {
	info, err := os.Stat(s.root)
	if err == nil && !info.IsDir() {
		err = errors.New("not a directory")
	}
	if err != nil {
		return s.rootUnavailable(err)
	}

	seen := make(map[string]FileKey)
	failed := make(map[string]error)

	walkErr := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			failed[path] = err
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if path != s.root {
			rel, _ := filepath.Rel(s.root, path)
			if !s.opts.IncludeHidden && isHidden(rel) {
				if d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if !d.IsDir() && !s.matches(rel) {
				return nil
			}
		}

		if d.IsDir() {
			s.watchDir(path)
			return nil
		}

		info, err := os.Stat(path)
		if err != nil {
			failed[path] = err
			return nil
		}
		if info.Mode().IsRegular() {
			seen[path] = keyFromInfo(path, info)
		}
		return nil
	})
	if walkErr != nil {
		return s.rootUnavailable(walkErr)
	}

	var changes []Change

	for _, path := range slices.Sorted(maps.Keys(seen)) {
		key := seen[path]
		old, ok := s.known[path]
		switch {
		case !ok:
			changes = append(changes, Change{Key: key, Kind: domain.ChangeNew})
		case old.unavailable || old.key.CompareKey(key) != domain.SameOriginal:
			changes = append(changes, Change{Key: key, Kind: domain.ChangeAltered})
		}
		s.known[path] = &entry{key: key}
	}

	for _, path := range slices.Sorted(maps.Keys(s.known)) {
		if _, ok := seen[path]; ok {
			continue
		}
		e := s.known[path]
		if err := failureFor(path, failed); err != nil {
			if !e.unavailable {
				e.unavailable = true
				changes = append(changes, Change{
					Key:  e.key,
					Kind: domain.ChangeUnavailable,
					Err:  &ScanError{Path: path, Op: "stat", Err: err},
				})
			}
			continue
		}
		delete(s.known, path)
		changes = append(changes, Change{Key: e.key, Kind: domain.ChangeDeleted})
	}

	return changes
}

// rootUnavailable reports every known file unavailable once. Remembered
// state is kept so files come back as Altered or Deleted later.
func (s *Source) rootUnavailable(err error) []Change {
	log.Warn("%s is unavailable: %v", s.root, err)
	s.stopWatcher()

	var changes []Change
	for _, path := range slices.Sorted(maps.Keys(s.known)) {
		e := s.known[path]
		if e.unavailable {
			continue
		}
		e.unavailable = true
		changes = append(changes, Change{
			Key:  e.key,
			Kind: domain.ChangeUnavailable,
			Err:  &ScanError{Path: s.root, Op: "open", Err: err},
		})
	}
	return changes
}

// failureFor returns the error that hid path during a walk, if any.
func failureFor(path string, failed map[string]error) error {
	if err, ok := failed[path]; ok {
		return err
	}
	for dir, err := range failed {
		if strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return err
		}
	}
	return nil
}

// matches reports whether rel, relative to the root, matches any pattern.
func (s *Source) matches(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range s.opts.Patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func (s *Source) startWatcher() {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn("%s: cannot watch: %v", s.root, err)
		return
	}
	if err := w.Add(s.root); err != nil {
		log.Debug("%s: cannot watch yet: %v", s.root, err)
		_ = w.Close()
		return
	}
	s.watcher = w
	s.wg.Add(1)
	go s.watchLoop(w)
}

func (s *Source) stopWatcher() {
	if s.watcher == nil {
		return
	}
	_ = s.watcher.Close()
	s.watcher = nil
	s.wg.Wait()
}

func (s *Source) watchDir(path string) {
	if s.watcher == nil || path == s.root {
		return
	}
	if err := s.watcher.Add(path); err != nil {
		log.Debug("%s: cannot watch %s: %v", s.root, path, err)
	}
}

func (s *Source) watchLoop(w *fsnotify.Watcher) {
	defer s.wg.Done()
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			s.handleFsEvent(event)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			log.Warn("%s: watcher error: %v", s.root, err)
			s.dirty.Store(true)
		}
	}
}

// handleFsEvent marks the folder dirty unless the event concerns a hidden
// path that scans ignore. It reports whether the folder was marked.
func (s *Source) handleFsEvent(event fsnotify.Event) bool {
	rel, err := filepath.Rel(s.root, event.Name)
	if err == nil && !s.opts.IncludeHidden && isHidden(rel) {
		return false
	}
	s.dirty.Store(true)
	return true
}

// Close stops watching the folder.
func (s *Source) Close() error {
	s.stopWatcher()
	return nil
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if len(part) > 1 && part[0] == '.' && part != ".." {
			return true
		}
	}
	return false
}

