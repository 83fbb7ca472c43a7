package fixture

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vango-dev/cosmos/internal/errors"
)

// DefaultDebounce is how long a file must stay quiet before a change is reported.
const DefaultDebounce = 150 * time.Millisecond

// DirSource loads fixtures from files in a single directory.
type DirSource struct {
	dir      string
	debounce time.Duration
	logger   *slog.Logger
}

// DirOption configures a DirSource.
type DirOption func(*DirSource)

// WithDebounce sets the change debounce window used by Watch.
func WithDebounce(d time.Duration) DirOption {
	return func(s *DirSource) {
		s.debounce = d
	}
}

// WithLogger sets the logger used by Watch.
func WithLogger(logger *slog.Logger) DirOption {
	return func(s *DirSource) {
		s.logger = logger
	}
}

// NewDirSource creates a source reading fixtures from dir.
func NewDirSource(dir string, opts ...DirOption) *DirSource {
	s := &DirSource{
		dir:      dir,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the watched directory.
func (s *DirSource) Dir() string {
	return s.dir
}

// List implements Source.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.New("E203").WithSubject(s.dir).Wrap(err)
	}

	names := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsFixtureFile(e.Name()) {
			continue
		}
		name := NameFromPath(e.Name())
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load implements Source.
func (s *DirSource) Load(ctx context.Context, name string) (Named, error) {
	if err := ctx.Err(); err != nil {
		return Named{}, err
	}
	for _, ext := range Extensions {
		path := filepath.Join(s.dir, name+ext)
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return Named{}, errors.New("E203").WithSubject(path).Wrap(err)
		}
		return Decode(name, ext, data)
	}
	return Named{}, errors.New("E200").WithSubject(name)
}

// Watch reports the names of fixtures whose files change, until ctx is done.
// Rapid writes to the same file are coalesced into one call.
func (s *DirSource) Watch(ctx context.Context, onChange func(name string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.New("E203").WithSubject(s.dir).Wrap(err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.dir); err != nil {
		return errors.New("E203").WithSubject(s.dir).Wrap(err)
	}
	s.logger.Debug("watching fixtures", "dir", s.dir)

	pending := make(map[string]time.Time)

	tick := s.debounce / 2
	if tick <= 0 {
		tick = time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsFixtureFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			pending[NameFromPath(event.Name)] = time.Now()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("fixture watcher error", "dir", s.dir, "error", err)

		case <-ticker.C:
			now := time.Now()
			var settled []string
			for name, at := range pending {
				if now.Sub(at) >= s.debounce {
					settled = append(settled, name)
					delete(pending, name)
				}
			}

			sort.Strings(settled)
			for _, name := range settled {
				s.logger.Debug("fixture changed", "fixture", name)
				onChange(name)
			}
		}
	}
}
