package definition

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-anim/common/logger"
	"github.com/Carmen-Shannon/oxy-anim/engine/animation"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// MachineSuffix marks a definition file as a machine document. Other .yaml and .yml files are
// animation documents.
const MachineSuffix = ".machine"

// Reload describes one definition file change. Exactly one of Animation, Machine or Err is set,
// unless Removed is true.
type Reload struct {
	Path      string
	Animation *AnimationDocument
	Machine   *MachineDocument
	Removed   bool
	Err       error
}

// IsDefinition reports whether path names a definition file.
func IsDefinition(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// IsMachineDefinition reports whether path names a machine definition file.
func IsMachineDefinition(path string) bool {
	if !IsDefinition(path) {
		return false
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return strings.HasSuffix(strings.ToLower(stem), MachineSuffix)
}

// ReadDefinition decodes the definition file at path into a Reload.
func ReadDefinition(path string) Reload {
	r := Reload{Path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		r.Err = errors.Wrapf(err, "read definition %s", path)
		return r
	}
	if IsMachineDefinition(path) {
		doc, err := DecodeMachine(data)
		if err != nil {
			r.Err = errors.Wrap(err, path)
			return r
		}
		r.Machine = &doc
		return r
	}
	doc, err := DecodeAnimation(data)
	if err != nil {
		r.Err = errors.Wrap(err, path)
		return r
	}
	r.Animation = &doc
	return r
}

// Watcher reloads definition documents from a directory as they change on disk.
type Watcher struct {
	fsnotify *fsnotify.Watcher
	dir      string
	onReload func(Reload)
	done     chan struct{}
	wg       sync.WaitGroup
	once     sync.Once
}

// NewWatcher starts watching dir. onReload is called from the watcher goroutine for every
// created, written or removed definition file.
//
// Parameters:
//   - dir: the definitions directory
//   - onReload: the change callback
//
// Returns:
//   - *Watcher: the running watcher
//   - error: if the directory cannot be watched
func NewWatcher(dir string, onReload func(Reload)) (*Watcher, error) {
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	if err := fsWatch.Add(dir); err != nil {
		fsWatch.Close()
		return nil, errors.Wrapf(err, "watch %s", dir)
	}
	w := &Watcher{
		fsnotify: fsWatch,
		dir:      dir,
		onReload: onReload,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.start()
	return w, nil
}

// Dir returns the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Close stops the watcher and waits for its goroutine to exit. No callback runs after Close
// returns.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		w.wg.Wait()
		err = w.fsnotify.Close()
	})
	return err
}

func (w *Watcher) start() {
	defer w.wg.Done()
	for {
		select {
		case e, ok := <-w.fsnotify.Events:
			if !ok {
				return
			}
			if !IsDefinition(e.Name) {
				continue
			}
			switch {
			case e.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				logger.Debug("definition removed", "path", e.Name)
				w.deliver(Reload{Path: e.Name, Removed: true})
			case e.Op&(fsnotify.Create|fsnotify.Write) != 0:
				r := ReadDefinition(e.Name)
				if r.Err != nil {
					logger.Warn("definition reload failed", "path", e.Name, "err", r.Err)
				} else {
					logger.Debug("definition reloaded", "path", e.Name)
				}
				w.deliver(r)
			}
		case err, ok := <-w.fsnotify.Errors:
			if !ok {
				return
			}
			logger.Error("definition watcher", "err", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) deliver(r Reload) {
	select {
	case <-w.done:
		return
	default:
	}
	if w.onReload != nil {
		w.onReload(r)
	}
}

// LoadDir reads every animation definition in dir into a new container, then builds the machine
// definitions against it. Machines are keyed by file name without extensions.
//
// Parameters:
//   - dir: the definitions directory
//   - options: build settings
//
// Returns:
//   - *animation.Container: the loaded animations
//   - map[string]MachineDocument: the decoded machine documents
//   - error: the first read or decode failure, wrapped with its path
func LoadDir(dir string, options ...BuildOption) (*animation.Container, map[string]MachineDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "read definitions %s", dir)
	}
	animations := animation.NewContainer()
	machines := make(map[string]MachineDocument)
	for _, entry := range entries {
		if entry.IsDir() || !IsDefinition(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		r := ReadDefinition(path)
		switch {
		case r.Err != nil:
			return nil, nil, r.Err
		case r.Machine != nil:
			stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
			machines[stem[:len(stem)-len(MachineSuffix)]] = *r.Machine
		case r.Animation != nil:
			a, err := r.Animation.Build(options...)
			if err != nil {
				return nil, nil, errors.Wrap(err, path)
			}
			animations.Add(a)
		}
	}
	return animations, machines, nil
}
