package savefolder

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"steamidedit/logger"
	"steamidedit/types"
)

// Event is reported for every save the game (or anyone else) writes.
type Event struct {
	Path       string
	Folder     string
	Identifier types.Identifier
	Consistent bool // the folder is named after Identifier
	Err        error
}

type Watcher interface {
	Start(events chan<- Event) error
	Stop()
}

// NewWatcher watches root and its account folders. A save is only looked at
// once it has been left alone for delay, since the game writes in bursts.
func NewWatcher(root string, delay time.Duration) Watcher {
	return &dir_watcher{root: root, delay: delay}
}

type dir_watcher struct {
	root  string
	delay time.Duration

	watcher *fsnotify.Watcher
	done    chan struct{}

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func (dw *dir_watcher) Start(events chan<- Event) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dw.root); err != nil {
		watcher.Close()
		return err
	}

	accounts, err := List(dw.root)
	if err != nil {
		watcher.Close()
		return err
	}
	for _, a := range accounts {
		if err := watcher.Add(a.Dir); err != nil {
			watcher.Close()
			return err
		}
	}

	dw.watcher = watcher
	dw.done = make(chan struct{})
	dw.pending = map[string]*time.Timer{}

	go dw.loop(watcher, events)
	return nil
}

func (dw *dir_watcher) loop(w *fsnotify.Watcher, events chan<- Event) {
	for {
		select {
		case event, ok := <-w.Events:
			if !ok {
				return
			}
			dw.handle_event(w, event, events)
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Logger.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (dw *dir_watcher) handle_event(w *fsnotify.Watcher, event fsnotify.Event, events chan<- Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	// A new account folder (or one just renamed into place) needs watching too
	if event.Has(fsnotify.Create) && filepath.Dir(event.Name) == filepath.Clean(dw.root) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() && types.IsIdentifier(info.Name()) {
			if err := w.Add(event.Name); err != nil {
				logger.Logger.Warn().Err(err).Str("folder", event.Name).Msg("failed to watch folder")
			} else {
				logger.Logger.Debug().Str("folder", event.Name).Msg("watching new folder")
			}
		}
		return
	}

	if is_save(event.Name) {
		dw.schedule(event.Name, events)
	}
}

// schedule (re)starts the quiet-period timer for path.
func (dw *dir_watcher) schedule(path string, events chan<- Event) {
	dw.mu.Lock()
	defer dw.mu.Unlock()

	if t, ok := dw.pending[path]; ok {
		t.Reset(dw.delay)
		return
	}
	dw.pending[path] = time.AfterFunc(dw.delay, func() {
		dw.mu.Lock()
		delete(dw.pending, path)
		dw.mu.Unlock()

		ev := inspect(path)
		select {
		case events <- ev:
		case <-dw.done:
		}
	})
}

func inspect(path string) Event {
	ev := Event{Path: path, Folder: filepath.Base(filepath.Dir(path))}
	ev.Identifier, _, ev.Err = scan(path)
	ev.Consistent = ev.Err == nil && ev.Identifier.String() == ev.Folder
	return ev
}

func (dw *dir_watcher) Stop() {
	if dw.watcher == nil {
		return
	}
	dw.mu.Lock()
	for path, t := range dw.pending {
		t.Stop()
		delete(dw.pending, path)
	}
	dw.mu.Unlock()

	close(dw.done)
	dw.watcher.Close()
	dw.watcher = nil
}
