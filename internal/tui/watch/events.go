package watch

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"github.com/mattjoyce/dagstat/internal/log"
	"github.com/mattjoyce/dagstat/internal/statusfile"
)

type fileChangedMsg struct{}

type reloadMsg struct{}

type loadedMsg struct {
	result *statusfile.Result
	err    error
}

type watchErrMsg struct{ err error }

// subscribeToFile starts an fsnotify watcher for the status file and feeds
// change notifications into ch. The parent directory is watched rather than
// the file itself so in-place rewrites and rename-over replacements both
// show up.
func subscribeToFile(path string, ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return watchErrMsg{err: err}
		}

		dir := filepath.Dir(path)
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return watchErrMsg{err: err}
		}

		logger := log.WithComponent("watch")
		base := filepath.Base(path)

		go func() {
			defer watcher.Close()
			for {
				select {
				case ev, ok := <-watcher.Events:
					if !ok {
						return
					}
					if filepath.Base(ev.Name) != base {
						continue
					}
					if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
						continue
					}
					logger.Debug("status file changed", "op", ev.Op.String())
					select {
					case ch <- struct{}{}:
					default:
						// A reload is already pending.
					}
				case err, ok := <-watcher.Errors:
					if !ok {
						return
					}
					logger.Warn("watcher error", "error", err)
				}
			}
		}()

		return nil
	}
}

// receiveNextChange blocks on the change channel and surfaces the next
// notification as a message.
func receiveNextChange(ch chan struct{}) tea.Cmd {
	return func() tea.Msg {
		<-ch
		return fileChangedMsg{}
	}
}

// loadFile parses the status file off the UI loop.
func loadFile(path string) tea.Cmd {
	return func() tea.Msg {
		result, err := statusfile.ParseFile(path)
		return loadedMsg{result: result, err: err}
	}
}
