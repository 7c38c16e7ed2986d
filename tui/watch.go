// ABOUTME: Folder watching for live playlist rescans
// ABOUTME: Uses fsnotify to detect files added, removed or renamed in the open folder

package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// watchFolder points the watcher at dir, replacing any previous watch.
// Watching is best effort: when it cannot be set up the player still
// works, rescans just need a folder re-open.
func (m *model) watchFolder(dir string) {
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		m.debugf("[watch] create watcher: %v", err)
		return
	}
	if err := w.Add(dir); err != nil {
		m.debugf("[watch] watch %s: %v", dir, err)
		_ = w.Close()
		return
	}
	m.watcher = w
}

// waitForFolderEvent blocks on the watcher and converts its next
// relevant event into a message for the update loop.
func waitForFolderEvent(w *fsnotify.Watcher) tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return nil
				}
				if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename|fsnotify.Write) != 0 {
					return folderEventMsg{}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return nil
				}
				return watchErrorMsg{err: err}
			}
		}
	}
}
