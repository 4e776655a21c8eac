// File: watch.go
// Title: Locale File Watching Implementation
// Description: Watches the locales directory with fsnotify and reloads
//              locale tables when their files change.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation of locale file watching
// - 2026-10-19 v0.2.0: Replaced polling with fsnotify events

package i18n

import (
	"github.com/fsnotify/fsnotify"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
)

// startWatching starts monitoring locale files for changes
func (m *Manager) startWatching() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return mdwerror.Wrap(err, "failed to create file watcher").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("i18n.startWatching")
	}
	if err := watcher.Add(m.localesDir); err != nil {
		watcher.Close()
		return mdwerror.Wrap(err, "failed to watch locales directory").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("i18n.startWatching").
			WithDetail("directory", m.localesDir)
	}

	m.mu.Lock()
	m.watcher = watcher
	m.done = make(chan struct{})
	m.mu.Unlock()

	go m.watchLoop(watcher, m.done)
	m.logger.Info("watching locales directory", mdwlog.Fields{"directory": m.localesDir})
	return nil
}

func (m *Manager) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			m.handleEvent(event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			m.logger.WarnWithErr("locale watcher error", err)
		}
	}
}

func (m *Manager) handleEvent(event fsnotify.Event) {
	switch {
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		locale, err := m.loadFile(event.Name)
		if err != nil {
			m.logger.WarnWithErr("failed to reload locale", err, mdwlog.Fields{"file": event.Name})
			return
		}
		if locale == "" {
			return
		}
		names, _ := m.Names(locale)
		m.notifyChange(locale, names)

	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		locale, _, ok := localeFromFile(event.Name, m.format)
		if !ok {
			return
		}
		m.handleFileDeleted(locale)
	}
}

// handleFileDeleted restores the built-in table of a removed locale file,
// or drops the locale when there is none.
func (m *Manager) handleFileDeleted(locale string) {
	m.mu.Lock()
	names, builtin := m.builtin[locale]
	if builtin {
		m.tables[locale] = names
	} else {
		delete(m.tables, locale)
		names = nil
	}
	m.mu.Unlock()

	m.logger.Info("locale file removed", mdwlog.Fields{"locale": locale, "builtin_restored": builtin})
	m.notifyChange(locale, names)
}

func (m *Manager) notifyChange(locale string, names *Names) {
	m.mu.RLock()
	handlers := append([]LocaleChangeHandler(nil), m.handlers...)
	m.mu.RUnlock()
	m.notify(handlers, locale, names)
}

// IsWatching returns whether file monitoring is active
func (m *Manager) IsWatching() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.watcher != nil
}

// Close stops file monitoring. It is safe to call more than once.
func (m *Manager) Close() error {
	m.mu.Lock()
	watcher, done := m.watcher, m.done
	m.watcher, m.done = nil, nil
	m.mu.Unlock()

	if watcher == nil {
		return nil
	}
	err := watcher.Close()
	<-done
	return err
}
