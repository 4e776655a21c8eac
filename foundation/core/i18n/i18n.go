// File: i18n.go
// Title: Locale Table Manager
// Description: Implements the Manager that loads calendar name tables from the
//              embedded defaults and from TOML and YAML locale files, and
//              hands them out by locale id.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2025-07-26 v0.1.1: Fixed template cache collision issue in pluralization
// - 2026-10-19 v0.2.0: Calendar name tables replace message catalogs,
//                       embedded built-in locales

package i18n

import (
	"embed"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/tempus/foundation/core/error"
	mdwlog "github.com/msto63/tempus/foundation/core/log"
	"github.com/msto63/tempus/foundation/utils/stringx"
)

//go:embed locales/*
var builtinFS embed.FS

// DefaultLocale is the locale used when none is configured.
const DefaultLocale = "en_US"

// Format represents the locale file format
type Format int

const (
	// FormatAuto detects the format from the file extension
	FormatAuto Format = iota

	// FormatTOML only loads *.toml files
	FormatTOML

	// FormatYAML only loads *.yaml and *.yml files
	FormatYAML
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatAuto:
		return "auto"
	default:
		return "unknown"
	}
}

// extensions returns the file extensions accepted for the format
func (f Format) extensions() []string {
	switch f {
	case FormatTOML:
		return []string{".toml"}
	case FormatYAML:
		return []string{".yaml", ".yml"}
	default:
		return []string{".toml", ".yaml", ".yml"}
	}
}

// Options defines configuration options for the locale manager
type Options struct {
	DefaultLocale string         // Default locale (default: en_US)
	LocalesDir    string         // Optional directory with additional locale files
	Format        Format         // File format filter for LocalesDir
	Watch         bool           // Reload LocalesDir files on change
	Logger        *mdwlog.Logger // Optional logger
}

// LocaleChangeHandler is called after a locale was reloaded or removed.
// names is nil when the locale no longer exists.
type LocaleChangeHandler func(locale string, names *Names)

// Manager holds the locale tables
type Manager struct {
	mu            sync.RWMutex
	defaultLocale string
	localesDir    string
	format        Format
	tables        map[string]*Names
	builtin       map[string]*Names
	handlers      []LocaleChangeHandler
	logger        *mdwlog.Logger

	watcher *fsnotify.Watcher
	done    chan struct{}
}

// New creates a new locale manager with the specified options
func New(options Options) (*Manager, error) {
	if stringx.IsBlank(options.DefaultLocale) {
		options.DefaultLocale = DefaultLocale
	}
	if options.Logger == nil {
		options.Logger = mdwlog.GetDefault()
	}

	builtin, err := loadBuiltin()
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to load built-in locales").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("i18n.New")
	}

	manager := &Manager{
		defaultLocale: options.DefaultLocale,
		localesDir:    options.LocalesDir,
		format:        options.Format,
		tables:        make(map[string]*Names, len(builtin)),
		builtin:       builtin,
		logger:        options.Logger.WithField("component", "i18n"),
	}
	for locale, names := range builtin {
		manager.tables[locale] = names
	}

	if !stringx.IsBlank(options.LocalesDir) {
		if _, err := os.Stat(options.LocalesDir); err != nil {
			return nil, mdwerror.New("locales directory not found").
				WithCode(mdwerror.CodeNotFound).
				WithOperation("i18n.New").
				WithDetail("directory", options.LocalesDir)
		}
		if err := manager.loadDir(); err != nil {
			return nil, err
		}
	}

	if _, ok := manager.tables[manager.defaultLocale]; !ok {
		return nil, mdwerror.New("default locale not found").
			WithCode(mdwerror.CodeUnknownLocale).
			WithOperation("i18n.New").
			WithDetail("locale", manager.defaultLocale)
	}

	if options.Watch && !stringx.IsBlank(options.LocalesDir) {
		if err := manager.startWatching(); err != nil {
			return nil, err
		}
	}

	return manager, nil
}

var (
	builtinManager     *Manager
	builtinManagerOnce sync.Once
)

// Builtin returns a shared manager holding only the embedded locales.
func Builtin() *Manager {
	builtinManagerOnce.Do(func() {
		manager, err := New(Options{})
		if err != nil {
			panic("i18n: embedded locales are invalid: " + err.Error())
		}
		builtinManager = manager
	})
	return builtinManager
}

func loadBuiltin() (map[string]*Names, error) {
	entries, err := fs.ReadDir(builtinFS, "locales")
	if err != nil {
		return nil, err
	}

	tables := make(map[string]*Names, len(entries))
	for _, entry := range entries {
		locale, ext, ok := localeFromFile(entry.Name(), FormatAuto)
		if !ok {
			continue
		}
		content, err := builtinFS.ReadFile("locales/" + entry.Name())
		if err != nil {
			return nil, err
		}
		names, err := decodeNames(content, ext)
		if err != nil {
			return nil, mdwerror.Wrap(err, "invalid built-in locale").WithDetail("locale", locale)
		}
		tables[locale] = names
	}
	return tables, nil
}

// localeFromFile splits "ru_RU.yaml" into its locale id and extension
func localeFromFile(fileName string, format Format) (locale, ext string, ok bool) {
	ext = strings.ToLower(filepath.Ext(fileName))
	supported := false
	for _, candidate := range format.extensions() {
		if ext == candidate {
			supported = true
			break
		}
	}
	if !supported {
		return "", "", false
	}

	locale = NormalizeLocale(strings.TrimSuffix(filepath.Base(fileName), filepath.Ext(fileName)))
	if stringx.IsBlank(locale) {
		return "", "", false
	}
	return locale, ext, true
}

func decodeNames(content []byte, ext string) (*Names, error) {
	var names Names
	switch ext {
	case ".toml":
		if err := toml.Unmarshal(content, &names); err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse TOML locale").WithCode(mdwerror.CodeInvalidFormat)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &names); err != nil {
			return nil, mdwerror.Wrap(err, "failed to parse YAML locale").WithCode(mdwerror.CodeInvalidFormat)
		}
	default:
		return nil, mdwerror.New("unsupported locale file format").
			WithCode(mdwerror.CodeInvalidFormat).
			WithDetail("extension", ext)
	}

	if err := names.Validate(); err != nil {
		return nil, err
	}
	return &names, nil
}

// loadDir loads every supported file of the locales directory. Broken files
// are logged and skipped.
func (m *Manager) loadDir() error {
	entries, err := os.ReadDir(m.localesDir)
	if err != nil {
		return mdwerror.Wrap(err, "failed to read locales directory").
			WithCode(mdwerror.CodeInvalidOperation).
			WithOperation("i18n.loadDir").
			WithDetail("directory", m.localesDir)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, err := m.loadFile(filepath.Join(m.localesDir, entry.Name())); err != nil {
			m.logger.WarnWithErr("skipping locale file", err, mdwlog.Fields{"file": entry.Name()})
		}
	}
	return nil
}

// loadFile loads one locale file and installs its table. It returns the
// locale id, or "" when the file is not a locale file.
func (m *Manager) loadFile(path string) (string, error) {
	locale, ext, ok := localeFromFile(path, m.format)
	if !ok {
		return "", nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return locale, mdwerror.Wrap(err, "failed to read locale file").
			WithCode(mdwerror.CodeInvalidOperation).
			WithDetail("file", path)
	}

	names, err := decodeNames(content, ext)
	if err != nil {
		return locale, mdwerror.Wrap(err, "invalid locale file").
			WithOperation("i18n.loadFile").
			WithDetail("file", path)
	}

	m.mu.Lock()
	m.tables[locale] = names
	m.mu.Unlock()

	m.logger.Debug("locale loaded", mdwlog.Fields{"locale": locale, "file": path})
	return locale, nil
}

// Names returns the table for a locale id. Ids are normalized first, so
// "ru-ru" finds "ru_RU".
func (m *Manager) Names(locale string) (*Names, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names, ok := m.tables[locale]
	if !ok {
		names, ok = m.tables[NormalizeLocale(locale)]
	}
	return names, ok
}

// HasLocale reports whether a table exists for the locale id.
func (m *Manager) HasLocale(locale string) bool {
	_, ok := m.Names(locale)
	return ok
}

// DefaultLocale returns the configured default locale id.
func (m *Manager) DefaultLocale() string {
	return m.defaultLocale
}

// GetAvailableLocales returns all locale ids in sorted order.
func (m *Manager) GetAvailableLocales() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	locales := make([]string, 0, len(m.tables))
	for locale := range m.tables {
		locales = append(locales, locale)
	}
	sort.Strings(locales)
	return locales
}

// Register installs a table for a locale at runtime.
func (m *Manager) Register(locale string, names Names) error {
	id := NormalizeLocale(locale)
	if stringx.IsBlank(id) {
		return mdwerror.New("invalid locale id").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("i18n.Register").
			WithDetail("locale", locale)
	}
	if err := names.Validate(); err != nil {
		return err
	}

	table := names.Clone()
	m.mu.Lock()
	m.tables[id] = table
	handlers := append([]LocaleChangeHandler(nil), m.handlers...)
	m.mu.Unlock()

	m.notify(handlers, id, table)
	return nil
}

// OnChange registers a handler for locale reloads and removals.
func (m *Manager) OnChange(handler LocaleChangeHandler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// ReloadAll reloads all files of the locales directory.
func (m *Manager) ReloadAll() error {
	if stringx.IsBlank(m.localesDir) {
		return nil
	}
	return m.loadDir()
}

func (m *Manager) notify(handlers []LocaleChangeHandler, locale string, names *Names) {
	for _, handler := range handlers {
		if handler != nil {
			handler(locale, names)
		}
	}
}
