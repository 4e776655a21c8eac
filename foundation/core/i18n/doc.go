// File: doc.go
// Title: Locale Tables Package Documentation
// Description: Package i18n manages the month and weekday name tables used by
//              the calendar formatter and parser.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Reworked from message catalogs to calendar name tables

/*
Package i18n manages calendar locale tables.

A locale table (Names) holds twelve short and twelve long month names and
seven short and seven long weekday names, Sunday first. Tables are keyed by a
locale id such as "en_US" or "ru_RU".

The Manager starts from the built-in tables (en_US, ru_RU, de_DE) embedded in
the binary and overlays the files of an optional locales directory. A file
named <locale>.toml or <locale>.yaml defines or replaces one locale:

	month_short_names = ["Jan", "Feb", ...]
	month_long_names  = ["January", "February", ...]
	days_short_names  = ["Sun", "Mon", ...]
	days_long_names   = ["Sunday", "Monday", ...]

With Watch enabled the directory is observed through fsnotify and changed
files are reloaded. Removing a file restores the built-in table of that
locale, or drops the locale when there is none.

Tables handed out by the Manager are never modified afterwards; a reload
installs a new table.

Usage:

	manager, err := i18n.New(i18n.Options{
		DefaultLocale: "en_US",
		LocalesDir:    "./locales",
		Watch:         true,
	})
	if err != nil {
		return err
	}
	defer manager.Close()

	names, ok := manager.Names("ru_RU")
*/
package i18n
