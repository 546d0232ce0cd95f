// Package config loads problemnav settings.
//
// Settings are merged from lowest to highest priority:
//
//  1. built-in defaults
//  2. the TOML config file
//  3. PROBLEMNAV_* environment variables
//  4. command-line overrides
//
// The merged map is decoded into a typed Config and validated.
//
//	[navigation]
//	multiSeverityHandling = "hover"   # or "marker"
//	hoverSettleDelay = "150ms"
//
//	[editor]
//	smoothScrolling = false
//
//	[diagnostics]
//	watch = true
//	reports = ["build/diagnostics.json"]
//	maxPerDocument = 1000
//	sources = []
//
//	[logging]
//	level = "info"
package config
