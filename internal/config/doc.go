// Package config loads modstudio settings.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//  1. Built-in defaults (see Default).
//  2. A configuration file, TOML (.toml) or YAML (.yaml, .yml). A missing
//     file is not an error.
//  3. MODSTUDIO_* environment variables, e.g. MODSTUDIO_UNDO_MAX_HISTORY_SIZE
//     or MODSTUDIO_LOG_LEVEL.
//
// A TOML file looks like:
//
//	[undo]
//	max_history_size = 200
//
//	[undo.areas.preview]
//	max_history_size = 10
//
//	[log]
//	level = "debug"
//	format = "json"
//
//	[metrics]
//	enabled = true
//	addr = ":9090"
//
// Watcher reloads the file when it changes on disk.
package config
