// Package config loads the textrope configuration.
//
// Settings come from three places, later ones winning:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, usually textrope.toml, which may @include others
//  3. TEXTROPE_ environment variables, e.g. TEXTROPE_LOG_LEVEL=debug
//
// A file looks like:
//
//	[rope]
//	max_leaf_units = 512
//
//	[history]
//	max_entries = 1000
//
//	[log]
//	level = "info"   # debug, info, warn, error
//	format = "text"  # text, json
//
//	[script]
//	call_limit = 1000000
//	timeout = "5s"
//
//	[input]
//	encoding = "utf-8"    # utf-8, utf-16le, utf-16be
//	line_ending = "as-is" # as-is, lf, crlf, cr
//
// Unknown keys in the file are an error. Unknown environment variables are
// ignored.
package config
