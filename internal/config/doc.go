// Package config loads sensetype settings.
//
// Settings come from three layers, later layers overriding earlier ones:
//
//  1. Built-in defaults (Default)
//  2. A TOML file, by default $XDG_CONFIG_HOME/sensetype/config.toml
//  3. SENSETYPE_* environment variables
//
// A missing default file is not an error. An explicitly named file must
// exist.
//
// # Configuration File
//
//	[log]
//	level = "debug"
//	format = "json"
//	file = "/tmp/sensetype.log"
//
//	[input]
//	throttle = "20ms"
//
//	[audio]
//	tick = "50ms"
//	rate = 1.25
//	command = ["mpv", "--no-video", "--start={start}", "{file}"]
//	cache_dir = "~/.cache/sensetype/audio"
//
//	[progress]
//	path = "~/.local/share/sensetype/progress.db"
//	save_delay = "500ms"
//
//	[script]
//	path = "~/.config/sensetype/hooks.lua"
//
//	[watch]
//	enabled = true
//	delay = "150ms"
//
// # Environment Variables
//
// Each key maps to SENSETYPE_<SECTION>_<KEY>, for example
// SENSETYPE_LOG_LEVEL or SENSETYPE_INPUT_THROTTLE. The audio command is
// split on whitespace.
package config
