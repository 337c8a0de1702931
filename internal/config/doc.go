// Package config loads and validates the airlift user configuration from
// ~/.config/airlift/config.toml. All paths are expanded to absolute form at
// load time so downstream packages never deal with ~ or relative values.
package config
