// Package confloader loads ViewGate configuration from layered
// sources using koanf.
//
// Sources merge in priority order, highest last:
//
//  1. Configuration file (YAML)
//  2. Environment variables (VIEWGATE_ prefix)
//  3. CLI flag overrides (via LoadMap)
//
// A fsnotify-based Watcher reloads the file on change so log levels
// and probe intervals can be adjusted without a restart.
package confloader
