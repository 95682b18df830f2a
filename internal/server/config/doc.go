// Package config provides server configuration for ViewGate.
//
// The package splits responsibilities across files:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (backend selection, paths)
//   - sanitize.go: Log sanitization (hide sensitive values)
//
// Configuration is loaded via internal/infra/confloader and supports
// files, environment variables, and flag overrides.
package config
