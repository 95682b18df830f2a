// Package main provides the entry point for viewgate-cli.
//
// Usage:
//
//	viewgate-cli hash [password]
//	viewgate-cli status --server http://127.0.0.1:8080
//
// The hash command prints an Argon2id hash for the
// oracle.local.accounts section of the server configuration. The
// status command checks a running server's health endpoint.
package main
