// Package main provides the entry point for viewgate-cli.
//
// viewgate-cli is a small operator tool for a running viewgate-server:
// it hashes account passwords for the config file and checks server
// health.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/term"

	"github.com/edvros/viewgate-go/internal/infra/buildinfo"
	"github.com/edvros/viewgate-go/internal/oracle/local"
)

func main() {
	app := &cli.App{
		Name:    "viewgate-cli",
		Usage:   "operator tool for viewgate-server",
		Version: buildinfo.String(),
		Commands: []*cli.Command{
			hashCommand(),
			statusCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// hashCommand produces an Argon2id hash suitable for the
// oracle.local.accounts section of the server config.
func hashCommand() *cli.Command {
	return &cli.Command{
		Name:      "hash",
		Usage:     "hash a password for the account table",
		ArgsUsage: "[password]",
		Action: func(c *cli.Context) error {
			password := c.Args().First()
			if password == "" {
				var err error
				password, err = promptPassword()
				if err != nil {
					return err
				}
			}
			if password == "" {
				return fmt.Errorf("password must not be empty")
			}

			hash, err := local.HashPassword(password)
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}

// statusCommand checks a server's health endpoint.
func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "check server health",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "server address",
				EnvVars: []string{"VIEWGATE_SERVER"},
				Value:   "http://127.0.0.1:8080",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 5 * time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			base := strings.TrimRight(c.String("server"), "/")
			if !strings.Contains(base, "://") {
				base = "http://" + base
			}

			client := &http.Client{Timeout: c.Duration("timeout")}
			resp, err := client.Get(base + "/healthz")
			if err != nil {
				return fmt.Errorf("server unreachable: %w", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("server unhealthy: status %d", resp.StatusCode)
			}

			var pretty map[string]any
			if err := json.Unmarshal(body, &pretty); err == nil {
				out, _ := json.MarshalIndent(pretty, "", "  ")
				fmt.Println(string(out))
			} else {
				fmt.Println(strings.TrimSpace(string(body)))
			}
			return nil
		},
	}
}

// promptPassword reads a password without echo when stdin is a
// terminal, otherwise reads one line.
func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}

	line, err := io.ReadAll(io.LimitReader(os.Stdin, 1024))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(line), "\r\n"), nil
}
