// ABOUTME: Admin CLI for confhub: registrations, speakers, sessions, and analytics
// ABOUTME: Talks to the gateway's JSON API and keeps the admin token in a credentials file

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/2389/confhub/internal/client"
)

// Version is set by goreleaser at build time.
var version = "dev"

const defaultURL = "http://localhost:8080"

const banner = `
                    __ _           _                 _           _
  ___ ___  _ __  / _| |__  _   _| |__         __ _| |_ __ ___ (_)_ __
 / __/ _ \| '_ \| |_| '_ \| | | | '_ \ _____ / _' | | '_ ' _ \| | '_ \
| (_| (_) | | | |  _| | | | |_| | |_) |_____| (_| | | | | | | | | | | |
 \___\___/|_| |_|_| |_| |_|\__,_|_.__/       \__,_|_|_| |_| |_|_|_| |_|
`

// app carries what every command needs once flags are parsed.
type app struct {
	url       string
	credsPath string
	jsonOut   bool

	client *client.Client
	in     io.Reader
	out    io.Writer
}

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout).Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	cmd := &cobra.Command{
		Use:           "confhub-admin",
		Short:         "Manage a confhub event from the terminal",
		Long:          strings.TrimPrefix(banner, "\n") + "\nManage registrations, speakers, sessions, and analytics on a confhub gateway.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.connect()
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)

	cmd.PersistentFlags().StringVar(&a.url, "url", "", "Gateway URL (env CONFHUB_URL, default from credentials or "+defaultURL+")")
	cmd.PersistentFlags().StringVar(&a.credsPath, "credentials", "", "Credentials file (default $XDG_CONFIG_HOME/confhub/credentials.toml)")
	cmd.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "Print raw JSON instead of tables")

	cmd.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.registerCmd(),
		a.countCmd(),
		a.attendeesCmd(),
		a.speakersCmd(),
		a.sessionsCmd(),
		a.scheduleCmd(),
		a.analyticsCmd(),
	)

	return cmd
}

// connect resolves the gateway URL and builds the client.
// URL priority: --url > CONFHUB_URL > credentials file > default.
func (a *app) connect() error {
	if a.credsPath == "" {
		path, err := client.DefaultCredentialsPath()
		if err != nil {
			return err
		}
		a.credsPath = path
	}

	if a.url == "" {
		a.url = os.Getenv("CONFHUB_URL")
	}
	if a.url == "" {
		creds, err := client.LoadCredentials(a.credsPath)
		if err != nil {
			return err
		}
		a.url = creds.BaseURL
	}
	if a.url == "" {
		a.url = defaultURL
	}
	a.url = strings.TrimSuffix(strings.TrimSpace(a.url), "/")

	a.client = client.New(a.url, client.WithTokenStore(client.NewFileTokenStore(a.credsPath, a.url)))
	return nil
}

// requireLogin fails early with a hint when no token is saved.
func (a *app) requireLogin() error {
	if !a.client.HasToken() {
		return fmt.Errorf("not logged in to %s (run: confhub-admin login)", a.url)
	}
	return nil
}
