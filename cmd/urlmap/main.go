// Urlmap is a lookup and export tool for the documentation namespace table.
//
// The table maps documentation namespaces such as "GLib" or "Gtk" to the
// base URLs their reference documentation is published under. urlmap can
// query it, export it as the urlmap.js file gi-docgen loads, turn
// cross-references into links, and serve it to other tools.
//
// Usage:
//
//	urlmap [command] [flags]
//
// See 'urlmap --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/imfreedom/urlmap/internal/client"
	"github.com/imfreedom/urlmap/internal/config"
	"github.com/imfreedom/urlmap/internal/links"
	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/urlmap"
	"github.com/imfreedom/urlmap/internal/version"
)

func main() {
	err := newRootCmd().Execute()
	logging.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported signals a failure whose details were already printed
var errReported = errors.New("failure already reported")

// app carries global flags and the lazily loaded configuration
type app struct {
	configPath string
	logLevel   string
	remote     string

	settings *config.Settings
	table    *urlmap.Table
	client   *client.Client
}

// load reads the configuration and builds the effective table once.
// With --remote the table comes from a running server instead.
func (a *app) load() error {
	if a.table != nil {
		return nil
	}

	settings, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	var table *urlmap.Table
	if a.remote != "" {
		table, err = fetchRemote(a.remoteClient())
	} else {
		table, err = settings.Table()
	}
	if err != nil {
		return err
	}

	a.settings = settings
	a.table = table
	return nil
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "urlmap",
		Short: "Documentation namespace URL table",
		Long: `Look up, export, and serve the table mapping documentation namespaces
(GLib, Gtk, Purple3, ...) to the base URLs of their online reference.

The built-in table can be extended or overridden in the configuration file
(see 'urlmap config path').`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Initialize(a.logLevel)
		},
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "Configuration file (default is the user config directory)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); also "+logging.LogLevelEnvVar)

	rootCmd.PersistentFlags().StringVar(&a.remote, "remote", "", "Use the table served by a 'urlmap serve' instance at this URL")

	rootCmd.AddCommand(
		newLookupCmd(a),
		newListCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newResolveCmd(a),
		newLinkCmd(a),
		newServeCmd(a),
		newScanCmd(),
		newStatusCmd(a),
		newBrowseCmd(a),
		newConfigCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

func fetchRemote(c *client.Client) (*urlmap.Table, error) {
	ctx, cancel := context.WithTimeout(context.Background(), client.DefaultTimeout)
	defer cancel()

	table, err := c.Table(ctx)
	if err != nil {
		return nil, remoteError(c, err)
	}
	return table, nil
}

// remoteError prefixes err with the server and a one-line description
func remoteError(c *client.Client, err error) error {
	return fmt.Errorf("%s: %s: %w", c.BaseURL, client.GetShortErrorMessage(err), err)
}

// remoteClient returns the client for --remote, or nil without it
func (a *app) remoteClient() *client.Client {
	if a.remote == "" {
		return nil
	}
	if a.client == nil {
		a.client = client.NewClient(a.remote)
	}
	return a.client
}

// lookup finds one namespace in the effective table, or asks the server
// with --remote. On a miss it also returns close matches.
func (a *app) lookup(ctx context.Context, namespace string) (string, []string, error) {
	if c := a.remoteClient(); c != nil {
		baseURL, err := c.Lookup(ctx, namespace)
		if client.IsNetworkError(err) {
			return "", nil, remoteError(c, err)
		}
		return baseURL, client.Suggestions(err), err
	}

	if err := a.load(); err != nil {
		return "", nil, err
	}
	baseURL, err := a.table.Lookup(namespace)
	if errors.Is(err, urlmap.ErrNotFound) {
		return "", a.table.Similar(namespace), err
	}
	return baseURL, nil, err
}

// resolve builds the URL of a reference locally, or asks the server with
// --remote. On an unknown namespace it also returns close matches.
func (a *app) resolve(ctx context.Context, text string) (string, []string, error) {
	if c := a.remoteClient(); c != nil {
		url, err := c.Resolve(ctx, text)
		if client.IsNetworkError(err) {
			return "", nil, remoteError(c, err)
		}
		return url, client.Suggestions(err), err
	}

	if err := a.load(); err != nil {
		return "", nil, err
	}
	url, err := links.NewResolver(a.table).Resolve(text)
	if errors.Is(err, urlmap.ErrNotFound) {
		if ref, perr := links.ParseRef(text); perr == nil {
			return "", a.table.Similar(ref.Namespace), err
		}
	}
	return url, nil, err
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show where the table comes from and how many namespaces it has",
		Long: `Show the source of the effective table. With --remote, the server is asked
for its version and table size, which also checks that it is reachable.`,
		Example: `  urlmap status
  urlmap status --remote http://192.168.1.20:8377`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if c := a.remoteClient(); c != nil {
				status, err := c.Status(cmd.Context())
				if err != nil {
					return remoteError(c, err)
				}
				fmt.Fprintf(out, "Server:  %s\n", c.BaseURL)
				fmt.Fprintf(out, "Version: %s\n", status.Version)
				fmt.Fprintf(out, "Entries: %d\n", status.Entries)
				return nil
			}

			if err := a.load(); err != nil {
				return err
			}
			fmt.Fprintf(out, "Config:  %s\n", a.settings.Path())
			fmt.Fprintf(out, "Version: %s\n", version.Version)
			fmt.Fprintf(out, "Entries: %d (%d configured)\n", a.table.Len(), len(a.settings.Namespaces))
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "urlmap "+version.Full())
		},
	}
}
