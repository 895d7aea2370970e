package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/imfreedom/urlmap/internal/config"
	"github.com/imfreedom/urlmap/internal/discovery"
	"github.com/imfreedom/urlmap/internal/logging"
	"github.com/imfreedom/urlmap/internal/server"
	"github.com/imfreedom/urlmap/internal/ui"
	"github.com/imfreedom/urlmap/internal/urlmap"
	"github.com/imfreedom/urlmap/internal/version"
	"github.com/imfreedom/urlmap/internal/watch"
)

type serveOptions struct {
	host      string
	port      int
	certPath  string
	keyPath   string
	advertise bool
	instance  string
	watch     bool
}

func newServeCmd(a *app) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the table over HTTP and WebSocket",
		Long: `Serve the effective table to other tools.

Endpoints:
  GET /api/v1/namespaces          all entries as [namespace, base_url] pairs
  GET /api/v1/namespaces/{ns}     a single entry
  GET /api/v1/resolve?ref=REF     the URL of a gi-docgen reference
  GET /urlmap.js                  the table as gi-docgen's urlmap.js
  GET /go/{ns}/{page...}          redirect into a namespace's documentation
  GET /ws                         WebSocket lookups

Defaults for --host, --port, and --advertise come from the 'server' section
of the configuration file. With --watch, edits to the configuration file are
applied without a restart.`,
		Example: `  # Serve on the configured address
  urlmap serve

  # Listen on all interfaces, advertise over mDNS and follow config edits
  urlmap serve --host 0.0.0.0 --advertise --watch

  # Serve over TLS
  urlmap serve --cert cert.pem --key key.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			applyServerPrefs(cmd, opts, a.settings)
			return runServe(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.host, "host", config.DefaultHost, "Address to listen on")
	cmd.Flags().IntVar(&opts.port, "port", config.DefaultPort, "Port to listen on (0 picks a free port)")
	cmd.Flags().StringVar(&opts.certPath, "cert", "", "Path to TLS certificate file (TLS disabled if not provided)")
	cmd.Flags().StringVar(&opts.keyPath, "key", "", "Path to TLS private key file")
	cmd.Flags().BoolVar(&opts.advertise, "advertise", false, "Advertise the server over mDNS")
	cmd.Flags().StringVar(&opts.instance, "instance", "", "mDNS instance name (default is the hostname)")
	cmd.Flags().BoolVar(&opts.watch, "watch", false, "Reload the table when the configuration file changes")

	return cmd
}

// applyServerPrefs fills options the user did not set on the command line
func applyServerPrefs(cmd *cobra.Command, opts *serveOptions, settings *config.Settings) {
	prefs := settings.Server
	if prefs == nil {
		return
	}

	flags := cmd.Flags()
	if !flags.Changed("host") && prefs.Host != "" {
		opts.host = prefs.Host
	}
	if !flags.Changed("port") && prefs.Port != 0 {
		opts.port = prefs.Port
	}
	if !flags.Changed("advertise") {
		opts.advertise = prefs.Advertise
	}
	if !flags.Changed("instance") {
		opts.instance = prefs.Instance
	}
}

func runServe(cmd *cobra.Command, a *app, opts *serveOptions) error {
	if (opts.certPath == "") != (opts.keyPath == "") {
		return fmt.Errorf("both --cert and --key must be provided together")
	}
	if opts.watch && a.remote != "" {
		return fmt.Errorf("--watch follows the local configuration and cannot be combined with --remote")
	}

	srv, err := server.New(&server.Config{
		Host:     opts.host,
		Port:     opts.port,
		CertPath: opts.certPath,
		KeyPath:  opts.keyPath,
		Table:    a.table,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	if err := srv.Listen(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tls := opts.certPath != ""
	scheme := "http"
	if tls {
		scheme = "https"
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Serving %d namespaces on %s://%s\n", a.table.Len(), scheme, srv.Addr())

	var reg *discovery.Registration
	if opts.advertise {
		reg, err = discovery.Advertise(ctx, discovery.Advertisement{
			Instance: opts.instance,
			Port:     srv.Port(),
			Version:  version.Version,
			Entries:  a.table.Len(),
			TLS:      tls,
		})
		if err != nil {
			// The server is still useful without mDNS
			logging.Warn("mDNS advertisement failed", zap.Error(err))
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		}
	}

	if opts.watch {
		// The directory must exist for the watcher to see the file appear
		if err := os.MkdirAll(filepath.Dir(a.settings.Path()), 0700); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
		w, err := watch.New(a.settings.Path(), reloader(srv, reg))
		if err != nil {
			return err
		}
		w.Start()
		defer w.Stop()
	}

	return srv.Start(ctx)
}

// entryAnnouncer is updated with the table size after each reload
type entryAnnouncer interface {
	SetEntries(n int)
}

// reloader swaps the served table and keeps the advertised size current
func reloader(srv *server.Server, reg entryAnnouncer) watch.ReloadFunc {
	return func(table *urlmap.Table) {
		srv.Reload(table)
		if reg != nil {
			reg.SetEntries(table.Len())
		}
	}
}

func newScanCmd() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find urlmap servers on the local network",
		Long: `Browse for servers started with 'urlmap serve --advertise' and list
their addresses. Scanning uses mDNS and only finds servers on the same
network segment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			errOut := cmd.ErrOrStderr()
			fmt.Fprintf(errOut, "Scanning for %s services (%s)...\n", discovery.ServiceType, timeout)

			services, err := discovery.ScanForServices(timeout)
			if err != nil {
				return err
			}
			if len(services) == 0 {
				fmt.Fprintln(errOut, ui.FailureMarker+" No servers found")
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "INSTANCE\tURL\tENTRIES\tVERSION")
			for _, svc := range services {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					svc.Instance, svc.APIURL(), svc.GetMetadata("entries"), svc.GetMetadata("version"))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", discovery.DefaultScanTimeout, "How long to wait for responses")
	return cmd
}
