package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/imfreedom/urlmap/internal/client"
	"github.com/imfreedom/urlmap/internal/links"
	"github.com/imfreedom/urlmap/internal/ui"
	"github.com/imfreedom/urlmap/internal/urlmap"
)

func newLookupCmd(a *app) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "lookup NAMESPACE...",
		Short: "Print the base URL of one or more namespaces",
		Long: `Print the base URL of each namespace, one per line.

Matching is exact and case-sensitive: "gtk" does not match "Gtk". When a
namespace is not found, close matches are suggested and the command exits
with status 1.`,
		Example: `  urlmap lookup Gtk
  urlmap lookup GLib GObject
  urlmap lookup --pretty Purple3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := false
			for _, namespace := range args {
				baseURL, suggestions, err := a.lookup(cmd.Context(), namespace)
				if err != nil {
					if isFatal(err) && !errors.Is(err, urlmap.ErrEmptyNamespace) {
						return err
					}
					failed = true
					reportLookupFailure(cmd, namespace, err, suggestions, pretty)
					continue
				}

				if pretty {
					fmt.Fprintln(out, ui.NewSuccessResult(namespace,
						ui.Detail{Key: "Base URL", Value: baseURL},
					).Render())
					continue
				}
				fmt.Fprintln(out, baseURL)
			}

			if failed {
				return errReported
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", ui.IsTerminal(), "Render styled result boxes")
	return cmd
}

// reportLookupFailure prints a failed lookup with suggestions to stderr
func reportLookupFailure(cmd *cobra.Command, title string, err error, suggestions []string, pretty bool) {
	errOut := cmd.ErrOrStderr()
	if pretty {
		fmt.Fprintln(errOut, ui.NewFailureResult(title, err, suggestions).Render())
		return
	}

	fmt.Fprintf(errOut, "Error: %s: %v\n", title, err)
	if len(suggestions) > 0 {
		fmt.Fprintf(errOut, "Did you mean: %s?\n", strings.Join(suggestions, ", "))
	}
}

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all namespaces and their base URLs",
		Example: `  urlmap list
  urlmap list --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "table":
				if ui.IsTerminalWriter(out) {
					fmt.Fprintln(out, ui.RenderTable(a.table, ui.GetTerminalWidth()))
					return nil
				}
				return writePlainTable(out, a.table)
			default:
				f, err := urlmap.ParseFormat(format)
				if err != nil {
					return err
				}
				return urlmap.Encode(out, a.table, f)
			}
		},
	}

	cmd.Flags().StringVar(&format, "format", "table", "Output format (table, js, json, yaml)")
	return cmd
}

// writePlainTable writes tab-aligned columns for non-terminal output
func writePlainTable(w io.Writer, table *urlmap.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range table.Entries() {
		fmt.Fprintf(tw, "%s\t%s\n", e.Namespace, e.BaseURL)
	}
	return tw.Flush()
}

func newExportCmd(a *app) *cobra.Command {
	var (
		format string
		output string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the table as urlmap.js, JSON, or YAML",
		Long: `Write the effective table (built-in entries plus configured overrides).

The default format is the urlmap.js file gi-docgen loads from a
documentation project's configuration. When --output is given and --format
is not, the format is taken from the file extension.`,
		Example: `  urlmap export -o doc/reference/urlmap.js
  urlmap export --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}

			f, err := chooseFormat(format, output, cmd.Flags().Changed("format"))
			if err != nil {
				return err
			}

			var buf bytes.Buffer
			if err := urlmap.Encode(&buf, a.table, f); err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := writeFileAtomic(output, buf.Bytes()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d namespaces to %s\n", a.table.Len(), output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(urlmap.FormatJS), "Output format (js, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	return cmd
}

// chooseFormat prefers an explicit --format, then the file extension
func chooseFormat(format, path string, explicit bool) (urlmap.Format, error) {
	if !explicit && path != "" && path != "-" {
		if f, err := urlmap.FormatFromPath(path); err == nil {
			return f, nil
		}
	}
	return urlmap.ParseFormat(format)
}

func writeFileAtomic(path string, data []byte) error {
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func newImportCmd(a *app) *cobra.Command {
	var (
		format string
		to     string
		save   bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Validate a table file and print it normalized",
		Long: `Read a urlmap.js, JSON, or YAML table, validate every entry, and print it
in the --to format.

With --save, entries that differ from the current table are written to the
configuration file as overrides.`,
		Example: `  urlmap import doc/reference/urlmap.js --to yaml
  urlmap import other-project/urlmap.js --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := readInput(cmd, path)
			if err != nil {
				return err
			}

			f, err := chooseFormat(format, path, cmd.Flags().Changed("format"))
			if err != nil {
				return err
			}
			imported, err := urlmap.Decode(data, f)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			if save {
				return saveImported(cmd, a, imported)
			}

			toFormat, err := urlmap.ParseFormat(to)
			if err != nil {
				return err
			}
			return urlmap.Encode(cmd.OutOrStdout(), imported, toFormat)
		},
	}

	cmd.Flags().StringVar(&format, "format", string(urlmap.FormatJS), "Input format when it cannot be inferred from the file name")
	cmd.Flags().StringVar(&to, "to", string(urlmap.FormatJSON), "Output format (js, json, yaml)")
	cmd.Flags().BoolVar(&save, "save", false, "Store differing entries as configuration overrides")
	return cmd
}

// saveImported records imported entries that change the effective table
func saveImported(cmd *cobra.Command, a *app, imported *urlmap.Table) error {
	if err := a.load(); err != nil {
		return err
	}

	changed := 0
	for _, e := range imported.Entries() {
		if current, err := a.table.Lookup(e.Namespace); err == nil && current == e.BaseURL {
			continue
		}
		if err := a.settings.SetNamespace(e.Namespace, e.BaseURL); err != nil {
			return err
		}
		changed++
	}

	if changed == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Configuration already matches; nothing to save.")
		return nil
	}
	if err := a.settings.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved %d namespace override(s) to %s\n", changed, a.settings.Path())
	return nil
}

// readInput reads a file, or stdin for "-"
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func newResolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve REF...",
		Short: "Print the documentation URL of gi-docgen references",
		Example: `  urlmap resolve '[class@Gtk.Widget]'
  urlmap resolve method@Purple3.Account.connect 'signal@Gtk.Widget::destroy'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := false
			for _, text := range args {
				url, suggestions, err := a.resolve(cmd.Context(), text)
				if err != nil {
					if isFatal(err) {
						return err
					}
					failed = true
					reportLookupFailure(cmd, text, err, suggestions, false)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), url)
			}

			if failed {
				return errReported
			}
			return nil
		},
	}
	return cmd
}

// isFatal reports errors that end a command instead of failing one argument
func isFatal(err error) bool {
	var remoteErr *client.Error
	if errors.As(err, &remoteErr) {
		return remoteErr.Type != client.ErrTypeNotFound && remoteErr.Type != client.ErrTypeBadRequest
	}
	return !errors.Is(err, urlmap.ErrNotFound) &&
		!errors.Is(err, links.ErrInvalidRef) &&
		!errors.Is(err, links.ErrUnknownFragment)
}

func newLinkCmd(a *app) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "link FILE",
		Short: "Rewrite gi-docgen references in a text file as markdown links",
		Long: `Replace every [fragment@Namespace.Symbol] reference in FILE (or stdin for
"-") with a markdown link and print the result. References that cannot be
resolved are left unchanged and reported on stderr.`,
		Example: `  urlmap link README.md > README.linked.md
  echo 'See [class@Gtk.Widget].' | urlmap link -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}

			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			out, unresolved := links.NewResolver(a.table).ReplaceRefs(string(data))
			if _, err := io.WriteString(cmd.OutOrStdout(), out); err != nil {
				return err
			}

			for _, u := range unresolved {
				line := 1 + strings.Count(string(data[:u.Offset]), "\n")
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%d: unresolved %s: %v\n", args[0], line, u.Ref, u.Err)
			}
			if strict && len(unresolved) > 0 {
				return fmt.Errorf("%d unresolved reference(s)", len(unresolved))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error if any reference is unresolved")
	return cmd
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactively browse namespaces and print the chosen base URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.load(); err != nil {
				return err
			}
			if !ui.IsTerminal() {
				return fmt.Errorf("browse requires an interactive terminal; use 'urlmap list' instead")
			}

			selected, err := ui.Browse(a.table)
			if err != nil {
				return err
			}
			if selected != nil {
				fmt.Fprintln(cmd.OutOrStdout(), selected.BaseURL)
			}
			return nil
		},
	}
}
