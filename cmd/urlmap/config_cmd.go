package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/imfreedom/urlmap/internal/urlmap"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the configuration file",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), a.settings.Path())
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(); err != nil {
					return err
				}
				data, err := yaml.Marshal(a.settings)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			},
		},
		&cobra.Command{
			Use:     "set NAMESPACE BASE_URL",
			Short:   "Add a namespace or override a built-in one",
			Example: `  urlmap config set Gtk https://docs.gtk.org/gtk4/`,
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(); err != nil {
					return err
				}
				if err := a.settings.SetNamespace(args[0], args[1]); err != nil {
					return err
				}
				if err := a.settings.Save(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "unset NAMESPACE",
			Short: "Remove a configured namespace",
			Long: `Remove a namespace from the configuration file. Built-in namespaces
revert to their default base URL.`,
			Args: cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.load(); err != nil {
					return err
				}
				if !a.settings.RemoveNamespace(args[0]) {
					return &urlmap.NotFoundError{Namespace: args[0]}
				}
				return a.settings.Save()
			},
		},
	)

	return cmd
}
