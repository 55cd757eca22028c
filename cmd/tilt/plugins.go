package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ayusman/tilt/internal/config"
	"github.com/ayusman/tilt/internal/plugin"
)

func newPluginsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List discovered plugins",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("plugins")

			mgr := plugin.NewManager(dir)
			if err := mgr.Discover(); err != nil {
				return fmt.Errorf("discover plugins in %s: %w", dir, err)
			}

			plugins := mgr.List()
			if len(plugins) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "no plugins found in %s\n", dir)
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tVERSION\tACTIONS\tDESCRIPTION")
			for _, p := range plugins {
				m := p.Manifest
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.Name, m.Version, strings.Join(m.Actions, ","), m.Description)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("plugins", config.Default().PluginDir, "plugin directory")
	return cmd
}
