package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/polaron/polaron/internal/config"
)

var setupFlags struct {
	project bool
	force   bool
	print   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create polaron configuration file",
	Long: `Write the built-in defaults to a polaron configuration file.

The global config lives at ~/.config/polaron/polaron.yml (or under
$XDG_CONFIG_HOME). Use --project for ./polaron.yml, which takes precedence,
or --print to see the defaults without writing anything.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Write ./polaron.yml instead of the global config")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite an existing config file")
	setupCmd.Flags().BoolVar(&setupFlags.print, "print", false, "Print the default config to stdout")
}

func runSetup(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := config.Defaults()

	if setupFlags.print {
		data, err := config.Marshal(defaults)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}

	write, path := config.WriteGlobal, config.GlobalPath()
	if setupFlags.project {
		write, path = config.WriteProject, config.ProjectPath()
	}
	if _, err := os.Stat(path); err == nil && !setupFlags.force {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", path)
	}
	if err := write(defaults); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Fprintf(out, "Config written to: %s\n\n", path)
	fmt.Fprintln(out, "Run 'polaron quote' to get started.")
	return nil
}
