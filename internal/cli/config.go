package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gridstack/internal/config"
	"gridstack/internal/paths"
)

var configInitForce bool

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the workspace configuration",
	}

	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration in YAML",
		RunE:  runConfigShow,
	}
}

func newConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default gridstack.yaml into the working directory",
		RunE:  runConfigInit,
	}
	cmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing configuration file")
	return cmd
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	ws, err := paths.Resolve(workdir)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ws.ConfigFile)
	if err != nil {
		return err
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	ws, err := paths.Resolve(workdir)
	if err != nil {
		return err
	}
	if err := paths.EnsureDir(ws.Root); err != nil {
		return err
	}

	exists, err := paths.FileExists(ws.ConfigFile)
	if err != nil {
		return fmt.Errorf("stat config: %w", err)
	}
	if exists && !configInitForce {
		return fmt.Errorf("%s already exists (use --force to overwrite)", ws.ConfigFile)
	}

	data, err := config.Default().Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(ws.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", ws.ConfigFile)
	return nil
}
