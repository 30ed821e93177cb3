package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finboard/cachectl/internal/config"
)

// NewConfigInitCmd creates the "config init" command.
func NewConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration",
		Long:  "Create a commented starter configuration file at ~/.cachectl/config.yaml (or the --config path).",
		Example: `  # Create the default config file
  cachectl config init

  # Recreate it from the template
  cachectl config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration file")
	return cmd
}

func runConfigInit(cmd *cobra.Command, force bool) error {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.DefaultPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("configuration file already exists at %s, use --force to overwrite", path)
	}

	if err := config.WriteDefault(path); err != nil {
		return err
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	cmd.Println("Edit backend.base_url to point at your reporting backend.")
	return nil
}
