package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/timeboard/internal/paths"
)

// exampleDefinition is written by init --example.
const exampleDefinition = `# Five-day working week with weekends off.
base_unit_freq: D
start: 2025-01-01
end: 2025-12-31
layout:
  marker: {each: W}
  structure:
    - [1, 1, 1, 1, 1, 0, 0]
amendments:
  - {at: 2025-01-01, label: 0}
  - {at: 2025-12-25, label: 0}
schedules:
  - {name: weekends, on: [0]}
`

const exampleName = "example"

func (a *app) newInitCmd() *cobra.Command {
	var example bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the timeboard configuration",
		Long: "Create the configuration directory and config.yaml. With --example,\n" +
			"also write an example definition to the definitions directory.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInit(cmd, example)
		},
	}
	cmd.Flags().BoolVar(&example, "example", false, "write an example definition")
	return cmd
}

func (a *app) runInit(cmd *cobra.Command, example bool) error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysErr("resolve config dir: %w", err)
	}
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return sysErr("create config directory: %w", err)
	}

	var defsDir string
	if a.flags.definitionsDir != "" {
		if defsDir, err = filepath.Abs(a.flags.definitionsDir); err != nil {
			return sysErr("resolve definitions dir: %w", err)
		}
	}
	configPath := filepath.Join(configDir, paths.ConfigFileName)
	if err := writeConfigIfMissing(configPath, configFile{DefinitionsDir: defsDir}); err != nil {
		return sysErr("write config: %w", err)
	}
	a.logger.Debug("config written", "path", configPath)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Timeboard config initialized in %s\n", configDir)
	if !example {
		return nil
	}

	if defsDir == "" {
		if defsDir, err = paths.ResolveDefinitionsDir("", ""); err != nil {
			return sysErr("resolve definitions dir: %w", err)
		}
	}
	if err := os.MkdirAll(defsDir, 0o755); err != nil {
		return sysErr("create definitions directory: %w", err)
	}
	path := paths.DefinitionPath(exampleName, defsDir)
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(out, "Example definition already exists: %s\n", path)
		return nil
	}
	if err := os.WriteFile(path, []byte(exampleDefinition), 0o644); err != nil {
		return sysErr("write example definition: %w", err)
	}
	fmt.Fprintf(out, "Example definition written to %s\n", path)
	return nil
}
