package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/config"
	"depstack.dev/depstack/internal/runtime"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and set repository configuration",
		Long: `Show the effective repository configuration.

Examples:
  depstack config
  depstack config set cascade.autostash true
  depstack config set github.host github.example.com`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.ConfigListAction)
		},
	}

	cmd.AddCommand(newConfigSetCmd())

	return cmd
}

// newConfigSetCmd creates the config set command
func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "set <key> <value>",
		Short:        "Set a configuration value",
		Long:         "Set a configuration value. Keys: " + strings.Join(config.Keys(), ", ") + ".",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 0 {
				return config.Keys(), cobra.ShellCompDirectiveNoFileComp
			}
			return nil, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.ConfigSetAction(ctx, args[0], args[1])
			})
		},
	}
}
