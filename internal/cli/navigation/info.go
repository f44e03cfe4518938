package navigation

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/actions"
	"depstack.dev/depstack/internal/cli/helpers"
	"depstack.dev/depstack/internal/runtime"
)

// NewInfoCmd creates the info command
func NewInfoCmd() *cobra.Command {
	var (
		pr     bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:               "info [branch]",
		Short:             "Show the dependencies and metadata of a branch",
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: helpers.CompleteBranches,
		SilenceUsage:      true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				if asJSON {
					ctx.Splog.SetQuiet(true)
				}
				info, err := actions.InfoAction(ctx, actions.InfoOptions{
					Branch: helpers.OptionalArg(args),
					PR:     pr,
				})
				if err != nil || !asJSON {
					return err
				}
				data, err := json.MarshalIndent(info, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			})
		},
	}

	cmd.Flags().BoolVar(&pr, "pr", false, "Look up the pull request on GitHub.")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON.")

	return cmd
}
