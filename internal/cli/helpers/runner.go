package helpers

import (
	"errors"

	"github.com/spf13/cobra"

	"depstack.dev/depstack/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	return RunWith(cmd, runtime.Options{}, fn)
}

// RunWith is Run with extra context options. The global --repo and --debug flags are
// applied on top of opts.
func RunWith(cmd *cobra.Command, opts runtime.Options, fn func(ctx *runtime.Context) error) (err error) {
	opts.Repo, _ = cmd.Flags().GetString("repo")
	opts.Debug, _ = cmd.Flags().GetBool("debug")

	ctx, err := runtime.GetContext(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, ctx.Close())
	}()
	return fn(ctx)
}
