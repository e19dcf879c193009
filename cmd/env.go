package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriBoard/internal/app"
)

// withEnv opens the environment for one command and closes it afterwards.
func withEnv(cmd *cobra.Command, fn func(ctx context.Context, env *app.Environment) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	env, err := app.Open(ctx, globalOpts)
	if err != nil {
		return err
	}
	return errors.Join(fn(ctx, env), env.Close())
}
