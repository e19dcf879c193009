package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/Rorical/RoriBoard/internal/confirm"
)

// promptConfirmer asks each confirmation round on the terminal. Danger
// prompts list the cancel label first so a stray Enter does nothing.
var promptConfirmer = confirm.ConfirmerFunc(func(ctx context.Context, opts confirm.Options) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	opts = opts.WithDefaults()

	items := []string{opts.ConfirmLabel, opts.CancelLabel}
	if opts.Danger {
		items = []string{opts.CancelLabel, opts.ConfirmLabel}
	}
	prompt := promptui.Select{
		Label: roundLabel(opts),
		Items: items,
	}
	_, choice, err := prompt.Run()
	switch {
	case errors.Is(err, promptui.ErrInterrupt), errors.Is(err, promptui.ErrEOF):
		return false, nil
	case err != nil:
		return false, err
	}
	return choice == opts.ConfirmLabel, nil
})

func roundLabel(opts confirm.Options) string {
	if opts.Step > 0 {
		return fmt.Sprintf("[%s %d] %s", opts.Title, opts.Step, opts.Message)
	}
	return fmt.Sprintf("[%s] %s", opts.Title, opts.Message)
}

func promptText(label string, mask bool) (string, error) {
	prompt := promptui.Prompt{Label: label, Validate: nonEmpty}
	if mask {
		prompt.Mask = '*'
	}
	return prompt.Run()
}
