package cmd

import (
	"context"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriBoard/internal/app"
)

var globalOpts app.Options

var rootCmd = &cobra.Command{
	Use:   "roriboard",
	Short: "A bulletin board in your terminal",
	Long:  `RoriBoard is a terminal client for the Rori bulletin board: browse, post, comment and like.`,
	Run: func(cmd *cobra.Command, args []string) {
		runBoard(cmd.Context())
	},
}

// runBoard starts the interactive board with the global options.
func runBoard(ctx context.Context) {
	if ctx == nil {
		ctx = context.Background()
	}
	application, err := app.NewApplication(ctx, globalOpts)
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&globalOpts.Profile, "profile", "p", "", "profile to use for this run")
	rootCmd.PersistentFlags().BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "write debug logs")

	rootCmd.AddCommand(profileCmd)
}
