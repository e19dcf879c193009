package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriBoard/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and open the board",
	Long:  `Make the specified profile active and immediately open the board.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		profileName := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if err := cfg.Use(profileName); err != nil {
			log.Fatalf("%v", err)
		}
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		globalOpts.Profile = profileName
		runBoard(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
