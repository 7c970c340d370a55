package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stagehand",
	Short: "Stagehand is a session and authentication backend",
	Long: `A session and authentication backend: username/password registration and
login producing a bearer token, plus three-stage session records that
clients advance through while persisting per-stage payloads.`,
}

func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
