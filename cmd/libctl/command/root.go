package command

// root.go defines the libctl root command and its shared setup.

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"library-backend/internal/config"
	"library-backend/pkg/logger"
)

var (
	envFile string
	cfg     *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "libctl",
	Short: "libctl - library backend administration",
	Long: `libctl manages a library-backend deployment. It reads the same
environment variables as the API server and can:
- apply and inspect database migrations
- create user accounts without going through the HTTP API`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env là optional, giống API server
		_ = godotenv.Load(envFile)

		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		logger.Init(cfg.App.Environment, cfg.App.LogLevel)
		return nil
	},
}

// Execute runs the root command. Called once from main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "path to an optional .env file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(userCmd)
}
