// chatbotctl is the operations CLI: database migrations, fixture seeding,
// and operator account management.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dojotek/chatbot/internal/config"
	"github.com/dojotek/chatbot/internal/logger"
	"github.com/dojotek/chatbot/internal/version"
)

func main() {
	root := &cobra.Command{
		Use:           "chatbotctl",
		Short:         "Operations CLI for the chatbot server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to config.toml (falls back to CONFIG_PATH)")

	root.AddCommand(
		newMigrateCmd(),
		newSeedCmd(),
		newCreateUserCmd(),
		newVersionCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "chatbotctl: %v\n", err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the chatbotctl version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("chatbotctl %s\n", version.GetInfo())
		},
	}
}

// loadConfig resolves the config path from the flag or CONFIG_PATH and
// initializes logging from it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if strings.TrimSpace(path) == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}
