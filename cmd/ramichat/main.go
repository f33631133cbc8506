package main

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ramilabs/ramichat/pkg/api"
	"github.com/ramilabs/ramichat/pkg/config"
	"github.com/ramilabs/ramichat/pkg/i18n"
	"github.com/ramilabs/ramichat/pkg/logger"
	"github.com/ramilabs/ramichat/pkg/tui"
)

var (
	flagConfig   string
	flagEndpoint string
	flagLanguage string
)

var rootCmd = &cobra.Command{
	Use:   "ramichat",
	Short: "Terminal client for the RaMi advisory chat service",
	Long: "ramichat renders a chat transcript in the terminal, posts queries to a\n" +
		"RaMi chat endpoint and collects local like/dislike/comment feedback on\n" +
		"the answers. All chat state is in memory and lost on exit.",
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "~/.ramichat/config.json", "config file path")
	rootCmd.Flags().StringVar(&flagEndpoint, "endpoint", "", "chat service base URL (overrides config)")
	rootCmd.Flags().StringVar(&flagLanguage, "language", "", "UI language, en or ar (overrides config)")
}

func run(cmd *cobra.Command, args []string) error {
	godotenv.Load(".env")

	cfg, err := config.LoadConfig(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagEndpoint != "" {
		cfg.API.BaseURL = flagEndpoint
	}
	if flagLanguage != "" {
		cfg.UI.Language = flagLanguage
	}

	lang, err := i18n.Parse(cfg.UI.Language)
	if err != nil {
		return err
	}

	// The TUI owns the terminal, so logs must go to the configured file.
	if err := logger.Setup(cfg.Log.Level, cfg.LogFile()); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}

	client := api.NewClient(cfg.API.BaseURL, time.Duration(cfg.API.TimeoutSeconds)*time.Second)

	logger.InfoCF("main", "Starting ramichat", map[string]interface{}{
		"endpoint": cfg.API.BaseURL,
		"language": string(lang),
		"clients":  len(cfg.Clients),
	})

	return tui.New(cfg, client, lang).Run()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
