package cmd

import (
	"fmt"
	"os"

	"tiksave-bot/infrastructure/config"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	cfgFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tiksave-bot",
	Short: "Telegram bot that saves TikTok videos and photo posts",
	Long: `tiksave-bot watches a Telegram chat for TikTok links and sends the
media back into the chat:

  - Videos come back as a video file plus an mp3 audio track
  - Photo posts come back as a photo album

Example:
  tiksave-bot serve
  tiksave-bot download --url "https://vt.tiktok.com/ZS1234567/" --output ./saved`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config/config.yaml)")
}

func initConfig() {
	if cfgFile == "" {
		cfgFile = config.DefaultConfigPath
	}

	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		// Config file is optional for some commands (like help)
		// Commands that need config will check and error appropriately
		cfg = nil
	}
}

// GetConfig returns the loaded configuration
func GetConfig() *config.Config {
	return cfg
}
