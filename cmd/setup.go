package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"tiksave-bot/infrastructure/config"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

// Prompter interface for interactive prompts (allows mocking in tests)
type Prompter interface {
	Input(message string, defaultValue string) (string, error)
	Confirm(message string, defaultValue bool) (bool, error)
}

// SurveyPrompter implements Prompter using the survey library
type SurveyPrompter struct{}

func (p *SurveyPrompter) Input(message string, defaultValue string) (string, error) {
	result := ""
	prompt := &survey.Input{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return "", err
	}
	return result, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultValue bool) (bool, error) {
	result := defaultValue
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultValue,
	}
	if err := survey.AskOne(prompt, &result); err != nil {
		return false, err
	}
	return result, nil
}

// DefaultPrompter is the prompter used in production
var DefaultPrompter Prompter = &SurveyPrompter{}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create configuration file interactively",
	Long: `Prompts for configuration values and creates config.yaml.

This command guides you through setting up the extraction API endpoint,
temp storage, audio bitrate and logging. The bot token is NOT stored in
the file; it always comes from the ` + config.EnvBotToken + ` environment
variable.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	return RunSetupWithPrompter(DefaultPrompter, config.DefaultConfigPath)
}

// RunSetupWithPrompter runs the setup with a given prompter (for testing)
func RunSetupWithPrompter(prompter Prompter, configPath string) error {
	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		overwrite, err := prompter.Confirm("config.yaml already exists. Overwrite?", false)
		if err != nil {
			return fmt.Errorf("prompt cancelled")
		}
		if !overwrite {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	fmt.Println("Welcome to tiksave-bot setup!")
	fmt.Println()

	cfg := config.DefaultConfig()

	if err := promptAPI(prompter, cfg); err != nil {
		return err
	}

	if err := promptStorage(prompter, cfg); err != nil {
		return err
	}

	if err := promptAudio(prompter, cfg); err != nil {
		return err
	}

	if err := promptOps(prompter, cfg); err != nil {
		return err
	}

	if err := promptLog(prompter, cfg); err != nil {
		return err
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Save configuration
	if err := config.Save(cfg, configPath); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Println()
	fmt.Printf("Configuration saved to %s\n", configPath)
	fmt.Printf("Set the %s environment variable before running 'tiksave-bot serve'.\n", config.EnvBotToken)
	return nil
}

func promptAPI(prompter Prompter, cfg *config.Config) error {
	baseURL, err := prompter.Input("Extraction API endpoint?", cfg.API.BaseURL)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if baseURL == "" {
		return fmt.Errorf("extraction API endpoint is required")
	}
	cfg.API.BaseURL = baseURL
	return nil
}

func promptStorage(prompter Prompter, cfg *config.Config) error {
	tempDir, err := prompter.Input("Where should downloads be stored temporarily?", cfg.Storage.TempDirectory)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if tempDir == "" {
		return fmt.Errorf("temp directory is required")
	}
	cfg.Storage.TempDirectory = tempDir
	return nil
}

func promptAudio(prompter Prompter, cfg *config.Config) error {
	bitrate, err := prompter.Input("Audio bitrate for mp3 extraction?", cfg.Audio.Bitrate)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if bitrate != "" {
		cfg.Audio.Bitrate = bitrate
	}
	return nil
}

func promptOps(prompter Prompter, cfg *config.Config) error {
	enable, err := prompter.Confirm("Expose a health endpoint for monitoring?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if !enable {
		cfg.Ops.ListenAddr = ""
		return nil
	}

	addr, err := prompter.Input("  Listen address:", ":8080")
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	if addr == "" {
		addr = ":8080"
	}
	cfg.Ops.ListenAddr = addr
	return nil
}

func promptLog(prompter Prompter, cfg *config.Config) error {
	pretty, err := prompter.Confirm("Pretty console logs (instead of JSON)?", false)
	if err != nil {
		return fmt.Errorf("prompt cancelled")
	}
	cfg.Log.Pretty = pretty
	return nil
}
