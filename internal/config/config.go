// Package config resolves everything the entry point needs before a request
// can be built: the user's defaults from the config file, and the credential.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/baalimago/pplx/internal/perplexity"
)

const (
	// CredentialEnv is the only place the api key is read from.
	CredentialEnv = "PERPLEXITY_API_KEY"
	ConfigDirEnv  = "PPLX_CONFIG_DIR"
	FileName      = "config.json"
)

type Config struct {
	Model        string `json:"model"`
	MaxTokens    int    `json:"max-tokens"`
	SystemPrompt string `json:"system-prompt"`
	URL          string `json:"url"`
}

var Default = Config{
	Model:        perplexity.DefaultModel,
	MaxTokens:    perplexity.DefaultMaxTokens,
	SystemPrompt: perplexity.DefaultSystemPrompt,
	URL:          perplexity.ChatURL,
}

// Dir returns <UserConfigDir>/.pplx, unless overridden by PPLX_CONFIG_DIR.
func Dir() (string, error) {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir, nil
	}
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(cfg, ".pplx"), nil
}

// Load the config file, creating it with Default if it doesn't exist.
func Load() (Config, error) {
	dir, err := Dir()
	if err != nil {
		return Config{}, err
	}
	dflt := Default
	return LoadConfigFromFile(dir, FileName, &dflt)
}

// Credential reads the api key from the environment. A missing key is a
// configuration error.
func Credential() (string, error) {
	key := strings.TrimSpace(os.Getenv(CredentialEnv))
	if key == "" {
		return "", &perplexity.ClientError{
			Kind:   perplexity.KindConfiguration,
			Detail: fmt.Sprintf("environment variable '%v' not set", CredentialEnv),
		}
	}
	return key, nil
}
