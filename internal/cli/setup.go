package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"github.com/reportchat/reportchat/internal/adapter"
	"github.com/reportchat/reportchat/internal/config"
	"github.com/reportchat/reportchat/internal/logging"
	"github.com/reportchat/reportchat/internal/session"
)

// loadSession loads the config and the persisted session state. Config and
// state problems never block a command; both fall back to defaults.
func loadSession() (config.Config, *session.Store, *session.State, error) {
	cfg, err := config.Load()
	if err != nil {
		logging.Logger.Warn().Err(err).Msg("config unreadable, using defaults")
	}
	color.NoColor = color.NoColor || !cfg.Output.Color

	statePath, err := cfg.StateFilePath()
	if err != nil {
		return cfg, nil, nil, fmt.Errorf("resolve state path: %w", err)
	}

	store := session.NewStore(statePath)
	return cfg, store, store.Load(), nil
}

// newClient builds the OpenAI adapter, requiring an API key from the
// config file or the environment.
func newClient(cfg config.Config) (*adapter.OpenAI, error) {
	key := cfg.Keys.OpenAI
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key == "" {
		return nil, fmt.Errorf("no OpenAI API key: set OPENAI_API_KEY or keys.openai in the config")
	}
	return adapter.NewOpenAI(key, time.Duration(cfg.Upload.PollIntervalMs)*time.Millisecond), nil
}
