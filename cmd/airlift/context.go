package main

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"airlift/internal/auth"
	"airlift/internal/config"
	"airlift/internal/logging"
	"airlift/internal/services"
	"airlift/internal/services/releaseapi"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.New(logging.Options{
			Level:       cfg.Logging.Level,
			Format:      cfg.Logging.Format,
			OutputPaths: []string{"stderr", cfg.LogFilePath()},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) credentials() (*auth.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return auth.NewStore(cfg.Paths.CredentialsFile), nil
}

// apiClient builds an authenticated client. Callers that must work while
// logged out use credentials directly instead.
func (c *commandContext) apiClient() (releaseapi.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	creds, err := c.credentials()
	if err != nil {
		return nil, err
	}
	token, err := creds.Token()
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			return nil, services.Wrap(services.ErrPrecondition, "auth", creds.Path(), "", err)
		}
		return nil, err
	}
	timeout := time.Duration(cfg.API.TimeoutSeconds) * time.Second
	return releaseapi.NewHTTPClient(cfg.API.BaseURL, token, timeout), nil
}
