package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"letitbit/client"
	"letitbit/internal/config"
)

const (
	configKey    = "config"
	apiKeyKey    = "api-key"
	endpointKey  = "endpoint"
	logLevelKey  = "log-level"
	timeoutKey   = "timeout"
	selectionKey = "selection"
	protocolKey  = "protocol"
	projectKey   = "project"
)

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "letitbit",
		Short:         "Command line client for the letitbit file hosting API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.String(configKey, "", "path to JSON config file")
	flags.String(apiKeyKey, "", "API key")
	flags.String(endpointKey, config.DefaultEndpoint, "API endpoint URL")
	flags.String(logLevelKey, config.DefaultLogLevel, "log level (debug|info|warn|error)")
	flags.Duration(timeoutKey, config.DefaultRequestTimeout*time.Millisecond, "API request timeout")
	flags.String(selectionKey, config.DefaultServerSelection, "upload server selection (lowest-load|random|round-robin)")
	flags.String(protocolKey, string(config.DefaultProtocol), "upload protocol (ftp|http)")
	flags.String(projectKey, config.DefaultProject, "project for user and key operations")

	mustBindFlag(configKey, "LETITBIT_CONFIG", flags.Lookup(configKey))
	mustBindFlag(apiKeyKey, "LETITBIT_API_KEY", flags.Lookup(apiKeyKey))
	mustBindFlag(endpointKey, "LETITBIT_ENDPOINT", flags.Lookup(endpointKey))
	mustBindFlag(logLevelKey, "LETITBIT_LOG_LEVEL", flags.Lookup(logLevelKey))
	mustBindFlag(timeoutKey, "LETITBIT_TIMEOUT", flags.Lookup(timeoutKey))
	mustBindFlag(selectionKey, "LETITBIT_SELECTION", flags.Lookup(selectionKey))
	mustBindFlag(protocolKey, "LETITBIT_PROTOCOL", flags.Lookup(protocolKey))
	mustBindFlag(projectKey, "LETITBIT_PROJECT", flags.Lookup(projectKey))

	cmd.AddCommand(
		newKeyInfoCommand(),
		newUploadCommand(),
		newServersCommand(),
		newCheckLinkCommand(),
		newFileInfoCommand(),
		newListCommand(),
		newFoldersCommand(),
		newRemoveCommand(),
		newRenameCommand(),
		newUserInfoCommand(),
		newControllersCommand(),
		newMethodsCommand(),
		newConvertCommand(),
	)

	return cmd
}

func mustBindFlag(key, env string, flag *pflag.Flag) {
	if flag == nil {
		panic(fmt.Sprintf("flag for key %s not found", key))
	}
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
	if env != "" {
		if err := viper.BindEnv(key, env); err != nil {
			panic(err)
		}
	}
}

// loadSettings reads the config file and lets flags and environment
// variables override it
func loadSettings(v *viper.Viper) (*config.Config, error) {
	cfg, err := config.LoadWithDefaults(v.GetString(configKey))
	if err != nil {
		return nil, err
	}

	if v.IsSet(apiKeyKey) {
		cfg.APIKey = v.GetString(apiKeyKey)
	}
	if v.IsSet(endpointKey) {
		cfg.Endpoint = v.GetString(endpointKey)
	}
	if v.IsSet(logLevelKey) {
		cfg.LogLevel = strings.ToLower(v.GetString(logLevelKey))
	}
	if v.IsSet(timeoutKey) {
		cfg.RequestTimeout = int(v.GetDuration(timeoutKey) / time.Millisecond)
	}
	if v.IsSet(selectionKey) {
		cfg.ServerSelection = v.GetString(selectionKey)
	}
	if v.IsSet(protocolKey) {
		cfg.Protocol = config.Protocol(strings.ToLower(v.GetString(protocolKey)))
	}
	if v.IsSet(projectKey) {
		cfg.Project = v.GetString(projectKey)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if cfg.APIKey == "" {
		return nil, errors.New("API key is required (--api-key or LETITBIT_API_KEY)")
	}
	return cfg, nil
}

// clientConfig maps the settings onto the client configuration
func clientConfig(cfg *config.Config, logger zerolog.Logger) client.Config {
	cc := client.Config{
		APIKey:         cfg.APIKey,
		Endpoint:       cfg.Endpoint,
		PanelURL:       cfg.PanelURL,
		Project:        cfg.Project,
		ConnectTimeout: cfg.GetConnectTimeoutDuration(),
		RequestTimeout: cfg.GetRequestTimeoutDuration(),
		FTPTimeout:     cfg.GetFTPTimeoutDuration(),
		Selection:      client.SelectionPolicy(cfg.ServerSelection),
		Logger:         &logger,
	}
	if cfg.IsCacheEnabled() {
		cc.CacheSize = cfg.Cache.Size
		cc.CacheTTL = cfg.Cache.GetTTLDuration()
	}
	return cc
}

// session bundles what a subcommand needs
type session struct {
	cfg    *config.Config
	client *client.Client
	logger zerolog.Logger
}

func openSession() (*session, error) {
	cfg, err := loadSettings(viper.GetViper())
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg.LogLevel)
	c, err := client.New(clientConfig(cfg, logger))
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, client: c, logger: logger}, nil
}

// withSession runs fn with a client that is closed afterwards
func withSession(fn func(cmd *cobra.Command, args []string, s *session) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.client.Close()
		return fn(cmd, args, s)
	}
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
