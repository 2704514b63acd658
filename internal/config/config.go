package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/strava-auth/internal/constants"
	"github.com/oshokin/strava-auth/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// ClientID is the identifier of the registered Strava API application.
	ClientID string `mapstructure:"client_id"`
	// ClientSecret is the secret of the registered Strava API application.
	ClientSecret string `mapstructure:"client_secret"`
	// CallbackURL is the redirect URI registered for the application.
	CallbackURL string `mapstructure:"callback_url"`
	// Scope is the comma-separated list of requested scopes (e.g. "read,activity:read").
	Scope string `mapstructure:"scope"`
	// Email is the account email used to log in.
	Email string `mapstructure:"email"`
	// Password is the account password used to log in.
	Password string `mapstructure:"password"`
	// SiteURL is the base URL of the Strava web site.
	SiteURL string `mapstructure:"site_url"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// MaxLogLength limits the size of logged HTTP dumps (e.g. "1MB", "64KB").
	MaxLogLength string `mapstructure:"max_log_length"`
	// RequestTimeout limits the duration of a single HTTP request (e.g. "30s").
	RequestTimeout string `mapstructure:"request_timeout"`
	// AccessToken is the stored OAuth access token.
	AccessToken string `mapstructure:"access_token"`
	// RefreshToken is the stored OAuth refresh token.
	RefreshToken string `mapstructure:"refresh_token"`
	// TokenType is the type of the stored access token, usually "Bearer".
	TokenType string `mapstructure:"token_type"`
	// ExpiresAt is the expiry of the stored access token as a Unix timestamp.
	ExpiresAt int64 `mapstructure:"expires_at"`
	// ParsedSiteURL is the parsed site URL.
	ParsedSiteURL *url.URL
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedMaxLogLength is the parsed maximum dump size in bytes.
	ParsedMaxLogLength uint64
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
}

const (
	// StravaSiteURL is the base URL of the Strava web site.
	StravaSiteURL = "https://www.strava.com"

	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".strava-auth.yaml"

	// DefaultScope is the scope requested when none is configured.
	DefaultScope = "read"

	// DefaultMaxLogLength is the default maximum size (in bytes) of a logged HTTP dump.
	DefaultMaxLogLength = 1 * 1024 * 1024 // 1 MB

	// DefaultRequestTimeout is the default timeout of a single HTTP request.
	DefaultRequestTimeout = 60 * time.Second

	// envPrefix is the prefix of environment variables overriding file settings.
	envPrefix = "STRAVA_AUTH"
)

// Keys of the token settings written back by SaveConfig.
const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
	tokenTypeKey    = "token_type"
	expiresAtKey    = "expires_at"
)

// Static error definitions for better error handling.
var (
	// ErrEmptyClientID indicates that the application client ID is missing.
	ErrEmptyClientID = errors.New("client_id cannot be empty")
	// ErrEmptyClientSecret indicates that the application client secret is missing.
	ErrEmptyClientSecret = errors.New("client_secret cannot be empty")
	// ErrEmptyCallbackURL indicates that the redirect URI is missing.
	ErrEmptyCallbackURL = errors.New("callback_url cannot be empty")
	// ErrEmptyScope indicates that no scope was requested.
	ErrEmptyScope = errors.New("scope cannot be empty")
	// ErrEmptyEmail indicates that the account email is missing.
	ErrEmptyEmail = errors.New("email cannot be empty")
	// ErrEmptyPassword indicates that the account password is missing.
	ErrEmptyPassword = errors.New("password cannot be empty")
	// ErrInvalidSiteURL indicates that the site URL is not an absolute HTTP(S) URL.
	ErrInvalidSiteURL = errors.New("site_url must be an absolute http(s) URL")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidRequestTimeout indicates that the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrConfigRootNotMapping indicates that the config file is not a YAML mapping.
	ErrConfigRootNotMapping = errors.New("config root is not a mapping")
	// ErrNoStoredToken indicates that the configuration holds no usable token.
	ErrNoStoredToken = errors.New("no stored token, run 'auth login' first")
)

// LoadConfig loads configuration settings from a YAML file.
// Every setting may be overridden by an environment variable, e.g. STRAVA_AUTH_PASSWORD.
func LoadConfig(configFilename string) (*Config, error) {
	if configFilename == "" {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config from file: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key with viper, so environment overrides work
// for keys that are absent from the file.
func setDefaults() {
	viper.SetDefault("client_id", "")
	viper.SetDefault("client_secret", "")
	viper.SetDefault("callback_url", "")
	viper.SetDefault("scope", DefaultScope)
	viper.SetDefault("email", "")
	viper.SetDefault("password", "")
	viper.SetDefault("site_url", StravaSiteURL)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("max_log_length", "")
	viper.SetDefault("request_timeout", "")
	viper.SetDefault(accessTokenKey, "")
	viper.SetDefault(refreshTokenKey, "")
	viper.SetDefault(tokenTypeKey, "")
	viper.SetDefault(expiresAtKey, 0)
}

// ValidateConfig checks the settings shared by every command and sets derived fields.
func ValidateConfig(cfg *Config) error {
	var err error

	cfg.ClientID = strings.TrimSpace(cfg.ClientID)
	if cfg.ClientID == "" {
		return ErrEmptyClientID
	}

	if strings.TrimSpace(cfg.ClientSecret) == "" {
		return ErrEmptyClientSecret
	}

	if cfg.SiteURL == "" {
		cfg.SiteURL = StravaSiteURL
	}

	cfg.ParsedSiteURL, err = url.Parse(strings.TrimSuffix(cfg.SiteURL, "/"))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSiteURL, err)
	}

	if (cfg.ParsedSiteURL.Scheme != "http" && cfg.ParsedSiteURL.Scheme != "https") || cfg.ParsedSiteURL.Host == "" {
		return fmt.Errorf("%w: '%s'", ErrInvalidSiteURL, cfg.SiteURL)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.ParsedMaxLogLength = DefaultMaxLogLength

	if maxLogLength := strings.TrimSpace(cfg.MaxLogLength); maxLogLength != "" {
		cfg.ParsedMaxLogLength, err = humanize.ParseBytes(maxLogLength)
		if err != nil {
			return fmt.Errorf("failed to parse max log length: %w", err)
		}
	}

	cfg.ParsedRequestTimeout = DefaultRequestTimeout

	if requestTimeout := strings.TrimSpace(cfg.RequestTimeout); requestTimeout != "" {
		cfg.ParsedRequestTimeout, err = time.ParseDuration(requestTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse request timeout: %w", err)
		}

		if cfg.ParsedRequestTimeout <= 0 {
			return ErrInvalidRequestTimeout
		}
	}

	return nil
}

// ValidateLoginSettings checks the settings required to run the authorization handshake.
func ValidateLoginSettings(cfg *Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	switch {
	case strings.TrimSpace(cfg.CallbackURL) == "":
		return ErrEmptyCallbackURL
	case strings.TrimSpace(cfg.Scope) == "":
		return ErrEmptyScope
	case strings.TrimSpace(cfg.Email) == "":
		return ErrEmptyEmail
	case cfg.Password == "":
		return ErrEmptyPassword
	}

	return nil
}

// ValidateStoredToken checks that a previously saved token can be used to build a session.
func ValidateStoredToken(cfg *Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}

	if strings.TrimSpace(cfg.AccessToken) == "" || strings.TrimSpace(cfg.RefreshToken) == "" {
		return ErrNoStoredToken
	}

	return nil
}

// SaveConfig writes the token settings to the file while preserving the original format and order.
func SaveConfig(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		return handleMissingConfigFile(configFile, cfg, err)
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	if len(node.Content) == 0 {
		node = *newDocumentNode()
	}

	// Update the token values in the node tree.
	if err = updateTokenInNode(&node, tokenValues(cfg)); err != nil {
		return err
	}

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// Write the file back with preserved order.
	if err = os.WriteFile(configFile, newContent, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigFilePath returns the config file path from viper or the default.
func getConfigFilePath() string {
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		return DefaultConfigFilename
	}

	return configFile
}

// handleMissingConfigFile creates a new config file holding only the token settings.
// Credentials that came from the environment are never written to disk.
func handleMissingConfigFile(configFile string, cfg *Config, err error) error {
	if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if dir := filepath.Dir(configFile); dir != "." {
		if err = os.MkdirAll(dir, constants.DefaultFolderPermissions); err != nil {
			return fmt.Errorf("failed to create config folder: %w", err)
		}
	}

	node := newDocumentNode()
	if err = updateTokenInNode(node, tokenValues(cfg)); err != nil {
		return err
	}

	content, err := yaml.Marshal(node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	if err = os.WriteFile(configFile, content, constants.DefaultFilePermissions); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// tokenValue is a single token setting to be written.
type tokenValue struct {
	key    string
	value  string
	quoted bool
}

func tokenValues(cfg *Config) []tokenValue {
	return []tokenValue{
		{key: accessTokenKey, value: cfg.AccessToken, quoted: true},
		{key: refreshTokenKey, value: cfg.RefreshToken, quoted: true},
		{key: tokenTypeKey, value: cfg.TokenType, quoted: true},
		{key: expiresAtKey, value: strconv.FormatInt(cfg.ExpiresAt, 10)},
	}
}

func newDocumentNode() *yaml.Node {
	return &yaml.Node{
		Kind:    yaml.DocumentNode,
		Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}},
	}
}

// updateTokenInNode sets the token values in the YAML node tree.
// Existing keys keep their position and comments, missing keys are appended.
func updateTokenInNode(node *yaml.Node, values []tokenValue) error {
	// The root node is a document node, content[0] is the actual map.
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return ErrConfigRootNotMapping
	}

	mapNode := node.Content[0]

	for _, v := range values {
		valueNode := findValueNode(mapNode, v.key)
		if valueNode == nil {
			valueNode = &yaml.Node{Kind: yaml.ScalarNode}
			mapNode.Content = append(mapNode.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.key},
				valueNode)
		}

		valueNode.Kind = yaml.ScalarNode
		valueNode.Value = v.value

		if v.quoted {
			valueNode.Tag = "!!str"

			// Ensure it's quoted if it contains special characters.
			if valueNode.Style == 0 {
				valueNode.Style = yaml.DoubleQuotedStyle
			}
		} else {
			valueNode.Tag = "!!int"
			valueNode.Style = 0
		}
	}

	return nil
}

// findValueNode returns the value node for key in a mapping node, or nil.
func findValueNode(mapNode *yaml.Node, key string) *yaml.Node {
	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		if mapNode.Content[i].Value == key {
			return mapNode.Content[i+1]
		}
	}

	return nil
}
