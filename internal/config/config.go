package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/oshokin/jetlist-session/internal/constants"
	"github.com/oshokin/jetlist-session/internal/logger"
)

// Config holds all configuration settings.
type Config struct {
	// APIKey is the Firebase web API key.
	APIKey string `mapstructure:"api_key"`
	// AuthDomain is the Firebase auth domain (e.g. "project.firebaseapp.com").
	AuthDomain string `mapstructure:"auth_domain"`
	// ProjectID is the Firebase project identifier.
	ProjectID string `mapstructure:"project_id"`
	// StorageBucket is the Firebase storage bucket.
	StorageBucket string `mapstructure:"storage_bucket"`
	// MessagingSenderID is the Firebase Cloud Messaging sender ID.
	MessagingSenderID string `mapstructure:"messaging_sender_id"`
	// AppID is the Firebase app ID; it is sent to the provider as X-Firebase-Gmpid.
	AppID string `mapstructure:"app_id"`
	// MeasurementID is the Google Analytics measurement ID.
	MeasurementID string `mapstructure:"measurement_id"`
	// AuthEmulatorHost points the identity client at a local Firebase Auth emulator (host:port).
	AuthEmulatorHost string `mapstructure:"auth_emulator_host"`
	// GraphQLURL is the endpoint of the backend GraphQL API that stores user records.
	GraphQLURL string `mapstructure:"graphql_url"`
	// Persistence selects where the session survives between runs: "local" or "none".
	Persistence string `mapstructure:"persistence"`
	// RefreshToken is the persisted session, written back after every sign-in.
	RefreshToken string `mapstructure:"refresh_token"`
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// RequestTimeout bounds every outgoing HTTP request (e.g. "30s").
	RequestTimeout string `mapstructure:"request_timeout"`
	// IdentityToolkitURL is the base URL of the Identity Toolkit API (set automatically).
	IdentityToolkitURL string
	// SecureTokenURL is the base URL of the Secure Token API (set automatically).
	SecureTokenURL string
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedRequestTimeout is the parsed request timeout.
	ParsedRequestTimeout time.Duration
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".jetlist-session.yaml"

	// EnvPrefix is the prefix of environment variables overriding the configuration file.
	EnvPrefix = "JETLIST"

	// IdentityToolkitURL is the production base URL of the Identity Toolkit API.
	IdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"

	// SecureTokenURL is the production base URL of the Secure Token API.
	SecureTokenURL = "https://securetoken.googleapis.com/v1"

	// PersistenceLocal keeps the refresh token in the configuration file.
	PersistenceLocal = "local"

	// PersistenceNone keeps the session in memory only.
	PersistenceNone = "none"

	// DefaultRequestTimeout is used when request_timeout is not set.
	DefaultRequestTimeout = 30 * time.Second

	// refreshTokenKey is the YAML key holding the persisted session.
	refreshTokenKey = "refresh_token"
)

// Static error definitions for better error handling.
var (
	// ErrMissingSetting indicates that a required setting is absent.
	ErrMissingSetting = errors.New("required setting is missing")
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidPersistence indicates that the persistence mode is not recognized.
	ErrInvalidPersistence = errors.New("invalid persistence mode")
	// ErrInvalidRequestTimeout indicates that the request timeout is not positive.
	ErrInvalidRequestTimeout = errors.New("request_timeout must be positive")
	// ErrInvalidGraphQLURL indicates that the GraphQL endpoint is not an absolute URL.
	ErrInvalidGraphQLURL = errors.New("graphql_url must be an absolute http(s) URL")
)

// envBoundKeys lists every key that may be supplied through JETLIST_* variables.
//
//nolint:gochecknoglobals // Immutable list used as a constant.
var envBoundKeys = []string{
	"api_key",
	"auth_domain",
	"project_id",
	"storage_bucket",
	"messaging_sender_id",
	"app_id",
	"measurement_id",
	"auth_emulator_host",
	"graphql_url",
	"persistence",
	refreshTokenKey,
	"log_level",
	"request_timeout",
}

// LoadConfig loads configuration settings from a YAML file and the environment.
// The default file is optional, an explicitly named one is not.
func LoadConfig(configFilename string) (*Config, error) {
	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	viper.SetConfigFile(configFilename)
	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("persistence", PersistenceLocal)
	viper.SetDefault("log_level", "info")
	viper.SetDefault("request_timeout", DefaultRequestTimeout.String())

	for _, key := range envBoundKeys {
		if err := viper.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		if isExplicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	required := []struct {
		key   string
		value string
	}{
		{key: "api_key", value: cfg.APIKey},
		{key: "auth_domain", value: cfg.AuthDomain},
		{key: "project_id", value: cfg.ProjectID},
		{key: "app_id", value: cfg.AppID},
		{key: "graphql_url", value: cfg.GraphQLURL},
	}

	for _, setting := range required {
		if strings.TrimSpace(setting.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingSetting, setting.key)
		}
	}

	graphQLURL, err := url.Parse(cfg.GraphQLURL)
	if err != nil || !graphQLURL.IsAbs() || (graphQLURL.Scheme != "http" && graphQLURL.Scheme != "https") {
		return fmt.Errorf("%w: '%s'", ErrInvalidGraphQLURL, cfg.GraphQLURL)
	}

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	cfg.Persistence = strings.ToLower(strings.TrimSpace(cfg.Persistence))
	switch cfg.Persistence {
	case "":
		cfg.Persistence = PersistenceLocal
	case PersistenceLocal, PersistenceNone:
	default:
		return fmt.Errorf("%w: '%s' (expected '%s' or '%s')",
			ErrInvalidPersistence, cfg.Persistence, PersistenceLocal, PersistenceNone)
	}

	cfg.ParsedRequestTimeout = DefaultRequestTimeout

	if strings.TrimSpace(cfg.RequestTimeout) != "" {
		cfg.ParsedRequestTimeout, err = time.ParseDuration(cfg.RequestTimeout)
		if err != nil {
			return fmt.Errorf("failed to parse request timeout: %w", err)
		}

		if cfg.ParsedRequestTimeout <= 0 {
			return ErrInvalidRequestTimeout
		}
	}

	cfg.IdentityToolkitURL = IdentityToolkitURL
	cfg.SecureTokenURL = SecureTokenURL

	// The emulator serves both APIs under its own host, prefixed by the production host name.
	if emulatorHost := strings.TrimSpace(cfg.AuthEmulatorHost); emulatorHost != "" {
		emulatorHost = strings.TrimSuffix(strings.TrimPrefix(emulatorHost, "http://"), "/")
		cfg.IdentityToolkitURL = "http://" + emulatorHost + "/identitytoolkit.googleapis.com/v1"
		cfg.SecureTokenURL = "http://" + emulatorHost + "/securetoken.googleapis.com/v1"
	}

	return nil
}

// SaveSession writes cfg.RefreshToken to the configuration file while preserving the original format and order.
// An empty token clears the persisted session. A missing file is created.
func SaveSession(cfg *Config) error {
	configFile := getConfigFilePath()

	// Read the original file content.
	originalContent, err := os.ReadFile(configFile)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to read config file: %w", err)
		}

		// Nothing to clear in a file that does not exist.
		if cfg.RefreshToken == "" {
			return nil
		}

		originalContent = nil
	}

	// Parse YAML while preserving order using yaml.Node.
	var node yaml.Node
	if err = yaml.Unmarshal(originalContent, &node); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	setValueInNode(&node, refreshTokenKey, cfg.RefreshToken)

	// Marshal back to YAML (preserves order).
	newContent, err := yaml.Marshal(&node)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}

	// The file now holds a credential, so it is written owner-only.
	if err = os.WriteFile(configFile, newContent, constants.SecretFilePermissions); err != nil {
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

// setValueInNode updates or appends a top-level scalar in the YAML node tree.
func setValueInNode(node *yaml.Node, key, value string) {
	// An empty document gets a fresh mapping.
	if len(node.Content) == 0 {
		node.Kind = yaml.DocumentNode
		node.Content = []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}
	}

	// The root node is a document node, content[0] is the actual map.
	if node.Content[0].Kind != yaml.MappingNode {
		return
	}

	mapNode := node.Content[0]

	// Iterate through key-value pairs (stored as alternating nodes).
	for i := 0; i+1 < len(mapNode.Content); i += 2 {
		keyNode := mapNode.Content[i]
		valueNode := mapNode.Content[i+1]

		if keyNode.Value != key {
			continue
		}

		valueNode.Kind = yaml.ScalarNode
		valueNode.Tag = "!!str"
		valueNode.Value = value

		// Ensure it's quoted if it contains special characters.
		if valueNode.Style == 0 {
			valueNode.Style = yaml.DoubleQuotedStyle
		}

		return
	}

	mapNode.Content = append(mapNode.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value, Style: yaml.DoubleQuotedStyle},
	)
}
