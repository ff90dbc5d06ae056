package config

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

//go:embed resources.toml
var defaultResources []byte

const (
	defaultPort       = "8080"
	defaultDBName     = "paddio-admin.db"
	defaultAuditTopic = "paddio-admin-audit"
	defaultLoginRate  = 10
	defaultDelimiter  = ","
)

// Load reads configuration from environment variables and .env file.
func Load() Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, reading from environment variables")
	}

	cfg, err := load(os.LookupEnv)
	if err != nil {
		log.Fatalf("Error: %s", err)
	}
	return cfg
}

func load(lookup func(string) (string, bool)) (Config, error) {
	// A helper function to get a required env var.
	var missing []string
	getEnv := func(key string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return value
		}
		missing = append(missing, key)
		return ""
	}
	optional := func(key, fallback string) string {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			return value
		}
		return fallback
	}

	cfg := Config{
		APIURL: strings.TrimRight(getEnv("PADDIO_API_URL"), "/"),
		Port:   optional("PORT", defaultPort),
		DBName: optional("DB_NAME", defaultDBName),
		Turso: TursoConfig{
			PrimaryURL: optional("TURSO_PRIMARY_URL", ""),
			AuthToken:  optional("TURSO_AUTH_TOKEN", ""),
		},
		Slack: SlackConfig{
			Token:     optional("SLACK_BOT_TOKEN", ""),
			ChannelID: optional("SLACK_CHANNEL_ID", ""),
		},
		ProjectID:  optional("GCP_PROJECT", ""),
		AuditTopic: optional("AUDIT_TOPIC", defaultAuditTopic),
		CSRFKey:    optional("CSRF_KEY", ""),
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variable %s is not set", strings.Join(missing, ", "))
	}

	rate, err := strconv.Atoi(optional("LOGIN_RATE_PER_MINUTE", strconv.Itoa(defaultLoginRate)))
	if err != nil || rate < 1 {
		log.Warn("Invalid LOGIN_RATE_PER_MINUTE, using default", "default", defaultLoginRate)
		rate = defaultLoginRate
	}
	cfg.LoginRatePerMinute = rate

	resources, err := LoadResources(optional("RESOURCES_FILE", ""))
	if err != nil {
		return Config{}, err
	}
	cfg.Resources = resources
	return cfg, nil
}

// LoadResources parses the resource table. An empty path uses the embedded
// defaults; a file only needs to list the resources it overrides.
func LoadResources(path string) (Resources, error) {
	resources, err := parseResources(defaultResources)
	if err != nil {
		return nil, fmt.Errorf("parse embedded resources: %w", err)
	}
	if strings.TrimSpace(path) == "" {
		return withDefaults(resources), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read resources file: %w", err)
	}
	overrides, err := parseResources(data)
	if err != nil {
		return nil, fmt.Errorf("parse resources file %s: %w", path, err)
	}
	for name, res := range overrides {
		resources[name] = merge(resources[name], res)
	}
	log.Info("Loaded resource overrides", "path", path, "count", len(overrides))
	return withDefaults(resources), nil
}

func parseResources(data []byte) (Resources, error) {
	var raw struct {
		Resources Resources `toml:"resources"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Resources == nil {
		return Resources{}, nil
	}
	return raw.Resources, nil
}

func withDefaults(resources Resources) Resources {
	out := make(Resources, len(resources))
	for name, res := range resources {
		if res.Delimiter == "" {
			res.Delimiter = defaultDelimiter
		}
		if res.Envelope == "" {
			res.Envelope = "array"
		}
		if res.Filename == "" {
			res.Filename = name
		}
		out[name] = res
	}
	return out
}

func merge(base, override Resource) Resource {
	if override.Path != "" {
		base.Path = override.Path
	}
	if override.Envelope != "" {
		base.Envelope = override.Envelope
	}
	if override.Fallback != "" {
		base.Fallback = override.Fallback
	}
	if override.Cap > 0 {
		base.Cap = override.Cap
	}
	if override.Delimiter != "" {
		base.Delimiter = override.Delimiter
	}
	if override.Filename != "" {
		base.Filename = override.Filename
	}
	return base
}

// DelimiterRune returns the CSV delimiter as a rune, defaulting to a comma.
func (r Resource) DelimiterRune() rune {
	for _, c := range r.Delimiter {
		return c
	}
	return ','
}
