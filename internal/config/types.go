package config

// Config holds all configuration for the application.
type Config struct {
	APIURL             string
	Port               string
	DBName             string
	Turso              TursoConfig
	Slack              SlackConfig
	ProjectID          string
	AuditTopic         string
	CSRFKey            string
	LoginRatePerMinute int
	Resources          Resources
}

type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

type SlackConfig struct {
	Token     string
	ChannelID string
}

// Resource declares how one remote collection is fetched and exported.
type Resource struct {
	Path      string `toml:"path"`
	Envelope  string `toml:"envelope"`
	Fallback  string `toml:"fallback_key"`
	Cap       int    `toml:"cap"`
	Delimiter string `toml:"delimiter"`
	Filename  string `toml:"filename"`
}

// Resources is keyed by resource name (users, clubs, ...).
type Resources map[string]Resource
