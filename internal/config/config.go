package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"issue-sync/internal/model"
)

// Config is the full connector configuration, loaded from a yaml file
// with ISSUESYNC_* environment overrides.
type Config struct {
	Server struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"server"`

	DB struct {
		Path string `mapstructure:"path"`
	} `mapstructure:"db"`

	GitHub struct {
		Token             string  `mapstructure:"token"`
		Owner             string  `mapstructure:"owner"`
		Repo              string  `mapstructure:"repo"`
		BaseURL           string  `mapstructure:"baseUrl"`
		PageSize          int     `mapstructure:"pageSize"`
		RequestsPerSecond float64 `mapstructure:"requestsPerSecond"`
	} `mapstructure:"github"`

	Firestore struct {
		ProjectID       string `mapstructure:"projectId"`
		Collection      string `mapstructure:"collection"`
		CredentialsFile string `mapstructure:"credentialsFile"`
	} `mapstructure:"firestore"`

	Sync struct {
		Interval string `mapstructure:"interval"`
		State    string `mapstructure:"state"`
		Workers  int    `mapstructure:"workers"`
		Timeout  string `mapstructure:"timeout"`
	} `mapstructure:"sync"`

	Logging struct {
		JSON bool `mapstructure:"json"`
	} `mapstructure:"logging"`
}

// Load reads the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("db.path", "issue-sync.db")
	v.SetDefault("github.pageSize", 100)
	v.SetDefault("github.requestsPerSecond", 2.0)
	v.SetDefault("firestore.collection", "issues")
	v.SetDefault("sync.interval", "5m")
	v.SetDefault("sync.state", "all")
	v.SetDefault("sync.workers", 2)
	v.SetDefault("sync.timeout", "5m")

	v.SetEnvPrefix("ISSUESYNC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "reading config %s", path)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}
	return &cfg, nil
}

// Validate checks the fields without defaults.
func (c *Config) Validate() error {
	if c.GitHub.Owner == "" || c.GitHub.Repo == "" {
		return errors.New("github.owner and github.repo are required")
	}
	if c.Firestore.ProjectID == "" {
		return errors.New("firestore.projectId is required")
	}
	return nil
}

// JobSpec builds the sync job spec used by the poller and as the
// default for API-triggered runs.
func (c *Config) JobSpec() model.SyncJobSpec {
	return model.SyncJobSpec{
		Owner:      c.GitHub.Owner,
		Repo:       c.GitHub.Repo,
		State:      c.Sync.State,
		Collection: c.Firestore.Collection,
		PageSize:   c.GitHub.PageSize,
		Workers:    c.Sync.Workers,
		JobTimeout: c.Sync.Timeout,
	}
}
