package config

import (
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strconv"

	"github.com/vango-dev/cosmos/internal/errors"
	"github.com/vango-dev/cosmos/pkg/proxies/reduxproxy"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "cosmos.json"

	// DefaultPort is the default preview server port.
	DefaultPort = 5000

	// DefaultHost is the default preview server host.
	DefaultHost = "localhost"

	// DefaultFixturesDir is the default fixture directory.
	DefaultFixturesDir = "fixtures"

	// DefaultMetricsPath is where Prometheus metrics are served.
	DefaultMetricsPath = "/metrics"
)

// Config represents the complete cosmos.json configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty"`

	// Fixtures configures where fixtures are read from.
	Fixtures FixturesConfig `json:"fixtures"`

	// Dev configures the preview server.
	Dev DevConfig `json:"dev"`

	// Redux configures the store proxy.
	Redux ReduxConfig `json:"redux"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `json:"metrics"`

	configPath string
}

// FixturesConfig configures the fixture source.
type FixturesConfig struct {
	// Dir is the fixture directory, relative to the config file.
	Dir string `json:"dir,omitempty"`

	// Watch reloads fixtures when their files change.
	Watch bool `json:"watch"`

	// S3 reads fixtures from a bucket instead of Dir when Bucket is set.
	S3 S3Config `json:"s3,omitempty"`
}

// S3Config locates fixtures in S3.
type S3Config struct {
	Bucket string `json:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Region string `json:"region,omitempty"`
}

// DevConfig configures the preview server.
type DevConfig struct {
	Host string `json:"host,omitempty"`
	Port int    `json:"port,omitempty"`
}

// ReduxConfig mirrors the store proxy options.
type ReduxConfig struct {
	FixtureKey        string `json:"fixtureKey,omitempty"`
	AlwaysCreateStore bool   `json:"alwaysCreateStore"`

	// DisableLocalState defaults to true when omitted.
	DisableLocalState *bool `json:"disableLocalState,omitempty"`
}

// MetricsConfig configures the metrics endpoint.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

// New returns a configuration with every default applied.
func New() *Config {
	disable := true
	return &Config{
		Fixtures: FixturesConfig{
			Dir:   DefaultFixturesDir,
			Watch: true,
		},
		Dev: DevConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Redux: ReduxConfig{
			FixtureKey:        reduxproxy.DefaultFixtureKey,
			DisableLocalState: &disable,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
	}
}

// Load reads cosmos.json from dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E103").
				WithSubject(path).
				WithSuggestion("create cosmos.json or run from the project root")
		}
		return nil, errors.New("E101").WithSubject(path).Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E101").
			WithSubject(path).
			WithSuggestion("check that cosmos.json is valid JSON").
			Wrap(err)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromWorkingDir loads the nearest cosmos.json above the working
// directory, falling back to defaults rooted at the working directory when
// none exists.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if errors.HasCode(err, "E103") {
		cfg := New()
		cfg.configPath = filepath.Join(wd, ConfigFileName)
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// Exists reports whether dir contains cosmos.json.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up from startDir to the directory holding cosmos.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E103").WithSubject(startDir)
		}
		dir = parent
	}
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E102").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("E102").WithSubject(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory of the configuration file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Fixtures.Dir == "" {
		c.Fixtures.Dir = DefaultFixturesDir
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Redux.FixtureKey == "" {
		c.Redux.FixtureKey = reduxproxy.DefaultFixtureKey
	}
	if c.Redux.DisableLocalState == nil {
		disable := true
		c.Redux.DisableLocalState = &disable
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

// Validate checks the configuration for unusable values.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("E100").
			WithSubject("dev.port").
			WithDetail("Port must be between 0 and 65535.")
	}
	if c.Metrics.Enabled && (c.Metrics.Path == "" || c.Metrics.Path[0] != '/') {
		return errors.New("E100").
			WithSubject("metrics.path").
			WithDetail("The metrics path must start with '/'.")
	}
	if c.Fixtures.S3.Prefix != "" && c.Fixtures.S3.Bucket == "" {
		return errors.New("E100").
			WithSubject("fixtures.s3").
			WithSuggestion("set fixtures.s3.bucket or remove the prefix")
	}
	return nil
}

// FixturesPath returns the absolute fixture directory.
func (c *Config) FixturesPath() string {
	if filepath.IsAbs(c.Fixtures.Dir) {
		return c.Fixtures.Dir
	}
	return filepath.Join(c.Dir(), c.Fixtures.Dir)
}

// UsesS3 reports whether fixtures are read from S3.
func (c *Config) UsesS3() bool {
	return c.Fixtures.S3.Bucket != ""
}

// DevAddress returns host:port for the preview server.
func (c *Config) DevAddress() string {
	return net.JoinHostPort(c.Dev.Host, strconv.Itoa(c.Dev.Port))
}

// DevURL returns the preview server URL.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ReduxOptions returns the store proxy options described by the config.
// The store factory is not configurable from JSON and must be added by the
// caller.
func (c *Config) ReduxOptions() []reduxproxy.Option {
	disable := true
	if c.Redux.DisableLocalState != nil {
		disable = *c.Redux.DisableLocalState
	}
	return []reduxproxy.Option{
		reduxproxy.WithFixtureKey(c.Redux.FixtureKey),
		reduxproxy.WithAlwaysCreateStore(c.Redux.AlwaysCreateStore),
		reduxproxy.WithDisableLocalState(disable),
	}
}
