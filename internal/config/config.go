package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the placeqa configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Places   PlacesConfig   `yaml:"places"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Cache    CacheConfig    `yaml:"cache"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// PlacesConfig holds the places provider settings.
type PlacesConfig struct {
	APIKey       string   `yaml:"api_key"`
	GeocodeURL   string   `yaml:"geocode_url"`
	NearbyURL    string   `yaml:"nearby_url"`
	Region       string   `yaml:"region"`
	RadiusMeters int      `yaml:"radius_meters"`
	Categories   []string `yaml:"categories"`
	StaggerMs    int      `yaml:"stagger_ms"` // delay between category search starts; negative disables
	TimeoutSec   int      `yaml:"timeout_sec"`
}

// AnalysisConfig holds scoring settings.
type AnalysisConfig struct {
	MaxWorkingSet int `yaml:"max_working_set"`
	IssuePreview  int `yaml:"issue_preview"`
}

// CacheConfig holds provider response cache settings.
type CacheConfig struct {
	Driver           string   `yaml:"driver"` // redis, none (default: none)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	GeocodeTTLSec    int      `yaml:"geocode_ttl_sec"`
	NearbyTTLSec     int      `yaml:"nearby_ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// Cache drivers.
const (
	CacheDriverNone  = "none"
	CacheDriverRedis = "redis"
)

// DefaultCategories are the category searches issued per assessment.
var DefaultCategories = []string{"restaurant", "store", "bank", "hospital", "gas_station", "pharmacy"}

// MaxRadiusMeters is the provider's upper bound for nearby search.
const MaxRadiusMeters = 50000

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}
	return Parse(data)
}

// Parse decodes YAML, expands ${VAR} references, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Places.GeocodeURL == "" {
		c.Places.GeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	}
	if c.Places.NearbyURL == "" {
		c.Places.NearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	}
	if c.Places.RadiusMeters <= 0 {
		c.Places.RadiusMeters = 1500
	}
	if len(c.Places.Categories) == 0 {
		c.Places.Categories = append([]string(nil), DefaultCategories...)
	}
	switch {
	case c.Places.StaggerMs == 0:
		c.Places.StaggerMs = 200
	case c.Places.StaggerMs < 0:
		c.Places.StaggerMs = 0
	}
	if c.Places.TimeoutSec <= 0 {
		c.Places.TimeoutSec = 8
	}
	if c.Analysis.MaxWorkingSet <= 0 {
		c.Analysis.MaxWorkingSet = 50
	}
	if c.Analysis.IssuePreview <= 0 {
		c.Analysis.IssuePreview = 10
	}
	if c.Cache.Driver == "" {
		c.Cache.Driver = CacheDriverNone
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Cache.GeocodeTTLSec <= 0 {
		c.Cache.GeocodeTTLSec = 30 * 24 * 60 * 60
	}
	if c.Cache.NearbyTTLSec <= 0 {
		c.Cache.NearbyTTLSec = 60 * 60
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "placeqa:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	return c.ValidateProvider()
}

// ValidateProvider checks the provider, analysis and cache sections.
func (c *Config) ValidateProvider() error {
	if strings.TrimSpace(c.Places.APIKey) == "" {
		return fmt.Errorf("places.api_key is required")
	}
	if c.Places.RadiusMeters > MaxRadiusMeters {
		return fmt.Errorf("places.radius_meters must be at most %d, got %d", MaxRadiusMeters, c.Places.RadiusMeters)
	}
	for i, cat := range c.Places.Categories {
		if strings.TrimSpace(cat) == "" {
			return fmt.Errorf("places.categories[%d] is empty", i)
		}
	}
	switch c.Cache.Driver {
	case CacheDriverNone:
	case CacheDriverRedis:
		if len(c.Cache.Addrs) == 0 {
			return fmt.Errorf("cache.addrs is required for driver %q", c.Cache.Driver)
		}
	default:
		return fmt.Errorf("cache.driver must be %q or %q, got %q", CacheDriverRedis, CacheDriverNone, c.Cache.Driver)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
