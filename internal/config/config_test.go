package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func validConfig() Config {
	cfg := Config{
		HTTP:   HTTPConfig{Port: 8080},
		Places: PlacesConfig{APIKey: "test-key"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Places.APIKey = "  "

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for missing api key")
	}
	if err.Error() != "places.api_key is required" {
		t.Errorf("unexpected error: %q", err.Error())
	}
}

func TestValidate_RadiusTooLarge(t *testing.T) {
	cfg := validConfig()
	cfg.Places.RadiusMeters = MaxRadiusMeters + 1

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for radius over provider limit")
	}
}

func TestValidate_EmptyCategory(t *testing.T) {
	cfg := validConfig()
	cfg.Places.Categories = []string{"bank", ""}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty category")
	}
}

func TestValidate_CacheDrivers(t *testing.T) {
	tests := []struct {
		driver  string
		addrs   []string
		wantErr bool
	}{
		{CacheDriverNone, nil, false},
		{CacheDriverRedis, []string{"localhost:6379"}, false},
		{CacheDriverRedis, nil, true},
		{"memcached", []string{"localhost:11211"}, true},
	}
	for _, tc := range tests {
		t.Run("driver="+tc.driver, func(t *testing.T) {
			cfg := validConfig()
			cfg.Cache.Driver = tc.driver
			cfg.Cache.Addrs = tc.addrs

			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestValidateProvider_IgnoresPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.ValidateProvider(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Places.RadiusMeters != 1500 {
		t.Errorf("expected RadiusMeters=1500, got %d", cfg.Places.RadiusMeters)
	}
	if !reflect.DeepEqual(cfg.Places.Categories, DefaultCategories) {
		t.Errorf("expected default categories, got %v", cfg.Places.Categories)
	}
	if cfg.Places.StaggerMs != 200 {
		t.Errorf("expected StaggerMs=200, got %d", cfg.Places.StaggerMs)
	}
	if cfg.Places.TimeoutSec != 8 {
		t.Errorf("expected TimeoutSec=8, got %d", cfg.Places.TimeoutSec)
	}
	if cfg.Analysis.MaxWorkingSet != 50 {
		t.Errorf("expected MaxWorkingSet=50, got %d", cfg.Analysis.MaxWorkingSet)
	}
	if cfg.Analysis.IssuePreview != 10 {
		t.Errorf("expected IssuePreview=10, got %d", cfg.Analysis.IssuePreview)
	}
	if cfg.Cache.Driver != CacheDriverNone {
		t.Errorf("expected cache driver none, got %q", cfg.Cache.Driver)
	}
	if cfg.Cache.NearbyTTLSec != 3600 {
		t.Errorf("expected NearbyTTLSec=3600, got %d", cfg.Cache.NearbyTTLSec)
	}
	if cfg.Cache.KeyPrefix != "placeqa:" {
		t.Errorf("expected KeyPrefix='placeqa:', got %q", cfg.Cache.KeyPrefix)
	}
}

func TestApplyDefaults_DoesNotAliasDefaultCategories(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Places.Categories[0] = "mutated"
	if DefaultCategories[0] != "restaurant" {
		t.Fatal("ApplyDefaults must copy DefaultCategories")
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:     HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Places:   PlacesConfig{RadiusMeters: 500, Categories: []string{"cafe"}, StaggerMs: 50},
		Analysis: AnalysisConfig{MaxWorkingSet: 20, IssuePreview: 5},
		Cache:    CacheConfig{KeyPrefix: "custom:"},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Places.RadiusMeters != 500 || cfg.Places.StaggerMs != 50 {
		t.Errorf("places overridden: %+v", cfg.Places)
	}
	if !reflect.DeepEqual(cfg.Places.Categories, []string{"cafe"}) {
		t.Errorf("categories overridden: %v", cfg.Places.Categories)
	}
	if cfg.Analysis.MaxWorkingSet != 20 {
		t.Errorf("expected MaxWorkingSet=20, got %d", cfg.Analysis.MaxWorkingSet)
	}
	if cfg.Cache.KeyPrefix != "custom:" {
		t.Errorf("expected KeyPrefix='custom:', got %q", cfg.Cache.KeyPrefix)
	}
}

func TestParse_ExpandsEnvVars(t *testing.T) {
	t.Setenv("PLACEQA_TEST_KEY", "from-env")

	cfg, err := Parse([]byte(`
http:
  port: ${PLACEQA_TEST_PORT:-9090}
places:
  api_key: ${PLACEQA_TEST_KEY}
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port from default, got %d", cfg.HTTP.Port)
	}
	if cfg.Places.APIKey != "from-env" {
		t.Errorf("expected api key from env, got %q", cfg.Places.APIKey)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte("http:\n  port: 8081\nplaces:\n  api_key: k\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.HTTP.Port != 8081 {
		t.Errorf("expected port 8081, got %d", cfg.HTTP.Port)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	if _, err := Parse([]byte("http: [")); err == nil {
		t.Fatal("expected parse error")
	}
}
