package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/karagol/memorywall/internal/fault"
)

// Config aggregates runtime configuration for the memorywall API.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Upload  UploadConfig
	Gallery GalleryConfig
	Metrics MetricsConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StorageConfig carries object-storage connection details. All four account
// fields are required; there are deliberately no defaults for them so a
// missing deployment secret surfaces as a ConfigurationError instead of a
// request against a phantom endpoint.
type StorageConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	UseSSL          bool
	URLTTL          time.Duration
}

// Validate reports the first missing credential field. Services call this at
// the start of every operation, before any storage work.
func (s StorageConfig) Validate() error {
	switch {
	case s.Endpoint == "":
		return fault.Configurationf("storage endpoint is not set")
	case s.AccessKeyID == "":
		return fault.Configurationf("storage access key is not set")
	case s.SecretAccessKey == "":
		return fault.Configurationf("storage secret key is not set")
	case s.Bucket == "":
		return fault.Configurationf("storage bucket is not set")
	}
	return nil
}

// UploadConfig groups upload-coordination settings.
type UploadConfig struct {
	DefaultContributor string
}

// GalleryConfig groups gallery sampling settings.
type GalleryConfig struct {
	Limit int
	Order string
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// Load reads configuration values from environment variables, applying defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host:         getString("MEMORYWALL_API_HOST", "0.0.0.0"),
			Port:         getInt("MEMORYWALL_API_PORT", 8080),
			ReadTimeout:  getDuration("MEMORYWALL_API_READ_TIMEOUT", 30*time.Second),
			WriteTimeout: getDuration("MEMORYWALL_API_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getDuration("MEMORYWALL_API_IDLE_TIMEOUT", 60*time.Second),
		},
		Storage: StorageConfig{
			Endpoint:        getString("STORAGE_ENDPOINT", ""),
			AccessKeyID:     getString("STORAGE_ACCESS_KEY", ""),
			SecretAccessKey: getString("STORAGE_SECRET_KEY", ""),
			Bucket:          getString("STORAGE_BUCKET", ""),
			Region:          getString("STORAGE_REGION", ""),
			UseSSL:          getBool("STORAGE_USE_SSL", true),
			URLTTL:          getDuration("MEMORYWALL_URL_TTL", time.Hour),
		},
		Upload: UploadConfig{
			DefaultContributor: getString("MEMORYWALL_DEFAULT_CONTRIBUTOR", "Memorial Guest"),
		},
		Gallery: GalleryConfig{
			Limit: getInt("MEMORYWALL_GALLERY_LIMIT", 50),
			Order: strings.ToLower(getString("MEMORYWALL_GALLERY_ORDER", "shuffle")),
		},
		Metrics: MetricsConfig{
			PrometheusPath: getString("MEMORYWALL_METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
