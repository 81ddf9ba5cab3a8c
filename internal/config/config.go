package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Analysis  AnalysisConfig  `mapstructure:"analysis"`
	Nutrition NutritionConfig `mapstructure:"nutrition"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Archive   ArchiveConfig   `mapstructure:"archive"`
}

type ServerConfig struct {
	Port int        `mapstructure:"port"`
	Mode string     `mapstructure:"mode"`
	CORS CORSConfig `mapstructure:"cors"`
	// MaxUploadBytes bounds the whole multipart analyze request.
	MaxUploadBytes int64 `mapstructure:"max_upload_bytes"`
}

type CORSConfig struct {
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	AllowAllOrigins bool     `mapstructure:"allow_all_origins"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"` // sqlite or postgres
	Path   string `mapstructure:"path"`   // sqlite file path

	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"ssl_mode"`

	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN builds the driver-specific connection string.
func (c *DatabaseConfig) DSN() string {
	if c.Driver == "postgres" {
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
	}
	return c.Path
}

// AnalysisConfig holds the tunable constants of the confidence policy.
// The defaults are hand-picked placeholders; a trained model will replace
// them with calibrated values.
type AnalysisConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MinPhotos           int     `mapstructure:"min_photos"`
	MaxPhotos           int     `mapstructure:"max_photos"`
	PreferredPhotos     int     `mapstructure:"preferred_photos"`
	PhotoBonus          float64 `mapstructure:"photo_bonus"`
	PhotoPenalty        float64 `mapstructure:"photo_penalty"`
	MaxSuggestedShots   int     `mapstructure:"max_suggested_shots"`
}

type NutritionConfig struct {
	SimilarityCutoff float64 `mapstructure:"similarity_cutoff"`
}

// DetectorConfig selects the analysis engine implementation.
// "deterministic" is the hash-based placeholder; "remote" posts images to
// an external inference endpoint.
type DetectorConfig struct {
	Provider string `mapstructure:"provider"`
	Endpoint string `mapstructure:"endpoint"`
	APIKey   string `mapstructure:"api_key"`
	Model    string `mapstructure:"model"`
}

// ArchiveConfig controls best-effort archival of uploaded meal photos to
// S3-compatible object storage for future model training.
type ArchiveConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	// ThumbnailWidth is the pixel width of the archived preview image.
	ThumbnailWidth int `mapstructure:"thumbnail_width"`
}

func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Enable environment variable override
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors.allow_all_origins", true)
	v.SetDefault("server.cors.allowed_origins", []string{})
	v.SetDefault("server.max_upload_bytes", 64<<20)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "./data/foodvision.db")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "foodvision")
	v.SetDefault("database.name", "foodvision")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("analysis.confidence_threshold", 0.70)
	v.SetDefault("analysis.min_photos", 3)
	v.SetDefault("analysis.max_photos", 8)
	v.SetDefault("analysis.preferred_photos", 5)
	v.SetDefault("analysis.photo_bonus", 0.05)
	v.SetDefault("analysis.photo_penalty", 0.08)
	v.SetDefault("analysis.max_suggested_shots", 3)
	v.SetDefault("nutrition.similarity_cutoff", 0.55)
	v.SetDefault("detector.provider", "deterministic")
	v.SetDefault("detector.endpoint", "")
	v.SetDefault("detector.model", "")
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.endpoint", "localhost:9000")
	v.SetDefault("archive.use_ssl", false)
	v.SetDefault("archive.bucket", "meal-photos")
	v.SetDefault("archive.thumbnail_width", 320)

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("detector.endpoint", "DETECTOR_ENDPOINT")
	v.BindEnv("detector.api_key", "DETECTOR_API_KEY")
	v.BindEnv("archive.endpoint", "ARCHIVE_ENDPOINT")
	v.BindEnv("archive.access_key", "ARCHIVE_ACCESS_KEY")
	v.BindEnv("archive.secret_key", "ARCHIVE_SECRET_KEY")
	v.BindEnv("archive.use_ssl", "ARCHIVE_USE_SSL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
