package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"alcyxob/marathon-trainer/internal/planner"
)

// Config holds all configuration for the service.
// Values come from config.yaml, overridden by environment variables
// (server.address -> SERVER_ADDRESS).
type Config struct {
	Server   ServerConfig       `mapstructure:"server"`
	Database DatabaseConfig     `mapstructure:"database"`
	S3       S3Config           `mapstructure:"s3"`
	JWT      JWTConfig          `mapstructure:"jwt"`
	Redis    RedisConfig        `mapstructure:"redis"`
	CORS     CORSConfig         `mapstructure:"cors"`
	Planner  planner.Heuristics `mapstructure:"planner"`
}

type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	// Key prefix for plan export documents.
	ExportPrefix string `mapstructure:"export_prefix"`
	// Lifetime of presigned download URLs.
	PresignTTL time.Duration `mapstructure:"presign_ttl"`
}

// JWTConfig defines JWT specific configuration.
// Expiration is a duration string in config.yaml ("60m", "1h").
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// RedisConfig configures the plan read cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PlanTTL  time.Duration `mapstructure:"plan_ttl"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "marathon_trainer")
	v.SetDefault("s3.use_ssl", true) // Default to true for cloud providers
	v.SetDefault("s3.export_prefix", "exports/")
	v.SetDefault("s3.presign_ttl", "15m")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.plan_ttl", "10m")
	v.SetDefault("cors.allowed_origins", []string{"*"})

	// Planner heuristics default to the tuned constants; any key can be
	// overridden individually (PLANNER_DELOAD_VOLUME_FACTOR=0.7).
	h := planner.DefaultHeuristics()
	v.SetDefault("planner.loading_week_share", h.LoadingWeekShare)
	v.SetDefault("planner.growth_rate_low_base", h.GrowthRateLowBase)
	v.SetDefault("planner.growth_rate_high_base", h.GrowthRateHighBase)
	v.SetDefault("planner.growth_rate_threshold_km", h.GrowthRateThresholdKm)
	v.SetDefault("planner.deload_volume_factor", h.DeloadVolumeFactor)
	v.SetDefault("planner.long_run_start_min_km", h.LongRunStartMinKm)
	v.SetDefault("planner.long_run_start_fraction", h.LongRunStartFraction)
	v.SetDefault("planner.long_run_peak_fraction", h.LongRunPeakFraction)
	v.SetDefault("planner.long_run_hard_max_fraction", h.LongRunHardMaxFraction)
	v.SetDefault("planner.long_run_cap_km", h.LongRunCapKm)
	v.SetDefault("planner.long_run_floor_km", h.LongRunFloorKm)
	v.SetDefault("planner.deload_long_run_factor", h.DeloadLongRunFactor)
	v.SetDefault("planner.medium_long_fraction", h.MediumLongFraction)
	v.SetDefault("planner.min_other_run_km", h.MinOtherRunKm)

	err = v.ReadInConfig()
	// A missing config file is fine: defaults and env vars still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	// Duration strings ("60m", "1h") decode straight into time.Duration fields.
	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	return config, nil
}
