package config

import (
	"time"
)

// Config is the root of the application configuration, populated from
// YAML and environment variables (see Load).
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Ingest   IngestConfig   `yaml:"ingest"`
	Video    VideoConfig    `yaml:"video"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig tunes the HTTP listener and upload limits.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes" env:"SERVER_MAX_UPLOAD_BYTES" env-default:"536870912"`
}

// DatabaseConfig describes the PostgreSQL pool.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// IngestConfig holds text/subtitle ingestion settings.
type IngestConfig struct {
	SourceLanguage   string `yaml:"source_language"    env:"INGEST_SOURCE_LANGUAGE"    env-default:"zh"`
	TargetLanguage   string `yaml:"target_language"    env:"INGEST_TARGET_LANGUAGE"    env-default:"en"`
	Translate        bool   `yaml:"translate"          env:"INGEST_TRANSLATE"          env-default:"false"`
	TranslateBaseURL string `yaml:"translate_base_url" env:"INGEST_TRANSLATE_BASE_URL"`
	SegmenterEnabled bool   `yaml:"segmenter_enabled"  env:"INGEST_SEGMENTER_ENABLED"  env-default:"true"`
}

// VideoConfig holds frame-extraction job settings.
// Executor "inline" runs jobs synchronously on the request path;
// "background" hands them to a bounded worker pool.
type VideoConfig struct {
	Executor    string `yaml:"executor"     env:"VIDEO_EXECUTOR"     env-default:"background"`
	Workers     int    `yaml:"workers"      env:"VIDEO_WORKERS"      env-default:"2"`
	FFmpegPath  string `yaml:"ffmpeg_path"  env:"VIDEO_FFMPEG_PATH"  env-default:"ffmpeg"`
	FFprobePath string `yaml:"ffprobe_path" env:"VIDEO_FFPROBE_PATH" env-default:"ffprobe"`
}

// StorageConfig holds blob storage settings.
type StorageConfig struct {
	MediaDir string `yaml:"media_dir" env:"STORAGE_MEDIA_DIR" env-default:"./media"`
}

// LogConfig selects log level and output format.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig is the cross-origin policy served by the middleware.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
