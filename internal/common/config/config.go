// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig               `mapstructure:"app"`
	Camunda  CamundaConfig           `mapstructure:"camunda"`
	Database DatabaseConfig          `mapstructure:"database"`
	Workers  map[string]WorkerConfig `mapstructure:"workers"`
	ATS      ATSConfig               `mapstructure:"ats"`
	Logging  LoggingConfig           `mapstructure:"logging"`
	Metrics  MetricsConfig           `mapstructure:"metrics"`
	Registry RegistryConfig          `mapstructure:"registry"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// Enabled reports whether analysis persistence is configured.
func (p PostgresConfig) Enabled() bool {
	return p.Host != ""
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- ATS Engine ---

// ATSConfig holds the scoring engine settings.
type ATSConfig struct {
	Weights          WeightsConfig   `mapstructure:"weights"`
	TaxonomyPath     string          `mapstructure:"taxonomy_path"`
	Documents        DocumentsConfig `mapstructure:"documents"`
	Analyzer         AnalyzerConfig  `mapstructure:"analyzer"`
	BatchConcurrency int             `mapstructure:"batch_concurrency"`
}

// AnalyzerConfig points at the external AI analysis service. An empty
// BaseURL disables the analysis step.
type AnalyzerConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout int    `mapstructure:"timeout"` // milliseconds
}

// WeightsConfig mirrors scoring.Weights; W1+W2+W3 must equal 1.
type WeightsConfig struct {
	Similarity   float64 `mapstructure:"similarity"`
	SkillOverlap float64 `mapstructure:"skill_overlap"`
	Experience   float64 `mapstructure:"experience"`
}

// IsZero reports whether no weight was configured.
func (w WeightsConfig) IsZero() bool {
	return w.Similarity == 0 && w.SkillOverlap == 0 && w.Experience == 0
}

const (
	DocumentBackendFile  = "file"
	DocumentBackendRedis = "redis"
	DocumentBackendS3    = "s3"
)

// DocumentsConfig selects where resume and JD bytes come from.
type DocumentsConfig struct {
	Backend string `mapstructure:"backend"`
	File    struct {
		JDDir     string `mapstructure:"jd_dir"`
		ResumeDir string `mapstructure:"resume_dir"`
	} `mapstructure:"file"`
	Redis struct {
		JDKeyPrefix     string `mapstructure:"jd_key_prefix"`
		ResumeKeyPrefix string `mapstructure:"resume_key_prefix"`
	} `mapstructure:"redis"`
	S3 struct {
		Bucket       string `mapstructure:"bucket"`
		Region       string `mapstructure:"region"`
		JDPrefix     string `mapstructure:"jd_prefix"`
		ResumePrefix string `mapstructure:"resume_prefix"`
	} `mapstructure:"s3"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
	// Spans logs every ended trace span at debug level.
	Spans bool `mapstructure:"spans"`
}

// MetricsConfig holds the health/metrics listener settings.
type MetricsConfig struct {
	Address string `mapstructure:"address"`
}

// RegistryConfig points at the activity registry describing worker schemas.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}
