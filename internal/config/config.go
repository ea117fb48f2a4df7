package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Origens de dados suportadas pelo provedor de datasets
const (
	FeedSourceMock     = "mock"
	FeedSourceHTTP     = "http"
	FeedSourceDatabase = "database"
)

// DefaultSecretKey só serve para desenvolvimento com autenticação desligada
const DefaultSecretKey = "your_secret_key"

type Config struct {
	App         App            `mapstructure:",squash"`
	Server      Server         `mapstructure:",squash"`
	Database    Database       `mapstructure:",squash"`
	Feed        Feed           `mapstructure:",squash"`
	FeedRefresh FeedRefresh    `mapstructure:",squash"`
	Session     Session        `mapstructure:",squash"`
	Auth        Auth           `mapstructure:",squash"`
	RateLimit   RateLimit      `mapstructure:",squash"`
	Cors        Cors           `mapstructure:",squash"`
	SecretKey   string         `mapstructure:"secret_key"`
	StoresFile  string         `mapstructure:"stores_file"`
	Location    *time.Location `mapstructure:"-"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	Path     string `mapstructure:"database_path"`
	Migrate  bool   `mapstructure:"database_migrate"`
}

type Feed struct {
	Source   string        `mapstructure:"feed_source"`
	URL      string        `mapstructure:"feed_url"`
	Token    string        `mapstructure:"feed_token"`
	Timeout  time.Duration `mapstructure:"feed_timeout"`
	MockDays int           `mapstructure:"feed_mock_days"`
	MockSeed int64         `mapstructure:"feed_mock_seed"`
}

type FeedRefresh struct {
	CronSchedule      string `mapstructure:"feed_refresh_cron"`
	Enabled           bool   `mapstructure:"feed_refresh_enabled"`
	Persist           bool   `mapstructure:"feed_refresh_persist"`
	MaxConcurrentJobs int    `mapstructure:"feed_refresh_max_concurrent_jobs"`
	RetentionDays     int    `mapstructure:"feed_retention_days"`
}

type Session struct {
	IdleTTL      time.Duration `mapstructure:"session_idle_ttl"`
	ReapInterval time.Duration `mapstructure:"session_reap_interval"`
}

type Auth struct {
	Enabled      bool   `mapstructure:"auth_enabled"`
	Username     string `mapstructure:"auth_username"`
	PasswordHash string `mapstructure:"auth_password_hash"`
	Role         string `mapstructure:"auth_role"`
}

type RateLimit struct {
	Enabled        bool     `mapstructure:"rate_limit_enabled"`
	RPS            float64  `mapstructure:"rate_limit_rps"`
	Burst          int      `mapstructure:"rate_limit_burst"`
	TrustedProxies []string `mapstructure:"rate_limit_trusted_proxies"`
}

type Cors struct {
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("LOG_LEVEL", "debug")
	viper.SetDefault("APP_TIMEZONE", "Local")

	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_URL", "localhost:5432/sales?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_PATH", "sales.db")
	viper.SetDefault("DATABASE_MIGRATE", true)

	viper.SetDefault("SECRET_KEY", DefaultSecretKey)
	viper.SetDefault("STORES_FILE", "")

	// Defaults do feed de vendas
	viper.SetDefault("FEED_SOURCE", FeedSourceMock) // mock, http ou database
	viper.SetDefault("FEED_URL", "")
	viper.SetDefault("FEED_TOKEN", "")
	viper.SetDefault("FEED_TIMEOUT", "30s")
	viper.SetDefault("FEED_MOCK_DAYS", 800) // Pouco mais de dois anos de histórico
	viper.SetDefault("FEED_MOCK_SEED", 0)   // 0 = semente baseada no relógio

	// Defaults para atualização periódica do feed
	viper.SetDefault("FEED_REFRESH_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("FEED_REFRESH_ENABLED", false)
	viper.SetDefault("FEED_REFRESH_PERSIST", false)
	viper.SetDefault("FEED_REFRESH_MAX_CONCURRENT_JOBS", 3)
	viper.SetDefault("FEED_RETENTION_DAYS", 0) // 0 = manter tudo

	// Sessões sem acesso por mais que o TTL são encerradas (0 = nunca expiram)
	viper.SetDefault("SESSION_IDLE_TTL", "15m")
	viper.SetDefault("SESSION_REAP_INTERVAL", "1m")

	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("AUTH_USERNAME", "admin")
	viper.SetDefault("AUTH_PASSWORD_HASH", "")
	viper.SetDefault("AUTH_ROLE", "admin")

	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)
	viper.SetDefault("RATE_LIMIT_TRUSTED_PROXIES", "") // IPs ou CIDRs separados por vírgula

	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:4200,http://localhost:3000")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = buildDSN(config.Database)

	location, err := loadLocation(config.App.Timezone)
	if err != nil {
		return nil, err
	}
	config.Location = location

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuração inválida: %w", err)
	}

	return config, nil
}

// Validate verifica as combinações de configuração que impedem a aplicação de subir
func (c *Config) Validate() error {
	switch c.Feed.Source {
	case FeedSourceMock:
		if c.Feed.MockDays <= 0 {
			return fmt.Errorf("FEED_MOCK_DAYS deve ser positivo, recebido %d", c.Feed.MockDays)
		}
	case FeedSourceHTTP:
		if c.Feed.URL == "" {
			return fmt.Errorf("FEED_URL é obrigatório quando FEED_SOURCE=%s", FeedSourceHTTP)
		}
	case FeedSourceDatabase:
	default:
		return fmt.Errorf("FEED_SOURCE inválido %q, valores aceitos: mock, http, database", c.Feed.Source)
	}

	if c.Database.Driver != "postgres" && c.Database.Driver != "sqlite" {
		return fmt.Errorf("DATABASE_DRIVER inválido %q, valores aceitos: postgres, sqlite", c.Database.Driver)
	}

	if c.FeedRefresh.Enabled {
		if _, err := cron.ParseStandard(c.FeedRefresh.CronSchedule); err != nil {
			return fmt.Errorf("FEED_REFRESH_CRON inválido %q: %w", c.FeedRefresh.CronSchedule, err)
		}
	}

	if c.FeedRefresh.MaxConcurrentJobs <= 0 {
		return fmt.Errorf("FEED_REFRESH_MAX_CONCURRENT_JOBS deve ser positivo")
	}

	if c.Session.IdleTTL < 0 {
		return fmt.Errorf("SESSION_IDLE_TTL não pode ser negativo")
	}

	if c.Session.IdleTTL > 0 && c.Session.ReapInterval <= 0 {
		return fmt.Errorf("SESSION_REAP_INTERVAL deve ser positivo quando SESSION_IDLE_TTL está ativo")
	}

	if c.Auth.Enabled && c.Auth.PasswordHash == "" {
		return fmt.Errorf("AUTH_PASSWORD_HASH é obrigatório quando AUTH_ENABLED=true")
	}

	if c.Auth.Enabled && (c.SecretKey == "" || c.SecretKey == DefaultSecretKey) {
		return fmt.Errorf("SECRET_KEY precisa ser definido quando AUTH_ENABLED=true")
	}

	if c.RateLimit.Enabled && (c.RateLimit.RPS <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("RATE_LIMIT_RPS e RATE_LIMIT_BURST devem ser positivos")
	}

	return nil
}

// UsesDatabase indica se algum componente precisa da conexão com o banco
func (c *Config) UsesDatabase() bool {
	return c.Feed.Source == FeedSourceDatabase || c.FeedRefresh.Persist
}

func buildDSN(db Database) string {
	if db.Driver == "sqlite" {
		return db.Path
	}

	return fmt.Sprintf(
		"%s://%s:%s@%s",
		db.Driver,
		db.User,
		db.Password,
		db.URL,
	)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}

	location, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE inválido %q: %w", name, err)
	}
	return location, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
