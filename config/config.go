package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds the application's configuration values.
type Config struct {
	AppName         string        `json:"appname"`
	AppEnv          string        `json:"appenv"`
	AppPort         uint16        `json:"appport"`
	GinMode         string        `json:"ginmode"`
	DBDriver        string        `json:"dbdriver"`
	DBHost          string        `json:"dbhost"`
	DBPort          uint16        `json:"dbport"`
	DBName          string        `json:"dbname"`
	DBUSER          string        `json:"dbuser"`
	DBPass          string        `json:"dbpass"`
	RedisEnabled    bool          `json:"redis_enabled"`
	RedisAddr       string        `json:"redis_addr"`
	RedisPassword   string        `json:"-"`
	RedisDB         int           `json:"redis_db"`
	ResetRateLimit  int           `json:"reset_rate_limit"`
	ResetRateWindow time.Duration `json:"reset_rate_window"`
	CORSOrigins     []string      `json:"cors_origins"`
	AdminUsername   string        `json:"admin_username"`
	AdminPassword   string        `json:"-"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout"`
}

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var dotenvOnce sync.Once

// LoadConfig loads the environment variables from a .env file (when present)
// and returns a Config built from the current environment.
func LoadConfig() *Config {
	dotenvOnce.Do(func() {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}
	})

	appPort := parseUint16(os.Getenv("APPPORT"), 8000)
	dbPort := parseUint16(os.Getenv("DBPORT"), 0)

	cfg := &Config{
		AppName:         getEnv("APPNAME", "Practice Records"),
		AppEnv:          getEnv("APPENV", "development"),
		AppPort:         appPort,
		GinMode:         getEnv("GINMODE", "release"),
		DBDriver:        strings.ToLower(getEnv("DBDRIVER", DriverMySQL)),
		DBHost:          getEnv("DBHOST", "localhost"),
		DBPort:          dbPort,
		DBName:          os.Getenv("DBNAME"),
		DBUSER:          os.Getenv("DBUSER"),
		DBPass:          os.Getenv("DBPASS"),
		RedisEnabled:    parseBool(os.Getenv("REDIS_ENABLED")),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         parseInt(os.Getenv("REDIS_DB"), 0),
		ResetRateLimit:  parseInt(os.Getenv("RESET_RATE_LIMIT"), 5),
		ResetRateWindow: parseDuration(os.Getenv("RESET_RATE_WINDOW"), 15*time.Minute),
		CORSOrigins:     splitList(getEnv("CORS_ORIGINS", "*")),
		AdminUsername:   os.Getenv("ADMIN_USERNAME"),
		AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		ShutdownTimeout: parseDuration(os.Getenv("SHUTDOWN_TIMEOUT"), 10*time.Second),
	}
	if cfg.DBPort == 0 {
		cfg.DBPort = defaultDBPort(cfg.DBDriver)
	}
	return cfg
}

// IsTest reports whether the application runs under APPENV=test.
func (c *Config) IsTest() bool {
	return c.AppEnv == "test"
}

// DSN builds the data source name for the configured driver.
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost, c.DBPort, c.DBUSER, c.DBPass, c.DBName)
	case DriverSQLite:
		if c.DBName == "" {
			return "file::memory:?cache=shared"
		}
		return c.DBName
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true", c.DBUSER, c.DBPass, c.DBHost, c.DBPort, c.DBName)
	}
}

// ConnectDatabase opens a gorm connection using the configured driver.
// Under APPENV=test a private in-memory sqlite database is used instead.
func ConnectDatabase(cfg *Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{TranslateError: true}

	var dialector gorm.Dialector
	switch {
	case cfg.IsTest():
		dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
		dialector = sqlite.Open(dsn)
		gormCfg.Logger = logger.Default.LogMode(logger.Silent)
	case cfg.DBDriver == DriverMySQL:
		dialector = mysql.Open(cfg.DSN())
	case cfg.DBDriver == DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case cfg.DBDriver == DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DBDRIVER %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func defaultDBPort(driver string) uint16 {
	switch driver {
	case DriverPostgres:
		return 5432
	case DriverSQLite:
		return 0
	default:
		return 3306
	}
}

func getEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return fallback
	}
	return value
}

func parseUint16(s string, fallback uint16) uint16 {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return fallback
	}
	return uint16(v)
}

func parseInt(s string, fallback int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return v
}

func parseBool(s string) bool {
	v, err := strconv.ParseBool(s)
	return err == nil && v
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(s)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
