package config

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig   `json:"server"`
	Database DatabaseConfig `json:"database"`
	Redis    RedisConfig    `json:"redis"`
	Auth     AuthConfig     `json:"auth"`
	Purchase PurchaseConfig `json:"purchase"`
	Status   StatusConfig   `json:"status"`
	Log      LogConfig      `json:"log"`
	SeedData bool           `json:"seed_data"`
}

type ServerConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type DatabaseConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	User           string `json:"user"`
	Password       string `json:"password"`
	DBName         string `json:"dbname"`
	SSLMode        string `json:"sslmode"`
	MigrationsPath string `json:"migrations_path"`
}

type RedisConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type AuthConfig struct {
	SessionTTLMinutes int `json:"session_ttl_minutes"`
	BcryptCost        int `json:"bcrypt_cost"`
}

type PurchaseConfig struct {
	// SingleRegularPurchase limits non-flash purchases to one per
	// (user, product) when set.
	SingleRegularPurchase bool `json:"single_regular_purchase"`
}

type StatusConfig struct {
	CacheTTLSeconds        int `json:"cache_ttl_seconds"`
	RefreshIntervalSeconds int `json:"refresh_interval_seconds"`
}

type LogConfig struct {
	Level string `json:"level"`
}

// LoadConfig reads the JSON config file and then applies environment
// overrides. A .env file next to the binary is loaded first when present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, err
			}
		} else {
			defer file.Close()
			if err := json.NewDecoder(file).Decode(cfg); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(cfg)

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Host: "0.0.0.0", Port: 8080},
		Database: DatabaseConfig{Host: "localhost", Port: 5432, User: "postgres", DBName: "flashmart", SSLMode: "disable", MigrationsPath: "migrations"},
		Redis:    RedisConfig{Host: "localhost", Port: 6379},
		Auth:     AuthConfig{SessionTTLMinutes: 24 * 60, BcryptCost: 10},
		Status:   StatusConfig{CacheTTLSeconds: 5, RefreshIntervalSeconds: 30},
		Log:      LogConfig{Level: "info"},
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.Server.Host, "SERVER_HOST")
	setInt(&cfg.Server.Port, "SERVER_PORT")

	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.DBName, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.MigrationsPath, "DB_MIGRATIONS_PATH")

	setString(&cfg.Redis.Host, "REDIS_HOST")
	setInt(&cfg.Redis.Port, "REDIS_PORT")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setInt(&cfg.Auth.SessionTTLMinutes, "SESSION_TTL_MINUTES")
	setBool(&cfg.Purchase.SingleRegularPurchase, "SINGLE_REGULAR_PURCHASE")
	setBool(&cfg.SeedData, "SEED_DATA")
	setString(&cfg.Log.Level, "LOG_LEVEL")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func (c *DatabaseConfig) GetDSN() string {
	return "host=" + c.Host +
		" port=" + strconv.Itoa(c.Port) +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.DBName +
		" sslmode=" + c.SSLMode
}
