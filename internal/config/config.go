package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Redis       RedisConfig
	Correios    CorreiosConfig
	ViaCEP      ViaCEPConfig
	PagSeguro   PagSeguroConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type CorreiosConfig struct {
	// CalcURL is the upstream CalcPrecoPrazo endpoint
	CalcURL   string
	OriginCEP string
}

type ViaCEPConfig struct {
	BaseURL string
}

type PagSeguroConfig struct {
	BaseURL string
	Token   string
	Sandbox bool
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "bookstore"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password: getEnvOrViper("REDIS_PASSWORD", ""),
		},
		Correios: CorreiosConfig{
			CalcURL:   getEnvOrViper("CORREIOS_CALC_URL", "http://ws.correios.com.br/calculador/CalcPrecoPrazo.aspx"),
			OriginCEP: getEnvOrViper("CORREIOS_CEP_ORIGEM", "01001000"),
		},
		ViaCEP: ViaCEPConfig{
			BaseURL: getEnvOrViper("VIACEP_BASE_URL", "https://viacep.com.br"),
		},
		PagSeguro: PagSeguroConfig{
			BaseURL: getEnvOrViper("PAGSEGURO_BASE_URL", "https://sandbox.api.pagseguro.com"),
			Token:   getEnvOrViper("PAGSEGURO_TOKEN", ""),
			Sandbox: getEnvOrViper("PAGSEGURO_SANDBOX", "true") == "true",
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.PagSeguro.Token == "" {
		return nil, fmt.Errorf("PAGSEGURO_TOKEN is required")
	}
	if len(onlyDigits(cfg.Correios.OriginCEP)) != 8 {
		return nil, fmt.Errorf("CORREIOS_CEP_ORIGEM must have 8 digits")
	}
	cfg.Correios.OriginCEP = onlyDigits(cfg.Correios.OriginCEP)

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func onlyDigits(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
