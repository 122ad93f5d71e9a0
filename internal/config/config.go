package config

import (
	"log"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type SettlementConfig struct {
	Env              string `yaml:"env"`
	SettlementDB     `yaml:"settlement_db"`
	KafkaService     `yaml:"kafka-service"`
	SMTPService      `yaml:"smtp-service"`
	PaymentProvider  `yaml:"payment-provider"`
	CommunityService `yaml:"community-service"`
	MetricsServer    `yaml:"metrics_server"`
	LogConfig        `yaml:"log_config"`
}

type SettlementDB struct {
	Dsn            string `yaml:"dsn"`
	MigrationsPath string `yaml:"migrations_path"`
}

type KafkaService struct {
	Host    string `yaml:"host"`
	Port    string `yaml:"port"`
	GroupID string `yaml:"group_id" env-default:"settlement-service"`
}

type SMTPService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	User string `yaml:"user"`
	Pass string `yaml:"pass" env:"SMTP_PASS"`
	From string `yaml:"from"`
}

type PaymentProvider struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key" env:"PROVIDER_API_KEY"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env-default:"10"`
}

type CommunityService struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type MetricsServer struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
}

type LogConfig struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	LogOutput string `yaml:"log_output"`
}

func MustLoad() *SettlementConfig {

	// Processing env config variable and file
	configPath := os.Getenv("SETTLEMENT_CONFIG_PATH")

	if configPath == "" {
		log.Fatalf("SETTLEMENT_CONFIG_PATH was not found\n")
	}

	if _, err := os.Stat(configPath); err != nil {
		log.Fatalf("failed to find config file: %v\n", err)
	}

	// YAML to struct object
	var cfg SettlementConfig
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("failed to read config file: %v", err)
	}

	return &cfg
}
