/*
Copyright 2025 Nordgeld Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT = "5002"

	DEFAULT_USD_TO_EUR     = 0.85
	DEFAULT_GROWTH_FACTOR  = 1.05
	DEFAULT_HORIZON_MONTHS = 6
	DEFAULT_MONTHLY_BUDGET = 1800
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL       bool   `json:"ssl" envconfig:"NORDGELD_SERVER_SSL"`
	Secure    bool   `json:"secure" envconfig:"NORDGELD_SERVER_SECURE"`
	SecretKey string `json:"secret_key" envconfig:"NORDGELD_SERVER_SECRET_KEY"`
	Domain    string `json:"domain" envconfig:"NORDGELD_SERVER_SSL_DOMAIN"`
	Email     string `json:"ssl_email" envconfig:"NORDGELD_SERVER_SSL_EMAIL"`
	Port      string `json:"port" envconfig:"NORDGELD_SERVER_PORT"`
}

type DataSourceConfig struct {
	Dns string `json:"dns" envconfig:"NORDGELD_DATA_SOURCE_DNS"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"NORDGELD_REDIS_DNS"`
}

type SessionConfig struct {
	// SigningKey signs the HS256 session tokens handed out at login.
	SigningKey string `json:"signing_key" envconfig:"NORDGELD_SESSION_SIGNING_KEY"`
	TTLMinutes int    `json:"ttl_minutes" envconfig:"NORDGELD_SESSION_TTL_MINUTES"`
}

// RatesConfig carries the fixed-rate currency approximation. This is a placeholder
// business rule, kept configurable so a live rate feed can replace it.
type RatesConfig struct {
	UsdToEur float64 `json:"usd_to_eur" envconfig:"NORDGELD_RATES_USD_EUR"`
}

// PlannerConfig carries the planner's toy projection and budget constants.
type PlannerConfig struct {
	GrowthFactor  float64 `json:"growth_factor" envconfig:"NORDGELD_PLANNER_GROWTH"`
	HorizonMonths int     `json:"horizon_months" envconfig:"NORDGELD_PLANNER_HORIZON_MONTHS"`
	MonthlyBudget float64 `json:"monthly_budget" envconfig:"NORDGELD_PLANNER_BUDGET"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"NORDGELD_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"NORDGELD_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"NORDGELD_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url"`
}

type Notification struct {
	Slack   SlackWebhook `json:"slack"`
	Webhook struct {
		Url     string            `json:"url"`
		Headers map[string]string `json:"headers"`
	} `json:"webhook"`
}

type QueueConfig struct {
	WebhookQueue   string `json:"webhook_queue" envconfig:"NORDGELD_QUEUE_WEBHOOK"`
	MonitoringPort string `json:"monitoring_port" envconfig:"NORDGELD_QUEUE_MONITORING_PORT"`
}

type Configuration struct {
	ProjectName     string           `json:"project_name" envconfig:"NORDGELD_PROJECT_NAME"`
	EnableTelemetry bool             `json:"enable_telemetry" envconfig:"NORDGELD_ENABLE_TELEMETRY"`
	Server          ServerConfig     `json:"server"`
	DataSource      DataSourceConfig `json:"data_source"`
	Redis           RedisConfig      `json:"redis"`
	Session         SessionConfig    `json:"session"`
	Rates           RatesConfig      `json:"rates"`
	Planner         PlannerConfig    `json:"planner"`
	Queue           QueueConfig      `json:"queue"`
	Notification    Notification     `json:"notification"`
	RateLimit       RateLimitConfig  `json:"rate_limit"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}

	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("nordgeld", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return err
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded from file. Create a json file called nordgeld.json with your config")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		log.Println("Warning: Project name is empty. Setting a default name.")
		cnf.ProjectName = "Nordgeld Server"
	}

	if cnf.DataSource.Dns == "" {
		log.Println("Error: Data source DNS is empty. It's a required field.")
		return errors.New("data source DNS is required")
	}

	if cnf.Redis.Dns == "" {
		log.Println("Error: Redis DNS is empty. It's a required field.")
		return errors.New("redis DNS is required")
	}

	if cnf.Session.SigningKey == "" {
		log.Println("Error: Session signing key is empty. It's a required field.")
		return errors.New("session signing key is required")
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.DataSource.Dns = strings.TrimSpace(cnf.DataSource.Dns)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	// Set default value for Port if it's empty
	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}

	if cnf.Session.TTLMinutes <= 0 {
		cnf.Session.TTLMinutes = 60
	}

	// Placeholder business rules. The exact values matter for behavioral parity
	// with the banking demo this replaces.
	if cnf.Rates.UsdToEur == 0 {
		cnf.Rates.UsdToEur = DEFAULT_USD_TO_EUR
	}
	if cnf.Planner.GrowthFactor == 0 {
		cnf.Planner.GrowthFactor = DEFAULT_GROWTH_FACTOR
	}
	if cnf.Planner.HorizonMonths == 0 {
		cnf.Planner.HorizonMonths = DEFAULT_HORIZON_MONTHS
	}
	if cnf.Planner.MonthlyBudget == 0 {
		cnf.Planner.MonthlyBudget = DEFAULT_MONTHLY_BUDGET
	}

	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
	if cnf.Queue.MonitoringPort == "" {
		cnf.Queue.MonitoringPort = "5003"
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}

	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return nil
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	mockConfig.applyTestDefaults()
	ConfigStore.Store(mockConfig)
}

func (cnf *Configuration) applyTestDefaults() {
	if cnf.Rates.UsdToEur == 0 {
		cnf.Rates.UsdToEur = DEFAULT_USD_TO_EUR
	}
	if cnf.Planner.GrowthFactor == 0 {
		cnf.Planner.GrowthFactor = DEFAULT_GROWTH_FACTOR
	}
	if cnf.Planner.HorizonMonths == 0 {
		cnf.Planner.HorizonMonths = DEFAULT_HORIZON_MONTHS
	}
	if cnf.Planner.MonthlyBudget == 0 {
		cnf.Planner.MonthlyBudget = DEFAULT_MONTHLY_BUDGET
	}
	if cnf.Session.TTLMinutes <= 0 {
		cnf.Session.TTLMinutes = 60
	}
	if cnf.Queue.WebhookQueue == "" {
		cnf.Queue.WebhookQueue = "new:webhook"
	}
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
