package config

import (
	"strings"

	"github.com/caarlos0/env/v6"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvDev        Environment = "dev"
	EnvStage      Environment = "stage"
	EnvProduction Environment = "production"
)

type ConfigBasicClient struct {
	Username string
	Password string
}

type Config struct {
	App struct {
		Version  string      `env:"APP_VERSION" envDefault:"local"`
		Env      Environment `env:"APP_ENV" envDefault:"local"`
		Timezone string      `env:"APP_TIMEZONE" envDefault:"America/Sao_Paulo"`
	}

	HTTP struct {
		Port string `env:"HTTP_SERVER_PORT" envDefault:"8080"`
		Host string `env:"HTTP_SERVER_HOST" envDefault:"localhost"`
	}

	Postgres struct {
		URL string `env:"POSTGRES_URL"`
	}

	Auth struct {
		BasicClientsString string `env:"AUTH_BASIC_CLIENTS" envDefault:"agenda_engine:agenda_engine"`
		BasicClients       []ConfigBasicClient
	}

	RabbitMQ struct {
		Enabled        bool   `env:"RABBITMQ_ENABLED"`
		URL            string `env:"RABBITMQ_URL"`
		Queue          string `env:"RABBITMQ_QUEUE"`
		NotifyExchange string `env:"RABBITMQ_NOTIFY_EXCHANGE" envDefault:"agenda.notifications"`
	}

	Cache struct {
		Enabled  bool `env:"CACHE_ENABLED"`
		DaysSize int  `env:"CACHE_DAYS_SIZE" envDefault:"1000"`
	}

	Agenda struct {
		DefaultDurationMinutes  int `env:"AGENDA_DEFAULT_DURATION" envDefault:"60"`
		RecurrenceHorizonMonths int `env:"AGENDA_RECURRENCE_HORIZON_MONTHS" envDefault:"6"`
	}
}

func NewConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Normaliza o ambiente para minúsculas
	cfg.App.Env = Environment(strings.ToLower(string(cfg.App.Env)))

	// Separa os clientes de basic auth
	if cfg.Auth.BasicClients == nil {
		cfg.Auth.BasicClients = []ConfigBasicClient{}
	}
	clientPairs := strings.Split(cfg.Auth.BasicClientsString, ",")
	for _, pair := range clientPairs {
		parts := strings.Split(pair, ":")
		if len(parts) == 2 {
			cfg.Auth.BasicClients = append(cfg.Auth.BasicClients, ConfigBasicClient{
				Username: parts[0],
				Password: parts[1],
			})
		}
	}

	// Sem RabbitMQ não há invalidação de cache, então o cache fica desligado
	if !cfg.RabbitMQ.Enabled {
		cfg.Cache.Enabled = false
	}

	return cfg, nil
}

func (c *Config) IsLocal() bool {
	return c.App.Env == EnvLocal
}

func (c *Config) IsNotLocal() bool {
	return c.App.Env == EnvDev || c.App.Env == EnvStage || c.App.Env == EnvProduction
}
