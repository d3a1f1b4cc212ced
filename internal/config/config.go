package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"tablebook/internal/menu"
	"tablebook/internal/order"
)

const (
	MenuSourceCSV      = "csv"
	MenuSourcePostgres = "postgres"
	MenuSourceR2       = "r2"

	OrderSinkMemory   = "memory"
	OrderSinkCSV      = "csv"
	OrderSinkPostgres = "postgres"
)

type Config struct {
	AppEnv      string   `envconfig:"APP_ENV" default:"development"`
	HTTPAddr    string   `envconfig:"HTTP_ADDR" default:":8000"`
	LogLevel    string   `envconfig:"LOG_LEVEL" default:"info"`
	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"http://localhost:3000"`
	DatabaseURL string   `envconfig:"DATABASE_URL"`

	// Menu sheet
	MenuSource      string   `envconfig:"MENU_SOURCE" default:"csv"`
	MenuCSVPath     string   `envconfig:"MENU_CSV_PATH" default:"menu.csv"`
	MenuObjectKey   string   `envconfig:"MENU_OBJECT_KEY" default:"menu.csv"`
	CategoryColumn  string   `envconfig:"MENU_COL_CATEGORY" default:"Category"`
	ItemColumn      string   `envconfig:"MENU_COL_ITEM" default:"Item Name"`
	PriceColumn     string   `envconfig:"MENU_COL_PRICE" default:"Price (₹)"`
	AvailableColumn string   `envconfig:"MENU_COL_AVAILABLE" default:"Available"`
	CurrencyMarkers []string `envconfig:"CURRENCY_MARKERS" default:"₹,Rs.,Rs,INR,$"`

	// Orders
	OrderSink     string `envconfig:"ORDER_SINK" default:"memory"`
	OrderLogPath  string `envconfig:"ORDER_LOG_PATH" default:"orders.csv"`
	PhoneRequired bool   `envconfig:"PHONE_REQUIRED" default:"false"`
	TableRequired bool   `envconfig:"TABLE_REQUIRED" default:"false"`
	MaxPerItem    int    `envconfig:"MAX_PER_ITEM" default:"10"`

	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"2h"`

	// Cloudflare R2
	R2Endpoint      string `envconfig:"R2_ENDPOINT"`
	R2AccessKey     string `envconfig:"R2_ACCESS_KEY"`
	R2SecretKey     string `envconfig:"R2_SECRET_KEY"`
	R2Bucket        string `envconfig:"R2_BUCKET_NAME"`
	R2PublicBaseURL string `envconfig:"R2_PUBLIC_BASE_URL"`

	// Staff auth
	JWTSecret         string        `envconfig:"JWT_SECRET"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL" default:"12h"`
	StaffUsername     string        `envconfig:"STAFF_USERNAME"`
	StaffPasswordHash string        `envconfig:"STAFF_PASSWORD_HASH"`
	StaffRole         string        `envconfig:"STAFF_ROLE" default:"ADMIN"`

	// Kitchen notifications
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"kitchen_orders"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string `envconfig:"KAFKA_TOPIC" default:"orders"`
}

// Load reads .env outside production, then the process environment.
func Load() (*Config, error) {
	if os.Getenv("APP_ENV") != "production" {
		_ = godotenv.Load()
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "read environment")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate fails on combinations the server cannot start with.
func (c *Config) Validate() error {
	switch c.MenuSource {
	case MenuSourceCSV:
		if c.MenuCSVPath == "" {
			return errors.New("MENU_CSV_PATH is required for MENU_SOURCE=csv")
		}
	case MenuSourcePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for MENU_SOURCE=postgres")
		}
	case MenuSourceR2:
		if c.R2Endpoint == "" || c.R2Bucket == "" || c.MenuObjectKey == "" {
			return errors.New("R2_ENDPOINT, R2_BUCKET_NAME and MENU_OBJECT_KEY are required for MENU_SOURCE=r2")
		}
	default:
		return errors.Errorf("unknown MENU_SOURCE %q", c.MenuSource)
	}

	switch c.OrderSink {
	case OrderSinkMemory:
	case OrderSinkCSV:
		if c.OrderLogPath == "" {
			return errors.New("ORDER_LOG_PATH is required for ORDER_SINK=csv")
		}
	case OrderSinkPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for ORDER_SINK=postgres")
		}
	default:
		return errors.Errorf("unknown ORDER_SINK %q", c.OrderSink)
	}

	if c.MaxPerItem <= 0 {
		return errors.New("MAX_PER_ITEM must be positive")
	}
	if c.StaffEnabled() && c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required when STAFF_USERNAME is set")
	}
	if c.StaffUsername != "" && c.StaffPasswordHash == "" {
		return errors.New("STAFF_PASSWORD_HASH is required when STAFF_USERNAME is set")
	}

	return c.Schema().Validate()
}

// StaffEnabled reports whether the admin routes are mounted.
func (c *Config) StaffEnabled() bool {
	return c.StaffUsername != ""
}

func (c *Config) UsesPostgres() bool {
	return c.MenuSource == MenuSourcePostgres || c.OrderSink == OrderSinkPostgres
}

func (c *Config) Schema() menu.Schema {
	return menu.Schema{
		CategoryColumn:  c.CategoryColumn,
		ItemColumn:      c.ItemColumn,
		PriceColumn:     c.PriceColumn,
		AvailableColumn: c.AvailableColumn,
		CurrencyMarkers: c.CurrencyMarkers,
	}
}

func (c *Config) Policy() order.Policy {
	return order.Policy{
		PhoneRequired: c.PhoneRequired,
		TableRequired: c.TableRequired,
		MaxPerItem:    c.MaxPerItem,
	}
}
