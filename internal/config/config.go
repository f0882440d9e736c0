package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invixio/invixio/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Auth       AuthConfig
	Billing    BillingConfig
	Invoice    InvoiceConfig
	Pdf        PdfConfig
	S3         S3Config
	Email      EmailConfig
	Stripe     StripeConfig
	Sentry     SentryConfig
	Cron       CronConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// AllowedOrigins lists the browser origins permitted to call the API.
	// "*" opens it up entirely, which is the local development default.
	AllowedOrigins []string
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host                   string
	Port                   int
	User                   string
	Password               string
	DBName                 string
	SSLMode                string
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeMinutes int
}

type AuthConfig struct {
	// Secret signs and verifies HS256 bearer tokens
	Secret string
}

type BillingConfig struct {
	// FreePlanInvoiceLimit caps invoices per pricing month without an active
	// subscription
	FreePlanInvoiceLimit int
	// InvoiceSequenceCeiling is the largest per-year invoice number suffix
	InvoiceSequenceCeiling int64
}

type InvoiceConfig struct {
	// AdjustmentMode selects flat-amount or percentage tax/discount handling
	AdjustmentMode types.AdjustmentMode
}

type PdfConfig struct {
	TypstBinaryPath string
	TemplateDir     string
	FontDir         string
	OutputDir       string
}

type S3Config struct {
	Enabled bool
	Region  string
	Bucket  string
	// InvoiceKeyPrefix namespaces generated invoice documents, e.g. "invoices"
	InvoiceKeyPrefix string
	// LogoKeyPrefix namespaces uploaded logo images, e.g. "logos"
	LogoKeyPrefix string
}

type EmailConfig struct {
	Enabled     bool
	APIKey      string
	FromAddress string
	ReplyTo     string
	TemplateDir string
}

type StripeConfig struct {
	SecretKey      string
	WebhookSecret  string
	ProPlanPriceID string
	SuccessURL     string
	CancelURL      string
}

type SentryConfig struct {
	Enabled     bool
	DSN         string
	Environment string
	SampleRate  float64
}

type CronConfig struct {
	// Secret authenticates the external scheduler that triggers cron endpoints
	Secret string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/invixio")

	v.SetEnvPrefix("INVIXIO")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Configuration) applyDefaults() {
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"*"}
	}
	if c.Billing.FreePlanInvoiceLimit == 0 {
		c.Billing.FreePlanInvoiceLimit = 5
	}
	if c.Billing.InvoiceSequenceCeiling == 0 {
		c.Billing.InvoiceSequenceCeiling = 999999
	}
	if c.Invoice.AdjustmentMode == "" {
		c.Invoice.AdjustmentMode = types.AdjustmentModePercentage
	}
	if c.Pdf.TypstBinaryPath == "" {
		c.Pdf.TypstBinaryPath = "typst"
	}
	if c.Pdf.TemplateDir == "" {
		c.Pdf.TemplateDir = "assets/typst-templates"
	}
	if c.Email.TemplateDir == "" {
		c.Email.TemplateDir = "assets/email-templates"
	}
	if c.S3.InvoiceKeyPrefix == "" {
		c.S3.InvoiceKeyPrefix = "invoices"
	}
	if c.S3.LogoKeyPrefix == "" {
		c.S3.LogoKeyPrefix = "logos"
	}
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Invoice.AdjustmentMode.Validate()
}

// GetDefaultConfig returns a default configuration for local development and
// tests.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server: ServerConfig{
			Address:        ":8080",
			AllowedOrigins: []string{"*"},
		},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Billing: BillingConfig{
			FreePlanInvoiceLimit:   5,
			InvoiceSequenceCeiling: 999999,
		},
		Invoice: InvoiceConfig{
			AdjustmentMode: types.AdjustmentModeFlat,
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
