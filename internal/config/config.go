package config

import (
	"log"

	"github.com/spf13/viper"
)

// Sandbox host; production deployments override PHONEPE_BASE_URL.
const defaultPhonePeBaseURL = "https://api-preprod.phonepe.com/apis/pg-sandbox"

type Config struct {
	ServerPort   string `mapstructure:"PORT"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	JWTSecret    string `mapstructure:"JWT_SECRET"`
	ClientOrigin string `mapstructure:"CLIENT_ORIGIN"`

	PhonePe PhonePeConfig `mapstructure:",squash"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`

	RabbitMQURL string `mapstructure:"RABBITMQ_URL"`

	StripeAPIKey string `mapstructure:"STRIPE_API_KEY"`

	AWSRegion      string `mapstructure:"AWS_REGION"`
	SESFromAddress string `mapstructure:"SES_FROM_ADDRESS"`

	BillTaxRate      float64 `mapstructure:"BILL_TAX_RATE"`
	PaymentRateLimit string  `mapstructure:"PAYMENT_RATE_LIMIT"`
}

// PhonePeConfig holds the merchant credentials for the payment gateway.
type PhonePeConfig struct {
	MerchantID string `mapstructure:"CLIENT_ID"`
	SaltKey    string `mapstructure:"CLIENT_KEY"`
	SaltIndex  string `mapstructure:"CLIENT_INDEX"`
	BaseURL    string `mapstructure:"PHONEPE_BASE_URL"`
	// AppBaseURL is this service's public address, used for redirect and callback URLs.
	AppBaseURL string `mapstructure:"APP_BE_URL"`
	SuccessURL string `mapstructure:"PAYMENT_SUCCESS_URL"`
	FailureURL string `mapstructure:"PAYMENT_FAILURE_URL"`
}

var keys = []string{
	"PORT", "DATABASE_URL", "JWT_SECRET", "CLIENT_ORIGIN",
	"CLIENT_ID", "CLIENT_KEY", "CLIENT_INDEX", "PHONEPE_BASE_URL", "APP_BE_URL",
	"PAYMENT_SUCCESS_URL", "PAYMENT_FAILURE_URL",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "RABBITMQ_URL", "STRIPE_API_KEY",
	"AWS_REGION", "SES_FROM_ADDRESS", "BILL_TAX_RATE", "PAYMENT_RATE_LIMIT",
}

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("PORT", "8080")
	v.SetDefault("CLIENT_INDEX", "1")
	v.SetDefault("PHONEPE_BASE_URL", defaultPhonePeBaseURL)
	v.SetDefault("APP_BE_URL", "http://localhost:8080")
	v.SetDefault("PAYMENT_SUCCESS_URL", "/payment/success")
	v.SetDefault("PAYMENT_FAILURE_URL", "/payment/failure")
	v.SetDefault("BILL_TAX_RATE", 0)
	v.SetDefault("PAYMENT_RATE_LIMIT", "10-M")

	v.AutomaticEnv()
	// Unmarshal only sees env values for keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	err := v.ReadInConfig()
	if err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("No .env file found.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
