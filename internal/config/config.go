package config

import (
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port        string `mapstructure:"port"`
		Env         string `mapstructure:"env"`
		FrontendURL string `mapstructure:"frontend_url"`
		StaticDir   string `mapstructure:"static_dir"`
	} `mapstructure:"app"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
	} `mapstructure:"kafka"`
	Auth struct {
		JWTSecret     string        `mapstructure:"jwt_secret"`
		TokenLifespan time.Duration `mapstructure:"token_lifespan"`
	} `mapstructure:"auth"`
	Mailgun struct {
		Domain string `mapstructure:"domain"`
		APIKey string `mapstructure:"api_key"`
		Sender string `mapstructure:"sender"`
	} `mapstructure:"mailgun"`
	Stripe struct {
		SecretKey      string `mapstructure:"secret_key"`
		WebhookSecret  string `mapstructure:"webhook_secret"`
		MonthlyPriceID string `mapstructure:"monthly_price_id"`
		YearlyPriceID  string `mapstructure:"yearly_price_id"`
	} `mapstructure:"stripe"`
	OpenAI struct {
		APIKey     string `mapstructure:"api_key"`
		Model      string `mapstructure:"model"`
		MaxTokens  int    `mapstructure:"max_tokens"`
		HistoryCap int    `mapstructure:"history_cap"`
	} `mapstructure:"openai"`
	Media struct {
		Provider string `mapstructure:"provider"`
		Dir      string `mapstructure:"dir"`
		BaseURL  string `mapstructure:"base_url"`
	} `mapstructure:"media"`
	Cloudinary struct {
		CloudName string `mapstructure:"cloud_name"`
		ApiKey    string `mapstructure:"api_key"`
		ApiSecret string `mapstructure:"api_secret"`
	} `mapstructure:"cloudinary"`
}

// LoadConfig reads config.yaml and .env from dir, env vars win over file values.
func LoadConfig(dir string) (cfg Config, err error) {

	err = godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil {
		log.Println("warning: .env file not found, use default.")
	}

	viper.AddConfigPath(dir)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	if err = viper.ReadInConfig(); err != nil {
		log.Printf("note: config.yaml not found, read .env only. Error: %v", err)
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.BindEnv("app.port", "APP_PORT")
	viper.BindEnv("app.env", "APP_ENV")
	viper.BindEnv("app.frontend_url", "FRONTEND_URL")
	viper.BindEnv("app.static_dir", "STATIC_DIR")
	viper.BindEnv("db.dsn", "DB_DSN")
	viper.BindEnv("redis.addr", "REDIS_ADDR")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("auth.token_lifespan", "TOKEN_LIFESPAN")

	viper.BindEnv("mailgun.domain", "MAILGUN_DOMAIN")
	viper.BindEnv("mailgun.api_key", "MAILGUN_API_KEY")
	viper.BindEnv("mailgun.sender", "MAILGUN_SENDER")

	viper.BindEnv("stripe.secret_key", "STRIPE_SECRET_KEY")
	viper.BindEnv("stripe.webhook_secret", "STRIPE_WEBHOOK_SECRET")
	viper.BindEnv("stripe.monthly_price_id", "STRIPE_MONTHLY_PRICE_ID")
	viper.BindEnv("stripe.yearly_price_id", "STRIPE_YEARLY_PRICE_ID")

	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.model", "OPENAI_MODEL")
	viper.BindEnv("openai.max_tokens", "OPENAI_MAX_TOKENS")
	viper.BindEnv("openai.history_cap", "OPENAI_HISTORY_CAP")

	viper.BindEnv("media.provider", "MEDIA_PROVIDER")
	viper.BindEnv("media.dir", "MEDIA_DIR")
	viper.BindEnv("media.base_url", "MEDIA_BASE_URL")

	viper.BindEnv("cloudinary.cloud_name", "CLOUDINARY_CLOUD_NAME")
	viper.BindEnv("cloudinary.api_key", "CLOUDINARY_API_KEY")
	viper.BindEnv("cloudinary.api_secret", "CLOUDINARY_API_SECRET")

	viper.SetDefault("app.port", "8080")
	viper.SetDefault("app.env", "development")
	viper.SetDefault("app.static_dir", "dist")
	viper.SetDefault("auth.token_lifespan", "24h")
	viper.SetDefault("openai.model", "gpt-4o")
	viper.SetDefault("openai.max_tokens", 1000)
	viper.SetDefault("openai.history_cap", 40)
	viper.SetDefault("media.provider", "disk")
	viper.SetDefault("media.dir", "uploaded_images")
	viper.SetDefault("media.base_url", "/uploads")

	err = viper.Unmarshal(&cfg)
	return
}
