package config

import (
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	MongoDB  MongoDBConfig
	JWT      JWTConfig
	Fraud    FraudConfig
	Business BusinessConfig
	PIX      PIXConfig
	LogLevel string
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

// MongoDBConfig holds MongoDB-specific configuration
type MongoDBConfig struct {
	URI      string
	Database string
}

// JWTConfig holds JWT-specific configuration
type JWTConfig struct {
	Secret    string
	ExpiresIn int
}

// FraudConfig controls the reading-time heuristic. MaxReadingSpeed is the
// fastest plausible reading rate in words per minute; a session shorter than
// wordCount/MaxReadingSpeed is rejected.
type FraudConfig struct {
	MaxReadingSpeed int
}

// BusinessConfig holds monetization constants. Amounts are in centavos.
type BusinessConfig struct {
	MinWithdrawalAmount int64
	SignupBonusPoints   int
}

// PIXConfig holds PIX payout gateway configuration
type PIXConfig struct {
	BaseURL     string
	APIKey      string
	MockGateway bool
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// A .env file is optional; environment variables win either way.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		// It's okay if config file is not found, we'll use environment variables
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	applyEnvOverrides(&config)

	return &config, nil
}

// applyEnvOverrides maps the flat variable names used by deployment
// environments onto the config. Viper's AutomaticEnv only matches the dotted
// key form (e.g. SERVER.PORT), which most platforms cannot express.
func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = GetEnv("PORT", cfg.Server.Port)
	cfg.Server.AllowedOrigins = GetEnvAsSlice("ALLOWED_ORIGINS", cfg.Server.AllowedOrigins, ",")
	cfg.MongoDB.URI = GetEnv("MONGODB_URI", cfg.MongoDB.URI)
	cfg.MongoDB.Database = GetEnv("MONGODB_DATABASE", cfg.MongoDB.Database)
	cfg.JWT.Secret = GetEnv("JWT_SECRET", cfg.JWT.Secret)
	cfg.JWT.ExpiresIn = GetEnvAsInt("JWT_EXPIRES_IN", cfg.JWT.ExpiresIn)
	cfg.Fraud.MaxReadingSpeed = GetEnvAsInt("MAX_READING_SPEED", cfg.Fraud.MaxReadingSpeed)
	cfg.Business.MinWithdrawalAmount = GetEnvAsInt64("MIN_WITHDRAWAL_AMOUNT", cfg.Business.MinWithdrawalAmount)
	cfg.Business.SignupBonusPoints = GetEnvAsInt("SIGNUP_BONUS_POINTS", cfg.Business.SignupBonusPoints)
	cfg.PIX.BaseURL = GetEnv("PIX_BASE_URL", cfg.PIX.BaseURL)
	cfg.PIX.APIKey = GetEnv("PIX_API_KEY", cfg.PIX.APIKey)
	cfg.PIX.MockGateway = GetEnvAsBool("PIX_MOCK_GATEWAY", cfg.PIX.MockGateway)
	cfg.LogLevel = GetEnv("LOG_LEVEL", cfg.LogLevel)
}

// setDefaults sets default values for configuration
func setDefaults() {
	viper.SetDefault("Server.Port", "4000")
	viper.SetDefault("Server.AllowedOrigins", []string{"http://localhost:3000"})
	viper.SetDefault("MongoDB.URI", "mongodb://localhost:27017")
	viper.SetDefault("MongoDB.Database", "leiturapay")
	viper.SetDefault("JWT.ExpiresIn", 24*60*60) // 24 hours
	viper.SetDefault("Fraud.MaxReadingSpeed", 250)
	viper.SetDefault("Business.MinWithdrawalAmount", 2000) // R$ 20,00
	viper.SetDefault("Business.SignupBonusPoints", 50)
	viper.SetDefault("PIX.MockGateway", true)
	viper.SetDefault("LogLevel", "info")
}
