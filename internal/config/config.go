package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Trading  TradingConfig
	Database DatabaseConfig
	Exchange ExchangeConfig
}

// TradingConfig defines the trading parameters shared by all pair traders.
type TradingConfig struct {
	Pairs               []string `mapstructure:"pairs"`
	PollIntervalMS      int      `mapstructure:"poll_interval_ms"`
	TriggerRatio        string   `mapstructure:"ask_vs_low_trigger_ratio"`
	TargetProfitEUR     string   `mapstructure:"target_round_trip_profit_eur"`
	TargetGrowthPercent string   `mapstructure:"target_price_growth_percent"`
	FeePercent          string   `mapstructure:"trade_fee_percent"`
	InitialBalanceEUR   string   `mapstructure:"initial_balance_eur"`
}

// DatabaseConfig defines the database connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// DSN returns the postgres connection string for pgx.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s", d.User, d.Password, d.Host, d.Port, d.DBName)
}

// ExchangeConfig defines settings for the quote feed.
type ExchangeConfig struct {
	Name  string `mapstructure:"name"`
	WSURL string `mapstructure:"ws_url"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	err = v.ReadInConfig()
	if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}

	if len(config.Trading.Pairs) == 0 {
		err = fmt.Errorf("at least one trading pair is required")
		return
	}
	if config.Trading.PollIntervalMS <= 0 {
		err = fmt.Errorf("poll interval must be positive")
		return
	}
	return
}
