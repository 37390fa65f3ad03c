package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Game     GameConfig     `mapstructure:"game"`
	Words    WordsConfig    `mapstructure:"words"`
	Scores   ScoresConfig   `mapstructure:"scores"`
	Database DatabaseConfig `mapstructure:"database"`
	AI       AIConfig       `mapstructure:"ai"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	CommandPrefix  string `mapstructure:"command_prefix"`
}

type GameConfig struct {
	TurnSeconds   int `mapstructure:"turn_seconds"`
	MinTurnTime   int `mapstructure:"min_turn_time"`
	MaxTurnTime   int `mapstructure:"max_turn_time"`
	LongWordLen   int `mapstructure:"long_word_len"`
	LongWordBonus int `mapstructure:"long_word_bonus"`
	StreakMin     int `mapstructure:"streak_min"`
	StreakBonus   int `mapstructure:"streak_bonus"`
	ComboStep     int `mapstructure:"combo_step"`
	ComboBonus    int `mapstructure:"combo_bonus"`
	MaxBots       int `mapstructure:"max_bots"`
}

type WordsConfig struct {
	File string `mapstructure:"file"`
}

type ScoresConfig struct {
	File string `mapstructure:"file"`
}

type DatabaseConfig struct {
	// Driver selects the score store backend: "file", "postgres" or "gorm".
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

type AIConfig struct {
	BaseURL        string  `mapstructure:"base_url"`
	APIKey         string  `mapstructure:"api_key"`
	Model          string  `mapstructure:"model"`
	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	MaxRetries     int     `mapstructure:"max_retries"`
	ThinkDelayMS   int     `mapstructure:"think_delay_ms"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

func setDefaults() {
	viper.SetDefault("server.http_address", ":8080")
	viper.SetDefault("server.rpc_address", ":8081")
	viper.SetDefault("server.metrics_address", ":9090")
	viper.SetDefault("server.command_prefix", "!")

	viper.SetDefault("game.turn_seconds", 20)
	viper.SetDefault("game.min_turn_time", 5)
	viper.SetDefault("game.max_turn_time", 120)
	viper.SetDefault("game.long_word_len", 7)
	viper.SetDefault("game.long_word_bonus", 2)
	viper.SetDefault("game.streak_min", 3)
	viper.SetDefault("game.streak_bonus", 1)
	viper.SetDefault("game.combo_step", 5)
	viper.SetDefault("game.combo_bonus", 1)
	viper.SetDefault("game.max_bots", 3)

	viper.SetDefault("words.file", "words.txt")
	viper.SetDefault("scores.file", "data/scores.json")

	viper.SetDefault("database.driver", "file")
	viper.SetDefault("database.postgres.host", "localhost")
	viper.SetDefault("database.postgres.port", 5432)

	viper.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	viper.SetDefault("ai.model", "meta-llama/llama-3.1-405b-instruct:free")
	viper.SetDefault("ai.max_tokens", 20)
	viper.SetDefault("ai.temperature", 0.7)
	viper.SetDefault("ai.max_retries", 3)
	viper.SetDefault("ai.think_delay_ms", 1000)
	viper.SetDefault("ai.timeout_seconds", 15)
}

func LoadConfig(path string) (config *Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	setDefaults()
	viper.AutomaticEnv()

	// A missing config file is fine, defaults plus env cover everything.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err = viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate checks that the loaded values are usable before anything starts.
func (c *Config) Validate() error {
	g := c.Game
	if g.MinTurnTime <= 0 || g.MaxTurnTime < g.MinTurnTime {
		return fmt.Errorf("invalid turn time bounds [%d, %d]", g.MinTurnTime, g.MaxTurnTime)
	}
	if g.TurnSeconds < g.MinTurnTime || g.TurnSeconds > g.MaxTurnTime {
		return fmt.Errorf("turn_seconds %d outside bounds [%d, %d]", g.TurnSeconds, g.MinTurnTime, g.MaxTurnTime)
	}
	if g.LongWordLen <= 0 {
		return fmt.Errorf("long_word_len must be positive, got %d", g.LongWordLen)
	}
	if g.MaxBots < 0 {
		return fmt.Errorf("max_bots must not be negative, got %d", g.MaxBots)
	}
	switch c.Database.Driver {
	case "file", "postgres", "gorm":
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("ai.max_tokens must be positive, got %d", c.AI.MaxTokens)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2.0 {
		return fmt.Errorf("ai.temperature %v outside [0, 2]", c.AI.Temperature)
	}
	return nil
}
