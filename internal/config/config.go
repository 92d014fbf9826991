package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// BattleConfig хранит дефолтные параметры создаваемых битв.
// Значения прокидываются в battle.Settings на композиционном корне (main.go),
// внутри игровой логики нет обращений к viper.
type BattleConfig struct {
	Fund               int    `mapstructure:"fund"`
	ScoreLimit         int    `mapstructure:"scoreLimit"`
	TimeLimit          int    `mapstructure:"timeLimit"`
	SuicideRestartTime int    `mapstructure:"suicideRestartTime"`
	DefaultMap         string `mapstructure:"defaultMap"`
	DefaultTitle       string `mapstructure:"defaultTitle"`
}

// ServerConfig хранит сетевые настройки.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// SetDefaults регистрирует значения по умолчанию.
// Вынесено отдельно, чтобы тесты могли работать без файла конфигурации.
func SetDefaults() {
	viper.SetDefault("server.port", "8090")

	viper.SetDefault("battle.fund", 0)
	viper.SetDefault("battle.scoreLimit", 300)
	viper.SetDefault("battle.timeLimit", 600)
	viper.SetDefault("battle.suicideRestartTime", 10000)
	viper.SetDefault("battle.defaultMap", "sandbox")
	viper.SetDefault("battle.defaultTitle", "Sandbox DM")
}

// Load читает конфигурацию из JSON файла в configDir и из переменных окружения
// (PTS_SERVER_PORT и т.д.). Отсутствие файла не является ошибкой - остаются
// значения по умолчанию.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix("pts")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName("server.cfg")
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	return nil
}

// Server возвращает сетевую конфигурацию.
func Server() ServerConfig {
	return ServerConfig{
		Port: viper.GetString("server.port"),
	}
}

// Battle возвращает конфигурацию битв.
func Battle() BattleConfig {
	return BattleConfig{
		Fund:               viper.GetInt("battle.fund"),
		ScoreLimit:         viper.GetInt("battle.scoreLimit"),
		TimeLimit:          viper.GetInt("battle.timeLimit"),
		SuicideRestartTime: viper.GetInt("battle.suicideRestartTime"),
		DefaultMap:         viper.GetString("battle.defaultMap"),
		DefaultTitle:       viper.GetString("battle.defaultTitle"),
	}
}
