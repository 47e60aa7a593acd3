package providers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"chronorise/internal/structures"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CHRONORISE_LOG_LEVEL")
	viper.BindEnv("clock.tickInterval", "CHRONORISE_TICK_INTERVAL")
	viper.BindEnv("alarms.snoozeFor", "CHRONORISE_SNOOZE_FOR")
	viper.BindEnv("cache.enabled", "CHRONORISE_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CHRONORISE_CACHE_SIZE")
	viper.BindEnv("audio.enabled", "CHRONORISE_AUDIO_ENABLED")
	viper.BindEnv("briefing.apiKey", "GEMINI_API_KEY")

	viper.SetDefault("clock.tickInterval", time.Second)
	viper.SetDefault("alarms.snoozeFor", 5*time.Minute)
	viper.SetDefault("audio.sampleRate", 44100)
	viper.SetDefault("briefing.baseUrl", "https://generativelanguage.googleapis.com")
	viper.SetDefault("briefing.model", "gemini-2.5-flash")
	viper.SetDefault("briefing.timeout", 10*time.Second)

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ChronoRise"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
