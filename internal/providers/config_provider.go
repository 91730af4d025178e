package providers

import (
	"fmt"
	"path/filepath"
	"reviewguard/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var defaultKeywords = []string{"http", "www", "buy", "sell", "promo", "discount", "free", "win", "prize"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8090)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)

	v.SetDefault("storage.backend", "memory")
	v.SetDefault("storage.keyPrefix", "spam_protection")
	v.SetDefault("storage.memory.size", 64)
	v.SetDefault("storage.file.saveInterval", 30*time.Second)
	v.SetDefault("storage.idleTTL", 48*time.Hour)
	v.SetDefault("storage.sweepInterval", 10*time.Minute)

	v.SetDefault("spam.rateLimit.maxPerHour", 5)
	v.SetDefault("spam.rateLimit.maxPerDay", 10)
	v.SetDefault("spam.rateLimit.warnPerHour", 3)
	v.SetDefault("spam.rateLimit.minInterval", 10*time.Second)
	v.SetDefault("spam.rateLimit.retention", 24*time.Hour)

	v.SetDefault("spam.behavior.window", time.Hour)
	v.SetDefault("spam.behavior.maxEntries", 10)
	v.SetDefault("spam.behavior.rapidInterval", 10*time.Second)
	v.SetDefault("spam.behavior.similarityThreshold", 0.98)
	v.SetDefault("spam.behavior.minCommentLength", 10)
	v.SetDefault("spam.behavior.identicalRatings", 2)
	v.SetDefault("spam.behavior.perfectRatings", 3)

	v.SetDefault("spam.content.minCommentLength", 5)
	v.SetDefault("spam.content.maxCommentLength", 500)
	v.SetDefault("spam.content.uppercaseRatio", 0.8)
	v.SetDefault("spam.content.keywords", defaultKeywords)

	v.SetDefault("spam.device.window", 30*time.Minute)
	v.SetDefault("spam.device.historySize", 10)
	v.SetDefault("spam.device.maxDistinctSignatures", 2)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	setDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("logger.level", "REVIEWGUARD_LOG_LEVEL")
	_ = v.BindEnv("storage.backend", "REVIEWGUARD_STORAGE_BACKEND")
	_ = v.BindEnv("storage.redis.addr", "REVIEWGUARD_REDIS_ADDR")
	_ = v.BindEnv("metrics.enabled", "REVIEWGUARD_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "ReviewGuard"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
