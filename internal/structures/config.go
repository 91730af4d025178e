package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type MemoryStoreConfig struct {
	Size int `yaml:"size"`
}

type FileStoreConfig struct {
	Path         string        `yaml:"path"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type RedisStoreConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type StorageConfig struct {
	Backend   string            `yaml:"backend" validate:"required|in:memory,file,redis"`
	KeyPrefix string            `yaml:"keyPrefix" validate:"required"`
	Memory    MemoryStoreConfig `yaml:"memory"`
	File      FileStoreConfig   `yaml:"file"`
	Redis     RedisStoreConfig  `yaml:"redis"`
	// IdleTTL is how long a device may stay silent before its state is
	// dropped. Zero keeps state forever.
	IdleTTL       time.Duration `yaml:"idleTTL"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

// RateLimitConfig holds the submission caps of the rate limiter.
type RateLimitConfig struct {
	MaxPerHour  int           `yaml:"maxPerHour" validate:"required|min:1"`
	MaxPerDay   int           `yaml:"maxPerDay" validate:"required|min:1"`
	WarnPerHour int           `yaml:"warnPerHour" validate:"required|min:1"`
	MinInterval time.Duration `yaml:"minInterval" validate:"required|min:1"`
	Retention   time.Duration `yaml:"retention" validate:"required|min:1"`
}

type BehaviorConfig struct {
	Window              time.Duration `yaml:"window" validate:"required|min:1"`
	MaxEntries          int           `yaml:"maxEntries" validate:"required|min:1"`
	RapidInterval       time.Duration `yaml:"rapidInterval" validate:"required|min:1"`
	SimilarityThreshold float64       `yaml:"similarityThreshold"`
	MinCommentLength    int           `yaml:"minCommentLength" validate:"required|min:1"`
	IdenticalRatings    int           `yaml:"identicalRatings" validate:"required|min:1"`
	PerfectRatings      int           `yaml:"perfectRatings" validate:"required|min:1"`
}

type ContentConfig struct {
	MinCommentLength int      `yaml:"minCommentLength" validate:"required|min:1"`
	MaxCommentLength int      `yaml:"maxCommentLength" validate:"required|min:1"`
	UppercaseRatio   float64  `yaml:"uppercaseRatio"`
	Keywords         []string `yaml:"keywords"`
}

type DeviceConfig struct {
	Window                time.Duration `yaml:"window" validate:"required|min:1"`
	HistorySize           int           `yaml:"historySize" validate:"required|min:1"`
	MaxDistinctSignatures int           `yaml:"maxDistinctSignatures" validate:"required|min:1"`
}

type SpamConfig struct {
	RateLimit RateLimitConfig `yaml:"rateLimit"`
	Behavior  BehaviorConfig  `yaml:"behavior"`
	Content   ContentConfig   `yaml:"content"`
	Device    DeviceConfig    `yaml:"device"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName   string
	Debug     bool
	Path      string
	WebServer Server        `yaml:"webServer"`
	Logger    LoggerConfig  `yaml:"logger"`
	Storage   StorageConfig `yaml:"storage"`
	Spam      SpamConfig    `yaml:"spam"`
	Metrics   MetricsConfig `yaml:"metrics"`
}
