package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"health_monitor/internal/models"
	"health_monitor/internal/service"

	"github.com/spf13/viper"
)

// Persistence backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Notification senders.
const (
	SenderLog   = "log"
	SenderKafka = "kafka"
)

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SimulationConfig struct {
	Tick         time.Duration `mapstructure:"tick"`
	Housekeeping time.Duration `mapstructure:"housekeeping"`
	Seed         int64         `mapstructure:"seed"` // 0 means time-seeded
}

type MonitorConfig struct {
	WindowCapacity  int           `mapstructure:"window_capacity"`
	HistoryCapacity int           `mapstructure:"history_capacity"`
	ModalTimeout    time.Duration `mapstructure:"modal_timeout"`
	User            string        `mapstructure:"user"`
}

type NotifyConfig struct {
	Stagger  time.Duration `mapstructure:"stagger"`
	Revert   time.Duration `mapstructure:"revert"`
	Location string        `mapstructure:"location"`
	Sender   string        `mapstructure:"sender"` // log | kafka
}

type PersistenceConfig struct {
	Backend string `mapstructure:"backend"` // sqlite | redis
	DBPath  string `mapstructure:"db_path"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type MQTTConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Broker      string `mapstructure:"broker"`
	ClientID    string `mapstructure:"client_id"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	TopicPrefix string `mapstructure:"topic_prefix"`
	QoS         byte   `mapstructure:"qos"`
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// Config is the typed application configuration.
type Config struct {
	Port        string                `mapstructure:"port"`
	HTTP        HTTPConfig            `mapstructure:"http"`
	Log         LogConfig             `mapstructure:"log"`
	Simulation  SimulationConfig      `mapstructure:"simulation"`
	Monitor     MonitorConfig         `mapstructure:"monitor"`
	Thresholds  models.ThresholdSet   `mapstructure:"thresholds"`
	Pattern     service.PatternConfig `mapstructure:"pattern"`
	Notify      NotifyConfig          `mapstructure:"notify"`
	Contacts    []models.Contact      `mapstructure:"contacts"`
	Persistence PersistenceConfig     `mapstructure:"persistence"`
	Redis       RedisConfig           `mapstructure:"redis"`
	MQTT        MQTTConfig            `mapstructure:"mqtt"`
	Kafka       KafkaConfig           `mapstructure:"kafka"`
}

const envPrefix = "HM"

// Load reads configs/config.yml (or the file at path), applies HM_* environment
// overrides on top of defaults and validates the result.
// A missing default config file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs") // configs/config.yml
		v.SetConfigName("config")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	th := models.DefaultThresholds()
	pc := service.DefaultPatternConfig()

	v.SetDefault("port", "8080")
	v.SetDefault("http.read_header_timeout", "10s")
	v.SetDefault("http.write_timeout", "10s")
	v.SetDefault("http.idle_timeout", "60s")
	v.SetDefault("http.shutdown_timeout", "10s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("simulation.tick", "1500ms")
	v.SetDefault("simulation.housekeeping", service.DefaultHousekeeping.String())
	v.SetDefault("simulation.seed", 0)

	v.SetDefault("monitor.window_capacity", service.DefaultWindowCapacity)
	v.SetDefault("monitor.history_capacity", service.DefaultHistoryCapacity)
	v.SetDefault("monitor.modal_timeout", service.DefaultModalTimeout.String())
	v.SetDefault("monitor.user", "Smart health monitor")

	v.SetDefault("thresholds.heart_rate.min", th.HeartRate.Min)
	v.SetDefault("thresholds.heart_rate.max", th.HeartRate.Max)
	v.SetDefault("thresholds.heart_rate.critical", th.HeartRate.Critical)
	v.SetDefault("thresholds.heart_rate.emergency", th.HeartRate.Emergency)
	v.SetDefault("thresholds.blood_oxygen.min", th.BloodOxygen.Min)
	v.SetDefault("thresholds.blood_oxygen.max", th.BloodOxygen.Max)
	v.SetDefault("thresholds.blood_oxygen.critical", th.BloodOxygen.Critical)
	v.SetDefault("thresholds.blood_oxygen.emergency", th.BloodOxygen.Emergency)

	v.SetDefault("pattern.faint_samples", pc.FaintSamples)
	v.SetDefault("pattern.faint_heart_rate", pc.FaintHeartRate)
	v.SetDefault("pattern.faint_blood_oxygen", pc.FaintBloodOxygen)
	v.SetDefault("pattern.trend_samples", pc.TrendSamples)
	v.SetDefault("pattern.notice_heart_rate_delta", pc.NoticeHeartRateDelta)
	v.SetDefault("pattern.notice_blood_oxygen_delta", pc.NoticeBloodOxygenDelta)
	v.SetDefault("pattern.escalated_heart_rate_delta", pc.EscalatedHeartRateDelta)
	v.SetDefault("pattern.escalated_blood_oxygen_delta", pc.EscalatedBloodOxygenDelta)

	v.SetDefault("notify.stagger", service.DefaultNotifyStagger.String())
	v.SetDefault("notify.revert", service.DefaultNotifyRevert.String())
	v.SetDefault("notify.location", service.DefaultLocation)
	v.SetDefault("notify.sender", SenderLog)

	v.SetDefault("persistence.backend", BackendSQLite)
	v.SetDefault("persistence.db_path", "app.db")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "health-monitor:history")

	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "health-monitor")
	v.SetDefault("mqtt.topic_prefix", "wearable")
	v.SetDefault("mqtt.qos", 1)

	v.SetDefault("kafka.topic", "health-monitor.notifications")
}

var errInvalidConfig = errors.New("invalid config")

// Validate fails fast on configuration invariant violations.
func (c *Config) Validate() error {
	if err := c.Thresholds.Validate(); err != nil {
		return fmt.Errorf("%w: thresholds: %v", errInvalidConfig, err)
	}
	if strings.TrimSpace(c.Port) == "" {
		return fmt.Errorf("%w: port is empty", errInvalidConfig)
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: http.shutdown_timeout must be > 0", errInvalidConfig)
	}
	if c.Simulation.Tick <= 0 {
		return fmt.Errorf("%w: simulation.tick must be > 0", errInvalidConfig)
	}
	if c.Monitor.WindowCapacity < c.Pattern.FaintSamples {
		return fmt.Errorf("%w: monitor.window_capacity %d < pattern.faint_samples %d",
			errInvalidConfig, c.Monitor.WindowCapacity, c.Pattern.FaintSamples)
	}
	if c.Monitor.HistoryCapacity <= 0 {
		return fmt.Errorf("%w: monitor.history_capacity must be > 0", errInvalidConfig)
	}
	if c.Pattern.NoticeHeartRateDelta > c.Pattern.EscalatedHeartRateDelta ||
		c.Pattern.NoticeBloodOxygenDelta > c.Pattern.EscalatedBloodOxygenDelta {
		return fmt.Errorf("%w: pattern notice deltas must not exceed escalated deltas", errInvalidConfig)
	}
	for i, ct := range c.Contacts {
		if strings.TrimSpace(ct.Name) == "" || strings.TrimSpace(ct.Phone) == "" {
			return fmt.Errorf("%w: contact %d needs name and phone", errInvalidConfig, i)
		}
	}

	switch c.Persistence.Backend {
	case BackendSQLite:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required for the redis backend", errInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown persistence.backend %q", errInvalidConfig, c.Persistence.Backend)
	}

	switch c.Notify.Sender {
	case SenderLog:
	case SenderKafka:
		if len(c.Kafka.Brokers) == 0 || c.Kafka.Topic == "" {
			return fmt.Errorf("%w: kafka.brokers and kafka.topic are required for the kafka sender", errInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notify.sender %q", errInvalidConfig, c.Notify.Sender)
	}

	if c.MQTT.Enabled && c.MQTT.Broker == "" {
		return fmt.Errorf("%w: mqtt.broker is required when mqtt is enabled", errInvalidConfig)
	}
	return nil
}

// MonitorSettings maps the config onto the session configuration.
func (c *Config) MonitorSettings() service.MonitorConfig {
	return service.MonitorConfig{
		Thresholds:      c.Thresholds,
		Pattern:         c.Pattern,
		WindowCapacity:  c.Monitor.WindowCapacity,
		HistoryCapacity: c.Monitor.HistoryCapacity,
		ModalTimeout:    c.Monitor.ModalTimeout,
		Housekeeping:    c.Simulation.Housekeeping,
		Contacts:        c.Contacts,
		Location:        c.Notify.Location,
		User:            c.Monitor.User,
	}
}

// DispatcherSettings maps the config onto the notification dispatcher configuration.
func (c *Config) DispatcherSettings() service.DispatcherConfig {
	return service.DispatcherConfig{
		Stagger:  c.Notify.Stagger,
		Revert:   c.Notify.Revert,
		Location: c.Notify.Location,
	}
}
