// Ininicializing common application configuration
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Segmenter SegmenterConfig `mapstructure:"segmenter"`
	Detector  DetectorConfig  `mapstructure:"detector"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

type ServerConfig struct {
	AppVersion     string        `mapstructure:"app_version"`
	Host           string        `mapstructure:"host"`
	Port           string        `mapstructure:"port"`
	Timeout        time.Duration `mapstructure:"timeout"`
	Idle_timeout   time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxUploadBytes int64         `mapstructure:"max_upload_bytes"`
	Env            string        `mapstructure:"environment"`
	Mode           string        `mapstructure:"mode"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type PipelineConfig struct {
	// Hex colour of the canvas the foreground is composited on.
	CanvasColor string `mapstructure:"canvas_color"`
}

type SegmenterConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DetectorConfig struct {
	CascadePath string `mapstructure:"cascade_path"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"group_id"`
	// Jobs processed concurrently by one consumer.
	Workers int `mapstructure:"workers"`
}

type StorageConfig struct {
	BasePath string `mapstructure:"base_path"`
}

func LoadConfig() (*viper.Viper, error) {

	viperInstance := viper.New()

	viperInstance.AddConfigPath("./config")
	viperInstance.SetConfigName("config")
	viperInstance.SetConfigType("yaml")

	viperInstance.SetEnvPrefix("PASPHOTO")
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viperInstance.AutomaticEnv()

	setDefaults(viperInstance)

	err := viperInstance.ReadInConfig()

	var notFound viper.ConfigFileNotFoundError
	if err != nil && !errors.As(err, &notFound) {
		return nil, err
	}
	return viperInstance, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {

	var c Config

	err := v.Unmarshal(&c)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.app_version", "1.0.0")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.timeout", 60*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)
	v.SetDefault("server.request_timeout", 55*time.Second)
	v.SetDefault("server.max_upload_bytes", 32<<20)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.level", "info")

	v.SetDefault("pipeline.canvas_color", "#FFFFFF")

	v.SetDefault("segmenter.enabled", true)
	v.SetDefault("segmenter.base_url", "http://localhost:7000")
	v.SetDefault("segmenter.timeout", 45*time.Second)

	v.SetDefault("detector.cascade_path", "")

	v.SetDefault("kafka.brokers", []string{"localhost:9094"})
	v.SetDefault("kafka.topic", "photo-processing")
	v.SetDefault("kafka.group_id", "pasphoto-processor")
	v.SetDefault("kafka.workers", 4)

	v.SetDefault("storage.base_path", "./storage")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
