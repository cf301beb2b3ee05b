// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Decoder  DecoderConfig  `mapstructure:"decoder"`
	Capture  CaptureConfig  `mapstructure:"capture"`
	MQTT     MQTTConfig     `mapstructure:"mqtt"`
	Security SecurityConfig `mapstructure:"security"`
	App      AppConfig      `mapstructure:"app"`
}

// ServerConfig represents HTTP server configuration
type ServerConfig struct {
	Host           string        `mapstructure:"host" validate:"required"`
	Port           string        `mapstructure:"port" validate:"required"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	MaxRequestSize int64         `mapstructure:"max_request_size"`
	TLS            TLSConfig     `mapstructure:"tls"`
}

// TLSConfig represents TLS configuration
type TLSConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	DBName         string        `mapstructure:"dbname"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpenConns   int           `mapstructure:"max_open_conns"`
	MaxIdleConns   int           `mapstructure:"max_idle_conns"`
	MaxLifetime    time.Duration `mapstructure:"max_lifetime"`
	MigrationsPath string        `mapstructure:"migrations_path"`
	AutoMigrate    bool          `mapstructure:"auto_migrate"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// DecoderConfig controls how byte streams are decoded and stored
type DecoderConfig struct {
	DefaultTable    string        `mapstructure:"default_table"`
	MaxPayloadBytes int           `mapstructure:"max_payload_bytes"`
	StoreRaw        bool          `mapstructure:"store_raw"`
	CompressRaw     bool          `mapstructure:"compress_raw"`
	JobRetention    time.Duration `mapstructure:"job_retention"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// CaptureConfig lists the ports print jobs are captured from
type CaptureConfig struct {
	Enabled    bool            `mapstructure:"enabled"`
	IdleGap    time.Duration   `mapstructure:"idle_gap"`
	MaxJobSize int             `mapstructure:"max_job_size"`
	Sources    []CaptureSource `mapstructure:"sources"`
}

// CaptureSource represents one capture port
type CaptureSource struct {
	Name   string           `mapstructure:"name" json:"name"`
	Type   string           `mapstructure:"type" json:"type"`
	Table  string           `mapstructure:"table" json:"table"`
	Serial SerialPortConfig `mapstructure:"serial" json:"serial,omitempty"`
	TCP    TCPPortConfig    `mapstructure:"tcp" json:"tcp,omitempty"`
	USB    USBPortConfig    `mapstructure:"usb" json:"usb,omitempty"`
}

// SerialPortConfig represents serial port configuration
type SerialPortConfig struct {
	Port     string        `mapstructure:"port" json:"port,omitempty"`
	BaudRate int           `mapstructure:"baud_rate" json:"baud_rate,omitempty"`
	DataBits int           `mapstructure:"data_bits" json:"data_bits,omitempty"`
	StopBits int           `mapstructure:"stop_bits" json:"stop_bits,omitempty"`
	Parity   string        `mapstructure:"parity" json:"parity,omitempty"`
	Timeout  time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
}

// TCPPortConfig represents a raw print port listener
type TCPPortConfig struct {
	Listen      string        `mapstructure:"listen" json:"listen,omitempty"`
	ReadTimeout time.Duration `mapstructure:"read_timeout" json:"read_timeout,omitempty"`
}

// USBPortConfig represents a USB printer-class device
type USBPortConfig struct {
	VendorID         uint16        `mapstructure:"vendor_id" json:"vendor_id,omitempty"`
	ProductID        uint16        `mapstructure:"product_id" json:"product_id,omitempty"`
	Timeout          time.Duration `mapstructure:"timeout" json:"timeout,omitempty"`
	BulkTransferSize int           `mapstructure:"bulk_transfer_size" json:"bulk_transfer_size,omitempty"`
}

// MQTTConfig represents the job event publisher configuration
type MQTTConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Broker         string        `mapstructure:"broker"`
	ClientID       string        `mapstructure:"client_id"`
	Username       string        `mapstructure:"username"`
	Password       string        `mapstructure:"password"`
	Topic          string        `mapstructure:"topic"`
	QoS            byte          `mapstructure:"qos"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// SecurityConfig represents security configuration
type SecurityConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AppConfig represents application metadata
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required"`
	Debug       bool   `mapstructure:"debug"`
}

// Capture source types
const (
	SourceSerial = "serial"
	SourceTCP    = "tcp"
	SourceUSB    = "usb"
)

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from path, or from config.yaml in the usual
// locations when path is empty. A missing default file is not an error
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/escpos-service")
	}

	// Environment variable support
	v.SetEnvPrefix("ESCPOS_SERVICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8085")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.max_request_size", 8<<20)
	v.SetDefault("server.tls.enabled", false)

	// Database defaults
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.dbname", "escpos_service")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.max_lifetime", "5m")
	v.SetDefault("database.migrations_path", "file://migrations")
	v.SetDefault("database.auto_migrate", true)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)

	// Decoder defaults
	v.SetDefault("decoder.default_table", "escpos")
	v.SetDefault("decoder.max_payload_bytes", 4<<20)
	v.SetDefault("decoder.store_raw", true)
	v.SetDefault("decoder.compress_raw", true)
	v.SetDefault("decoder.job_retention", "168h")
	v.SetDefault("decoder.cleanup_interval", "1h")

	// Capture defaults
	v.SetDefault("capture.enabled", false)
	v.SetDefault("capture.idle_gap", "500ms")
	v.SetDefault("capture.max_job_size", 1<<20)

	// MQTT defaults
	v.SetDefault("mqtt.enabled", false)
	v.SetDefault("mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("mqtt.client_id", "escpos-service")
	v.SetDefault("mqtt.topic", "escpos/jobs")
	v.SetDefault("mqtt.qos", 1)
	v.SetDefault("mqtt.connect_timeout", "10s")

	// Security defaults
	v.SetDefault("security.allowed_origins", []string{"*"})

	// App defaults
	v.SetDefault("app.name", "escpos-service")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.debug", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Host == "" {
		return fmt.Errorf("server.host is required")
	}
	if config.Server.Port == "" {
		return fmt.Errorf("server.port is required")
	}
	if config.Database.Enabled && config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Decoder.DefaultTable == "" {
		return fmt.Errorf("decoder.default_table is required")
	}
	if config.Decoder.MaxPayloadBytes <= 0 {
		return fmt.Errorf("decoder.max_payload_bytes must be positive")
	}

	// Validate environment
	validEnvs := []string{"development", "staging", "production", "test"}
	if !slices.Contains(validEnvs, config.App.Environment) {
		return fmt.Errorf("app.environment must be one of: %v", validEnvs)
	}

	// Validate logging level
	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	if !slices.Contains(validLevels, config.Logging.Level) {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	if config.Capture.Enabled {
		if config.Capture.IdleGap <= 0 {
			return fmt.Errorf("capture.idle_gap must be positive")
		}
		for i, src := range config.Capture.Sources {
			if src.Name == "" {
				return fmt.Errorf("capture.sources[%d].name is required", i)
			}
			switch src.Type {
			case SourceSerial:
				if src.Serial.Port == "" {
					return fmt.Errorf("capture.sources[%d].serial.port is required", i)
				}
			case SourceTCP:
				if src.TCP.Listen == "" {
					return fmt.Errorf("capture.sources[%d].tcp.listen is required", i)
				}
			case SourceUSB:
				if src.USB.VendorID == 0 {
					return fmt.Errorf("capture.sources[%d].usb.vendor_id is required", i)
				}
			default:
				return fmt.Errorf("capture.sources[%d].type %q is not one of serial, tcp, usb", i, src.Type)
			}
		}
	}

	if config.MQTT.Enabled && config.MQTT.Broker == "" {
		return fmt.Errorf("mqtt.broker is required")
	}

	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return c.Database.DSN()
}

// DSN returns the lib/pq connection string
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// GetServerAddr returns the server address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsProduction checks if the environment is production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// IsDevelopment checks if the environment is development
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsDebugEnabled checks if debug mode is enabled
func (c *Config) IsDebugEnabled() bool {
	return c.App.Debug || c.IsDevelopment()
}
