package main

import (
	"flag"
	"os"
	"strconv"
	"time"
)

// Config holds everything the agent needs to talk to one modem and one
// backend, assembled via LoadConfig's options-function chain.
type Config struct {
	SerialPort string
	BaudRate   int
	LogLevel   string
	APN        string

	ConfigURL    string
	TelemetryURL string
	PollInterval time.Duration

	MQTTHost     string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
	MQTTUsername string
	MQTTPassword string
}

// ConfigOption is a function that modifies a Config.
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order.
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	return config, nil
}

// WithDefaults applies default configuration values.
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.SerialPort = "/dev/ttyUSB0"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.APN = "internet"
		c.PollInterval = 5 * time.Minute
		c.MQTTClientID = "telemetry-agent"
		c.MQTTPort = 1883
		c.MQTTTopic = "telemetry/co2"
		return nil
	}
}

// WithEnv loads configuration from environment variables.
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if v := os.Getenv("SERIAL_PORT"); v != "" {
			c.SerialPort = v
		}
		if v := os.Getenv("BAUD_RATE"); v != "" {
			if b, err := strconv.Atoi(v); err == nil {
				c.BaudRate = b
			}
		}
		if v := os.Getenv("LOG_LEVEL"); v != "" {
			c.LogLevel = v
		}
		if v := os.Getenv("APN"); v != "" {
			c.APN = v
		}
		if v := os.Getenv("CONFIG_URL"); v != "" {
			c.ConfigURL = v
		}
		if v := os.Getenv("TELEMETRY_URL"); v != "" {
			c.TelemetryURL = v
		}
		if v := os.Getenv("POLL_INTERVAL"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				c.PollInterval = d
			}
		}
		if v := os.Getenv("MQTT_HOST"); v != "" {
			c.MQTTHost = v
		}
		if v := os.Getenv("MQTT_PORT"); v != "" {
			if p, err := strconv.Atoi(v); err == nil {
				c.MQTTPort = p
			}
		}
		if v := os.Getenv("MQTT_CLIENT_ID"); v != "" {
			c.MQTTClientID = v
		}
		if v := os.Getenv("MQTT_TOPIC"); v != "" {
			c.MQTTTopic = v
		}
		if v := os.Getenv("MQTT_USERNAME"); v != "" {
			c.MQTTUsername = v
		}
		if v := os.Getenv("MQTT_PASSWORD"); v != "" {
			c.MQTTPassword = v
		}
		return nil
	}
}

// WithFlags loads configuration from command-line flags.
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "apn":
				c.APN = f.Value.String()
			case "config-url":
				c.ConfigURL = f.Value.String()
			case "telemetry-url":
				c.TelemetryURL = f.Value.String()
			case "poll-interval":
				if d, err := time.ParseDuration(f.Value.String()); err == nil {
					c.PollInterval = d
				}
			case "mqtt-host":
				c.MQTTHost = f.Value.String()
			case "mqtt-port":
				if p, err := strconv.Atoi(f.Value.String()); err == nil {
					c.MQTTPort = p
				}
			case "mqtt-client-id":
				c.MQTTClientID = f.Value.String()
			case "mqtt-topic":
				c.MQTTTopic = f.Value.String()
			case "mqtt-username":
				c.MQTTUsername = f.Value.String()
			case "mqtt-password":
				c.MQTTPassword = f.Value.String()
			}
		})
		return nil
	}
}
