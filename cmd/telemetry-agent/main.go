package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/airgradienthq/cellmodem/modem"
	"github.com/airgradienthq/cellmodem/serial"
)

func main() {
	flag.String("serial-port", "/dev/ttyUSB0", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("apn", "internet", "APN to register with")
	flag.String("radio-tech", "auto", "Radio technology: auto, 2g, lte")
	flag.String("config-url", "", "Backend URL polled each cycle for remote config")
	flag.String("telemetry-url", "", "Backend URL telemetry samples are POSTed to")
	flag.Duration("poll-interval", 5*time.Minute, "Interval between telemetry cycles")
	flag.String("mqtt-host", "", "MQTT broker host (leave empty to disable MQTT)")
	flag.Int("mqtt-port", 1883, "MQTT broker port")
	flag.String("mqtt-client-id", "telemetry-agent", "MQTT client ID")
	flag.String("mqtt-topic", "telemetry/co2", "MQTT topic telemetry samples are published to")
	flag.String("mqtt-username", "", "MQTT username")
	flag.String("mqtt-password", "", "MQTT password")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	line := serial.New(config.SerialPort)
	if !line.Open(config.BaudRate) {
		logger.Error("failed to open serial port", "port", config.SerialPort)
		os.Exit(1)
	}
	defer line.Close()

	modemCfg, err := modem.NewConfigBuilder().
		WithLine(line).
		WithLogger(logger).
		Build()
	if err != nil {
		logger.Error("failed to build modem config", "error", err)
		os.Exit(1)
	}

	driver, err := modem.New(ctx, modemCfg)
	if err != nil {
		logger.Error("failed to initialize modem", "error", err)
		os.Exit(1)
	}

	agent := NewAgent(driver, config, logger)

	radio := parseRadioTech(flag.Lookup("radio-tech").Value.String())
	if err := agent.Register(ctx, radio, 2*time.Minute); err != nil {
		logger.Error("network registration failed", "error", err)
		os.Exit(1)
	}

	if err := agent.ConnectMQTT(ctx); err != nil {
		logger.Error("mqtt connect failed", "error", err)
		os.Exit(1)
	}

	logger.Info("telemetry agent running", "poll_interval", config.PollInterval)
	agent.Run(ctx)

	if config.MQTTHost != "" {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		driver.MQTTDisconnect(shutdownCtx)
	}
	logger.Info("telemetry agent shut down")
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseRadioTech(s string) modem.RadioTech {
	switch s {
	case "2g":
		return modem.TwoG
	case "lte":
		return modem.Lte
	default:
		return modem.Auto
	}
}
