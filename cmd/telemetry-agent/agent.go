package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/airgradienthq/cellmodem/modem"
)

// Agent is the thin upper-layer glue around a modem.Driver: register onto
// the network once, then loop polling a backend config endpoint and
// publishing modem health telemetry over HTTP POST and MQTT.
type Agent struct {
	driver *modem.Driver
	logger *slog.Logger
	cfg    *Config
}

// NewAgent wires cfg onto an already-initialized driver.
func NewAgent(driver *modem.Driver, cfg *Config, logger *slog.Logger) *Agent {
	return &Agent{driver: driver, cfg: cfg, logger: logger.With("component", "agent")}
}

// telemetrySample is the payload posted/published each poll cycle.
type telemetrySample struct {
	RSSI      int    `json:"rssi"`
	IPAddress string `json:"ip_address"`
	Timestamp string `json:"timestamp"`
}

// Register blocks until the modem reaches NETWORK_REGISTERED or
// overallTimeout elapses.
func (a *Agent) Register(ctx context.Context, radio modem.RadioTech, overallTimeout time.Duration) error {
	result := a.driver.StartNetworkRegistration(ctx, radio, a.cfg.APN, overallTimeout)
	if result.Status != modem.Ok {
		return errNetworkRegistration(result.Status)
	}
	a.logger.Info("network registered", "ip", result.Data)
	return nil
}

// ConnectMQTT opens the modem's MQTT context once, for the lifetime of the
// agent's run loop.
func (a *Agent) ConnectMQTT(ctx context.Context) error {
	if a.cfg.MQTTHost == "" {
		return nil
	}
	status := a.driver.MQTTConnect(ctx, a.cfg.MQTTClientID, a.cfg.MQTTHost, a.cfg.MQTTPort, a.cfg.MQTTUsername, a.cfg.MQTTPassword)
	if status != modem.Ok {
		return errMQTTConnect(status)
	}
	return nil
}

// Run polls the backend config endpoint and publishes a telemetry sample
// every cfg.PollInterval, until ctx is cancelled.
func (a *Agent) Run(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()

	a.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.tick(ctx)
		}
	}
}

func (a *Agent) tick(ctx context.Context) {
	if a.cfg.ConfigURL != "" {
		a.pollConfig(ctx)
	}
	a.publishTelemetry(ctx)
}

func (a *Agent) pollConfig(ctx context.Context) {
	result := a.driver.HTTPGet(ctx, a.cfg.ConfigURL, -1, -1)
	if result.Status != modem.Ok {
		a.logger.Warn("config poll failed", "status", result.Status)
		return
	}
	a.logger.Debug("config poll", "status_code", result.Data.StatusCode, "body_len", len(result.Data.Body))
}

func (a *Agent) publishTelemetry(ctx context.Context) {
	signal := a.driver.RetrieveSignal(ctx)
	ip := a.driver.RetrieveIPAddr(ctx)

	sample := telemetrySample{
		RSSI:      signal.Data,
		IPAddress: ip.Data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	payload, err := json.Marshal(sample)
	if err != nil {
		a.logger.Error("marshal telemetry sample failed", "err", err)
		return
	}

	if a.cfg.TelemetryURL != "" {
		result := a.driver.HTTPPost(ctx, a.cfg.TelemetryURL, payload, "application/json", -1, -1)
		if result.Status != modem.Ok {
			a.logger.Warn("telemetry POST failed", "status", result.Status)
		}
	}

	if a.cfg.MQTTHost != "" {
		status := a.driver.MQTTPublish(ctx, a.cfg.MQTTTopic, payload, 1, 0, 10*time.Second)
		if status != modem.Ok {
			a.logger.Warn("telemetry MQTT publish failed", "status", status)
		}
	}
}
