// Command tb-provision demonstrates the device provisioning handshake.
//
// It builds a provisioning request from a YAML configuration file and either
// prints the request document (dry-run) or runs the complete handshake
// against an in-process stub server, storing the issued credentials.
//
// Usage:
//
//	tb-provision -config device.yaml [flags]
//
// Flags:
//
//	-config string      Configuration file path (required)
//	-dry-run            Print the request document and exit
//	-log-level string   Log level: debug, info, warn, error (default "info")
//	-version            Print the SDK version and exit
//
// Example configuration:
//
//	device_name: sensor-17
//	provision_key: k3y
//	provision_secret: s3cr3t
//	strategy: none
//	credentials_file: ./credentials.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/mwesenjak/thingsboard-client-sdk/pkg/log"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/persistence"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/provision"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/transport"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/version"
	"github.com/mwesenjak/thingsboard-client-sdk/pkg/wire"
)

func main() {
	configPath := flag.String("config", "", "Configuration file path")
	dryRun := flag.Bool("dry-run", false, "Print the request document and exit")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	showVersion := flag.Bool("version", false, "Print the SDK version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Current)
		return
	}

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "tb-provision: -config is required")
		flag.Usage()
		os.Exit(2)
	}

	logger := newLogger(*logLevel)

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	if *dryRun {
		if err := printRequest(cfg); err != nil {
			logger.Error("failed to build request", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("provisioning failed", "error", err)
		os.Exit(1)
	}
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}

func printRequest(cfg *Config) error {
	req, err := cfg.Request()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// run performs a complete handshake against an in-process stub server that
// accepts the configured key/secret and issues a token.
func run(cfg *Config, logger *slog.Logger) error {
	events := newEvents(cfg, logger)

	broker := transport.NewLoopback()
	dispatcher := transport.NewDispatcherWithConfig(transport.DispatcherConfig{
		Logger: logger,
		Events: events,
	})
	broker.Bind(dispatcher)

	// Stub server: accept the configured pair, issue a token.
	broker.OnPublish(func(topic string, payload []byte) {
		if topic != wire.ProvisionRequestTopic {
			return
		}
		resp := []byte(`{"credentialsType":"ACCESS_TOKEN","credentialsValue":"demo-token","status":"SUCCESS"}`)
		_ = broker.Deliver(wire.ProvisionResponseTopic, resp)
	})

	handler := provision.NewHandlerWithConfig(broker, provision.HandlerConfig{
		Logger: logger,
		Events: events,
	})
	if err := dispatcher.Register(handler); err != nil {
		return err
	}

	done := make(chan error, 1)
	cb, err := cfg.Callback(func(resp *wire.ProvisionResponse) {
		if !resp.IsSuccess() {
			done <- fmt.Errorf("server rejected request: %s", resp.ErrorMsg)
			return
		}
		logger.Info("credentials issued",
			"credentials_type", resp.CredentialsType)

		if cfg.CredentialsFile != "" {
			creds, err := persistence.CredentialsFromResponse(cfg.DeviceName, resp)
			if err != nil {
				done <- err
				return
			}
			store := persistence.NewCredentialsStore(cfg.CredentialsFile)
			if err := store.Save(creds); err != nil {
				done <- err
				return
			}
			logger.Info("credentials stored", "path", cfg.CredentialsFile)
		}
		done <- nil
	})
	if err != nil {
		return err
	}

	if err := handler.RequestStart(cb); err != nil {
		return err
	}

	// The loopback server answers in-line, so the response has already been
	// dispatched by the time RequestStart returns.
	return <-done
}

func newEvents(cfg *Config, logger *slog.Logger) log.Logger {
	if cfg.EventsFile == "" {
		return log.NewSlogAdapter(logger)
	}

	fileLogger, err := log.NewFileLogger(cfg.EventsFile)
	if err != nil {
		logger.Warn("failed to open events file, logging to console only",
			"path", cfg.EventsFile, "error", err)
		return log.NewSlogAdapter(logger)
	}
	return log.NewMultiLogger(log.NewSlogAdapter(logger), fileLogger)
}
