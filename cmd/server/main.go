package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/history"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/logging"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/server"
	"github.com/WissemHajbi/ServerClientChatRoomUDP/pkg/version"
)

func main() {
	cfg := server.DefaultConfig()

	listen := flag.String("listen", cfg.ListenAddr, "UDP bind address")
	metrics := flag.String("metrics", cfg.MetricsAddr, "HTTP bind address for Prometheus /metrics (empty to disable)")
	historyFile := flag.String("history", cfg.HistoryFile, "Append-only history log file (empty to disable)")
	historyDB := flag.String("db", cfg.HistoryDB, "SQLite history database file (empty to disable)")
	configFile := flag.String("config", "", "YAML config file; explicit flags override it")
	exportConfig := flag.Bool("export-config", false, "Print the effective config as YAML and exit")
	logLevel := flag.String("log-level", cfg.LogLevel, "Log level: "+logging.LevelNames())
	logFormat := flag.String("log-format", cfg.LogFormat, "Log format: text or json")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Full())
		return
	}

	// Defaults, then the config file, then any flag given on the command
	// line. flag.Visit only sees flags the user actually set.
	if *configFile != "" {
		if err := server.LoadConfigFile(*configFile, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.ListenAddr = *listen
		case "metrics":
			cfg.MetricsAddr = *metrics
		case "history":
			cfg.HistoryFile = *historyFile
		case "db":
			cfg.HistoryDB = *historyDB
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})

	// Configure structured logging
	if err := logging.Setup(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: os.Stdout,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "invalid logging config: %v\n", err)
		os.Exit(1)
	}

	if *exportConfig {
		data, err := server.ExportConfigYAML(cfg)
		if err != nil {
			slog.Error("export config", "err", err)
			os.Exit(1)
		}
		fmt.Print(string(data))
		return
	}

	recorder, err := openRecorders(cfg)
	if err != nil {
		slog.Error("open history", "err", err)
		os.Exit(1)
	}

	slog.Info("starting", "version", version.String(), "listen", cfg.ListenAddr)

	srv := server.New(cfg, server.Dependencies{Recorder: recorder})
	if err := srv.Run(); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}

// openRecorders assembles the configured history sinks.
func openRecorders(cfg server.Config) (history.Recorder, error) {
	var sinks history.Multi
	if cfg.HistoryFile != "" {
		f, err := history.OpenFile(cfg.HistoryFile)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, f)
	}
	if cfg.HistoryDB != "" {
		db, err := history.OpenSQLite(cfg.HistoryDB)
		if err != nil {
			_ = sinks.Close()
			return nil, err
		}
		sinks = append(sinks, db)
	}
	if len(sinks) == 0 {
		return history.Nop{}, nil
	}
	return sinks, nil
}
