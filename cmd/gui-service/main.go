package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/voiceshell/gui-service/internal/bus"
	"github.com/voiceshell/gui-service/internal/config"
	"github.com/voiceshell/gui-service/internal/gui"
	"github.com/voiceshell/gui-service/internal/homescreen"
	"github.com/voiceshell/gui-service/internal/logging"
	"github.com/voiceshell/gui-service/internal/monitoring"
	"github.com/voiceshell/gui-service/internal/namespace"
	"github.com/voiceshell/gui-service/internal/resources"
	"github.com/voiceshell/gui-service/internal/server"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync() //nolint:errcheck

	runtime := config.NewRuntime(cfg.GUI)
	metrics := monitoring.NewMetrics()

	coreBus, err := bus.Connect(cfg.Bus.Host, cfg.Bus.Port, cfg.Bus.Route, log)
	if err != nil {
		log.Fatal("failed to connect to core messagebus", zap.Error(err))
	}
	defer coreBus.Close()

	hub := gui.NewHub(coreBus, log, metrics)

	var store *resources.Store
	serverBase := ""
	if cfg.GUI.FileServer {
		path := cfg.GUI.ServerPath
		if path == "" {
			path = os.TempDir() + "/gui-service-resources"
		}
		store, err = resources.NewStore(path, log)
		if err != nil {
			log.Fatal("failed to create resource store", zap.Error(err))
		}
		if cfg.GUI.SystemResources != "" {
			if err := store.SeedSystem(cfg.GUI.SystemResources); err != nil {
				log.Warn("failed to seed system resources", zap.Error(err))
			}
		}
		serverBase = fmt.Sprintf("http://%s:%d%s",
			cfg.Server.Host, cfg.Server.Port, server.ResourceRoute)
	}

	manager := namespace.NewManager(coreBus, hub, runtime, cfg.Server.Port, log).
		WithMetrics(metrics)
	if store != nil {
		manager = manager.WithStore(store, serverBase)
	}
	hub.SetStateProvider(manager)
	manager.Start()

	homescreen.NewManager(coreBus, runtime, log).Start()

	stop := make(chan struct{})
	defer close(stop)
	if *configPath != "" {
		go func() {
			if err := runtime.Watch(*configPath, log, stop); err != nil {
				log.Warn("config watch unavailable", zap.Error(err))
			}
		}()
	}

	srv := server.New(cfg, hub, manager, store, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", zap.String("signal", sig.String()))
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Error("shutdown error", zap.Error(err))
		}
	case err := <-errCh:
		if err != nil {
			log.Fatal("server error", zap.Error(err))
		}
	}
}
