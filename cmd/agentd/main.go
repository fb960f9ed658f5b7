package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verdantgames/arbor/internal/core/agent"
	"github.com/verdantgames/arbor/internal/core/bt"
	"github.com/verdantgames/arbor/internal/core/events/bus"
	"github.com/verdantgames/arbor/internal/core/observability/log"
	"github.com/verdantgames/arbor/internal/server"
)

func main() {
	var (
		configDir = flag.String("configs", "configs", "directory of agent YAML configs")
		addr      = flag.String("addr", ":8077", "debug server listen address")
		tickRate  = flag.Duration("tick", 100*time.Millisecond, "simulation tick interval")
	)
	flag.Parse()

	logger := log.New(log.LevelInfo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changeBus := bus.New()
	builder := bt.NewBuilder(logger)
	manager := agent.NewManager(logger)

	if err := loadAgents(*configDir, manager, builder, changeBus); err != nil {
		logger.Error("failed to load agents", log.Error(err))
		os.Exit(1)
	}
	logger.Info("agents loaded", log.Int("count", manager.Count()))

	srv := server.New(*addr, manager, *tickRate, logger)
	go func() {
		if err := srv.Start(ctx); err != nil {
			logger.Error("debug server failed", log.Error(err))
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	go run(ctx, manager, *tickRate, logger)

	<-stopCh
	cancel()
	manager.StopAll()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Error("debug server shutdown failed", log.Error(err))
	}
}

// run drives the fixed-step simulation loop until the context ends
func run(ctx context.Context, manager *agent.Manager, tickRate time.Duration, logger log.Log) {
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := manager.UpdateAll(ctx, dt); err != nil {
				logger.Warn("agent update interrupted", log.Error(err))
			}
		}
	}
}

// loadAgents reads every *.yaml/*.yml in dir as one agent config
func loadAgents(dir string, manager *agent.Manager, builder *bt.Builder, changeBus *bus.Bus) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		var cfg agent.Config
		if err = yaml.Unmarshal(data, &cfg); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if _, err = manager.Create(&cfg, builder, agent.WithBus(changeBus)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
