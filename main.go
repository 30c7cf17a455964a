package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fleetnavigator/internal/config"
	"fleetnavigator/internal/events"
	"fleetnavigator/internal/logging"
	"fleetnavigator/internal/remote"
	"fleetnavigator/internal/scheduler"
	"fleetnavigator/internal/services"
	"fleetnavigator/internal/utils"
)

// version is set with -ldflags "-X main.version=..." and wins over the
// configured build version.
var version string

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	if err := utils.LoadEnv(); err != nil {
		fmt.Println("Error loading .env:", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logData, err := logging.New().FromPath(cfg.Log.File).Level(cfg.Log.Level).JSON(cfg.Log.Format == "json").Make()
	if err != nil {
		fmt.Println("Error opening log:", err)
		os.Exit(1)
	}
	if logData.LogFile != nil {
		defer logData.LogFile.Close()
	}
	log := logData.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := remote.New(cfg.Remote.BaseURL, cfg.Remote.Timeout.Duration)
	recorder := &events.Recorder{}
	app := NewApp(cfg, log, rc)
	err = app.startup(ctx, services.ClientOptions{
		Version: versionSource(cfg, version, rc),
		Remote:  rc,
		Sink:    events.Tee(events.LoggerSink(log), recorder.Sink()),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to start settings client")
		os.Exit(1)
	}
	defer app.shutdown(context.Background())

	if cfg.Sync.RefreshCron != "" {
		sched := scheduler.NewScheduler(app.client.Sync, cfg.Sync.RefreshCron, log)
		if err := sched.Start(); err != nil {
			log.Error().Err(err).Str("spec", cfg.Sync.RefreshCron).Msg("invalid refresh schedule")
			return
		}
		<-ctx.Done()
		sched.Stop()
		log.Info().Msg("settings client stopped")
		return
	}

	app.client.Sync.Wait()
	if failed := countFailed(recorder.Events()); failed > 0 {
		log.Warn().Int("failed", failed).Msg("some backend settings could not be synced, local values kept")
	}
	if model, ok := app.SelectedModel(); ok {
		log.Info().Str("model", model).Msg("selected model")
	}
	out, err := json.MarshalIndent(app.Settings(), "", "  ")
	if err != nil {
		log.Error().Err(err).Msg("failed to encode settings")
		return
	}
	fmt.Println(string(out))
}

func countFailed(evts []events.SyncEvent) int {
	n := 0
	for _, evt := range evts {
		if evt.Failed() {
			n++
		}
	}
	return n
}
