package main

import (
	"fmt"
	"time"

	"github.com/agilsa/GorbyJump/internal/client"
	"github.com/agilsa/GorbyJump/internal/client/storage"
	"github.com/agilsa/GorbyJump/internal/config"
	"github.com/agilsa/GorbyJump/internal/tasks"
)

// cliApp wires the client core the way the browser page would: one
// configured API client, durable local storage, the orchestrator, and
// the connectivity monitor.
type cliApp struct {
	cfg          config.Config
	api          *client.Client
	store        *storage.FileStore
	orchestrator *tasks.Orchestrator
	monitor      *tasks.Monitor
}

func newCLIApp() (*cliApp, error) {
	cfg := config.Load()

	store, err := storage.NewFileStore(cfg.StateDir)
	if err != nil {
		return nil, err
	}

	defs, err := tasks.LoadTasks(cfg.TasksFile)
	if err != nil {
		return nil, err
	}

	api := client.New(cfg.APIBaseURL, cfg.APITimeout)
	if data, ok, err := store.Get(storage.KeySession); err == nil && ok {
		api.SetSession(string(data))
	}

	monitor := tasks.NewMonitor(api, 30*time.Second)

	orchestrator := tasks.NewOrchestrator(api, store, defs,
		tasks.WithConnectivityGate(monitor.Connected),
		tasks.WithNavigator(func(url string) {
			fmt.Println("Open this URL in your browser to link Twitter:")
			fmt.Println("  " + url)
		}),
		tasks.WithOpener(func(url string) {
			fmt.Println("Complete the action at:")
			fmt.Println("  " + url)
		}),
	)
	orchestrator.Restore()

	return &cliApp{
		cfg:          cfg,
		api:          api,
		store:        store,
		orchestrator: orchestrator,
		monitor:      monitor,
	}, nil
}

func (a *cliApp) close() {
	a.orchestrator.Close()
	a.monitor.Close()
}
