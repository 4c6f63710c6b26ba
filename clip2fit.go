// Package clip2fit assembles the engine core the mobile shell embeds: the
// active workout session engine with on-device persistence, the
// video-to-workout conversion pipeline, and the catalog prefetch cache.
package clip2fit

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/lazarspasic96/clip2fit-sub001/internal/catalog"
	"github.com/lazarspasic96/clip2fit-sub001/internal/config"
	"github.com/lazarspasic96/clip2fit-sub001/internal/conversion"
	"github.com/lazarspasic96/clip2fit-sub001/internal/session"
	"github.com/lazarspasic96/clip2fit-sub001/internal/storage"
)

// App is the wired engine core. Sessions is the sole writer of workout
// state; Catalog is the shared read cache the screens consult before hitting
// the network.
type App struct {
	Sessions *session.Engine
	Catalog  *catalog.Cache

	cfg        *config.Config
	log        *slog.Logger
	kv         *storage.KV
	convClient *conversion.Client
}

// New opens storage and wires every component from config. A persisted
// session, if one survives the staleness rule, is resumed immediately.
func New(cfg *config.Config, log *slog.Logger) (*App, error) {
	kv, err := storage.Open(cfg.Storage.Dir)
	if err != nil {
		return nil, fmt.Errorf("opening engine storage: %w", err)
	}

	// Diagnostics only; never blocks startup.
	if err := storage.RecordTimezoneSync(kv, time.Now()); err != nil {
		log.Warn("timezone sync record failed", "error", err)
	}

	timeout := time.Duration(cfg.API.TimeoutSec) * time.Second
	store := session.NewStore(kv, log)
	engine := session.NewEngine(store, log)

	cache := catalog.NewCache(cfg.Prefetch.CacheSizeMB)
	if cfg.Prefetch.Enabled {
		catClient := catalog.NewClient(cfg.API.BaseURL, cfg.API.Key, timeout)
		prefetcher := catalog.NewPrefetcher(catClient, cache, log)
		engine.Subscribe(prefetcher.OnSessionChange)
	}

	app := &App{
		Sessions:   engine,
		Catalog:    cache,
		cfg:        cfg,
		log:        log,
		kv:         kv,
		convClient: conversion.NewClient(cfg.API.BaseURL, cfg.API.Key, timeout),
	}

	if resumed, ok := engine.Resume(); ok {
		log.Info("restored persisted session", "session_id", resumed.ID)
	}

	return app, nil
}

// NewConversion creates a controller for one conversion attempt. Each
// submitting screen owns its controller and closes it on dismissal.
func (a *App) NewConversion() *conversion.Controller {
	interval := time.Duration(a.cfg.Conversion.PollIntervalMS) * time.Millisecond
	return conversion.NewController(a.convClient, interval, a.log)
}

// NewTicker binds an elapsed-time ticker to a session start timestamp.
func (a *App) NewTicker(startedAtMS int64) *session.Ticker {
	return session.NewTicker(startedAtMS)
}

// Close releases the on-device store.
func (a *App) Close() error {
	return a.kv.Close()
}
