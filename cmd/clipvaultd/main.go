/*
MIT License

Copyright (c) 2025 Yuval Adar <adary@adary.org>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adaryorg/clipvault/internal/appinfo"
	"github.com/adaryorg/clipvault/internal/clip"
	"github.com/adaryorg/clipvault/internal/config"
	"github.com/adaryorg/clipvault/internal/engine"
	"github.com/adaryorg/clipvault/internal/logging"
	"github.com/adaryorg/clipvault/internal/pastequeue"
	"github.com/adaryorg/clipvault/internal/persist"
	"github.com/adaryorg/clipvault/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.Init(logging.Options{
		File:       cfg.Logging.File,
		Level:      cfg.Logging.Level,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		MaxBackups: cfg.Logging.MaxBackups,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	dbPath, err := persist.DefaultPath()
	if err != nil {
		logging.Fatal("Failed to resolve database path: %v", err)
	}
	repo, err := persist.OpenSQLite(dbPath)
	if err != nil {
		logging.Fatal("Failed to open history database: %v", err)
	}

	autoClear := time.Duration(0)
	if cfg.AutoClear.Enabled {
		autoClear = time.Duration(cfg.AutoClear.IntervalMinutes) * time.Minute
	}

	eng := engine.New(clip.NewSystem(), repo, engine.Options{
		MaxHistoryItems:   cfg.History.MaxItems,
		MaxPinnedItems:    cfg.History.MaxPinned,
		DedupIndexSize:    cfg.Monitor.DedupIndexSize,
		MinPollInterval:   time.Duration(cfg.Monitor.MinPollMs) * time.Millisecond,
		MaxPollInterval:   time.Duration(cfg.Monitor.MaxPollMs) * time.Millisecond,
		AutoClearInterval: autoClear,
		Resolver:          appinfo.Detect(),
		// The daemon has no paste-command monitor attached, so queue modes
		// stay unavailable here; clients drive the queue through the engine.
		Capability: pastequeue.StaticCapability(false),
		Detector:   security.NewDetector(),
	})
	defer func() {
		if err := eng.Close(); err != nil {
			logging.Error("Shutdown flush failed: %v", err)
		}
	}()

	eng.Start()
	logging.Info("clipvault daemon started (max_items=%d, poll=%d-%dms)",
		cfg.History.MaxItems, cfg.Monitor.MinPollMs, cfg.Monitor.MaxPollMs)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logging.Info("clipvault daemon stopping")
}
