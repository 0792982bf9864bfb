package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagescope/pkg/browser"
	"pagescope/pkg/channels"
	_ "pagescope/pkg/channels/mcp" // register the mcp channel factory
	_ "pagescope/pkg/channels/web" // register the web channel factory
	"pagescope/pkg/config"
	"pagescope/pkg/gateway"
	"pagescope/pkg/monitor"
	"pagescope/pkg/store"
	"pagescope/pkg/tools"
)

func main() {
	// --- 0. Load configuration ---
	cfg, sysCfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v\n", err)
	}

	monitor.SetupSlog(sysCfg.LogLevel)
	monitor.PrintBanner()

	// --- 1. Launch the controlled browser ---
	session, err := browser.NewFromConfig(cfg.Browser, time.Duration(sysCfg.NavigateTimeoutMs)*time.Millisecond)
	if err != nil {
		log.Fatalf("❌ Failed to launch browser: %v\n", err)
	}
	defer session.Close()

	// --- 2. Artifact store for spilled screenshots ---
	artifacts := store.New(sysCfg.ArtifactDir)

	// --- 3. Gateway assembly (builder pattern) ---
	gw, err := gateway.NewGatewayBuilder().
		WithSystemConfig(sysCfg).
		WithMonitor(monitor.NewCLIMonitor()).
		WithTools(
			tools.NewScreenshotTool(session, artifacts),
			tools.NewSnapshotTool(session),
			tools.NewNavigateTool(session),
			tools.NewPagesTool(session),
			tools.NewSelectPageTool(session),
		).
		WithChannelLoader(func(g *gateway.GatewayManager) {
			channels.LoadFromConfig(g, cfg.Channels, sysCfg)
		}).
		Build()

	if err != nil {
		log.Fatalf("Failed to build gateway: %v\n", err)
	}

	// --- 4. Watch system.json so log level changes apply without a restart ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	config.Watch(ctx, func(file string) {
		reloaded := config.LoadSystemConfig(file)
		monitor.SetupSlog(reloaded.LogLevel)
	}, "system.json")

	// Wait for a shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("\nReceived shutdown signal. Stopping services...")

	gw.StopAll()
	log.Println("Bye!")
}
