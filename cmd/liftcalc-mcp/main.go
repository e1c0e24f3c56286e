package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/claude/liftcalc/internal/config"
	"github.com/claude/liftcalc/internal/logbook"
	liftmcp "github.com/claude/liftcalc/internal/mcp"
	"github.com/claude/liftcalc/internal/program"
	"github.com/claude/liftcalc/internal/training"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	configPath := flag.String("config", "", "optional YAML file with a training section")
	dataDir := flag.String("data", "", "logbook directory (default ~/.liftcalc)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftcalc-mcp", Version)
		return
	}

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	tc, err := config.LoadTraining(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	dir := *dataDir
	if dir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		dir = filepath.Join(homeDir, ".liftcalc")
	}

	lb, err := logbook.Open(dir)
	if err != nil {
		log.Error("failed to open logbook", "dir", dir, "error", err)
		os.Exit(1)
	}
	defer lb.Close()

	svc := training.NewService(lb, program.SettingsFromConfig(tc), log)
	log.Info("liftcalc-mcp serving on stdio", "version", Version, "logbook", dir)

	if err := server.ServeStdio(liftmcp.New(svc, Version, log)); err != nil {
		log.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}
