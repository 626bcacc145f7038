package main

import (
	"embed"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/klabast/wb-services/study-diary/internal/app"
	"github.com/klabast/wb-services/study-diary/internal/auth"
	"github.com/klabast/wb-services/study-diary/internal/commands"
	"github.com/klabast/wb-services/study-diary/internal/diary"
	"github.com/klabast/wb-services/study-diary/internal/store"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

func main() {
	cfg := app.LoadConfig()
	logger := app.NewLogger(app.LoggerConfig{Output: os.Stderr})

	// Check for subcommands
	if len(os.Args) > 1 {
		var err error
		switch os.Args[1] {
		case "show":
			err = commands.Show(os.Args[2:], cfg, os.Stdout, logger)
		case "export":
			err = commands.Export(os.Args[2:], cfg, os.Stdout, logger)
		case "serve":
			serve(os.Args[2:], cfg, logger)
			return
		default:
			serve(os.Args[1:], cfg, logger)
			return
		}
		if err != nil {
			if errors.Is(err, flag.ErrHelp) {
				return
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	serve(nil, cfg, logger)
}

func serve(args []string, cfg *app.Config, logger *log.Logger) {
	// Parse flags
	flags := flag.NewFlagSet("serve", flag.ExitOnError)
	flags.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	flags.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Store driver: file, sqlite or memory")
	flags.StringVar(&cfg.DataPath, "data", cfg.DataPath, "Data directory (file) or database file (sqlite)")
	flags.Parse(args)

	s, err := store.Open(cfg.StoreDriver, cfg.DataPath)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close(s)

	sessions, err := auth.NewSessions(cfg.SessionSecret, cfg.SessionLifetime)
	if err != nil {
		log.Fatalf("Failed to set up sessions: %v", err)
	}
	if cfg.SessionSecret == "" {
		logger.Printf("⚠️  SESSION_SECRET not set, sessions end on restart")
	}

	server, err := app.NewServer(cfg, diary.Open(s, logger), app.NewGateway(cfg, logger), sessions, logger)
	if err != nil {
		log.Fatalf("Failed to initialize login: %v", err)
	}

	// Make embedded files available to the server
	server.IndexHTML = indexHTML
	server.StaticFiles = staticFiles

	logger.Printf("Starting study diary on http://localhost:%d", cfg.Port)
	logger.Printf("Store: %s (%s)", cfg.StoreDriver, cfg.DataPath)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", cfg.Port), server.Routes()); err != nil {
		log.Fatal(err)
	}
}
