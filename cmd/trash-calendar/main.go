package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/klabast/wb-services/trash-calendar/internal/app"
	"github.com/klabast/wb-services/trash-calendar/internal/commands"
	"github.com/klabast/wb-services/trash-calendar/internal/holidays"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

func main() {
	// Check for subcommands
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "hash-password":
			commands.HashPassword(os.Args[2:])
			return
		case "show":
			commands.Show(os.Args[2:])
			return
		}
	}

	cfg := app.DefaultConfig()
	flag.IntVar(&cfg.Port, "port", cfg.Port, "Port to listen on")
	flag.BoolVar(&cfg.EditMode, "edit", false, "Enable edit mode (default is serve mode)")
	flag.StringVar(&cfg.DataDir, "data", cfg.DataDir, "Directory holding street-schedule.csv and holidays.json")
	flag.StringVar(&cfg.HolidayFile, "holidays", cfg.HolidayFile, "Holiday overrides file inside the data directory")
	logFile := flag.String("log-file", "", "Also write logs to this file (rotated)")
	flag.Parse()

	if *logFile != "" {
		rotator := &lumberjack.Logger{
			Filename:   *logFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		defer rotator.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, rotator))
	}

	// Load and validate auth credentials (if edit mode)
	var auth *app.Auth
	if cfg.EditMode {
		path, err := app.AuthFilePath()
		if err != nil {
			log.Fatalf("Failed to locate auth file: %v", err)
		}
		if auth, err = app.LoadAuthCredentials(path); err != nil {
			log.Fatalf("Failed to load auth credentials: %v", err)
		}
	}

	osFs := afero.NewOsFs()

	// Load the street schedule (with tmp check in edit mode)
	streets := app.NewStreetStore(osFs, cfg.StreetPath())
	var loadErr error
	if cfg.EditMode {
		loadErr = streets.LoadWithTmpCheck()
	} else {
		loadErr = streets.Load()
	}
	if loadErr != nil {
		log.Fatalf("Failed to load street schedule: %v", loadErr)
	}

	provider, err := holidays.Open(osFs, cfg.HolidayPath())
	if err != nil {
		log.Fatalf("Failed to load holidays: %v", err)
	}
	thisYear := time.Now().In(cfg.Location()).Year()
	if err := provider.Warm(thisYear, thisYear+1); err != nil {
		log.Fatalf("Failed to build holiday tables: %v", err)
	}

	server := app.NewServer(cfg, streets, provider, auth, app.Assets{IndexHTML: indexHTML, Static: staticFiles})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting trash calendar in %s mode on http://localhost:%d", cfg.Mode(), cfg.Port)
		log.Printf("Data directory: %s", cfg.DataDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down the server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
