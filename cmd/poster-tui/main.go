package main

import (
	"context"
	"flag"
	"log"
	"os"

	"poster_app_go/config"
	"poster_app_go/db"
	"poster_app_go/models"
	"poster_app_go/services"
	"poster_app_go/services/i18n"
	"poster_app_go/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	sessionID := flag.String("session", "terminal", "session to restore and save the form under")
	lang := flag.String("lang", "", "display language (ja, en)")
	outDir := flag.String("out", ".", "directory exported PDFs are written to")
	logFile := flag.String("log", "poster-tui.log", "diagnostic log file")
	flag.Parse()

	// The terminal belongs to the UI, so diagnostics go to a file
	f, err := tea.LogToFile(*logFile, "poster-tui")
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()

	cfg := config.Load()

	if err := i18n.Load(); err != nil {
		log.Fatalf("Failed to load translations: %v", err)
	}

	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()
	if err := db.AutoMigrate(&models.SessionItem{}, &models.ErrorLogEntry{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	errorLog := services.NewErrorLogSink(services.NewGormErrorLogRepository(db.DB, cfg.ErrorLogCapacity), cfg.ErrorLogCapacity)
	studio := services.NewPosterStudio(services.StudioOptions{
		Store:     services.NewGormKeyValueStore(db.DB, cfg.SessionTTL),
		Generator: services.NewGenerationClient(cfg.GenerationEndpoint, cfg.GenerationTimeout, errorLog),
		Exporter:  services.NewPDFDocumentExporter(services.NewImageLoader(nil, services.NewChromeRenderer(cfg.ChromePath)), cfg.PDFFontPath),
		Storage:   services.NewLocalStorage(cfg.UploadDir),
		ErrorLog:  errorLog,
	})

	model, err := tui.NewModel(services.WithClientEnvironment(ctx, services.ClientEnvironment{Adapter: "terminal", Language: *lang}), studio, tui.Options{
		SessionID: *sessionID,
		Lang:      *lang,
		OutDir:    *outDir,
	})
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}

	if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}
