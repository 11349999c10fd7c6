package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abhimanyu-1/Shibu-App/internal/dotenv"
	"github.com/abhimanyu-1/Shibu-App/interview"
	"github.com/abhimanyu-1/Shibu-App/observability"
	"github.com/abhimanyu-1/Shibu-App/server"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to config JSON file (optional)")
		addr       = flag.String("addr", "", "Listen address (overrides config)")
		corpus     = flag.String("corpus", "", "Path to slang corpus file (overrides config)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	if err := dotenv.Load(".env"); err != nil {
		log.Fatalf("Failed to load .env: %v", err)
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg := interview.DefaultConfig()
	if *configFile != "" {
		loaded, err := interview.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = *loaded
	}
	if *corpus != "" {
		cfg.RAG.CorpusPath = *corpus
	}

	cfg.LLM.APIKey = os.Getenv("API_KEY")
	cfg.Speech.APIKey = os.Getenv("MURF_API_KEY")
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = os.Getenv("ELEVENLABS_API_KEY")
	}

	orch, err := interview.New(&cfg, interview.WithObserver(observability.NewSlogObserver(logger)))
	if err != nil {
		log.Fatalf("Failed to create orchestrator: %v", err)
	}
	defer orch.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go orch.BuildKnowledge(ctx)

	srvCfg := server.DefaultConfig()
	if *addr != "" {
		srvCfg.Addr = *addr
	}
	httpServer := server.New(orch, logger).HTTPServer(&srvCfg)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srvCfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", "error", err)
		}
	}
}
