package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"streamshelf/api"
	"streamshelf/config"
	"streamshelf/handlers"
	"streamshelf/services/catalog"
	"streamshelf/services/providers"
	"streamshelf/services/scheduler"
	"streamshelf/services/search"
	"streamshelf/services/wizard"
	"streamshelf/utils"
)

func main() {
	configPath := flag.String("config", "./data/settings.json", "path to the settings file")
	logToFile := flag.Bool("log-to-file", false, "also write logs to a rotated file under the data dir")
	flag.Parse()

	mgr := config.NewManager(*configPath)
	cfg, err := mgr.Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}

	if *logToFile {
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.DataDir, "logs", "streamshelf.log"),
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stderr, rotated))
	}

	if cfg.Providers.OMDBAPIKey == "" {
		log.Println("warning: OMDB_API_KEY not set, metadata lookups will return nothing")
	}
	if cfg.Providers.WatchmodeAPIKey == "" {
		log.Println("warning: WATCHMODE_API_KEY not set, availability lookups will return nothing")
	}

	omdb := providers.NewOMDBClient(cfg.Providers.OMDBAPIKey)
	watchmode := providers.NewWatchmodeClient(cfg.Providers.WatchmodeAPIKey)

	catalogSvc := catalog.NewService(afero.NewOsFs(), cfg.DataDir, watchmode)
	searchSvc := search.NewService(omdb, watchmode, cfg.Region)
	wizardSvc := wizard.NewService(searchSvc, wizard.DefaultSessionTTL)

	sched := scheduler.NewService(catalogSvc, scheduler.DefaultRefreshInterval)
	if cfg.Providers.WatchmodeAPIKey != "" {
		sched.Start(context.Background())
	}

	router := utils.NewRouter()
	router.Use(api.LoggingMiddleware())

	// The proxy routes sit in front of quota-limited upstream keys
	limiter := api.NewClientRateLimiter(rate.Every(time.Second), 10)
	router.Use(api.RateLimitMiddleware(limiter))

	handlers.NewSearchHandler(omdb, watchmode, searchSvc).RegisterRoutes(router)
	handlers.NewCatalogHandler(catalogSvc, cfg.Region).RegisterRoutes(router)
	handlers.NewWizardHandler(wizardSvc).RegisterRoutes(router)
	handlers.NewStatusHandler(sched, cfg.Region).RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("streamshelf listening on %s (region %s)", cfg.Server.Addr(), cfg.Region)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	sched.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
