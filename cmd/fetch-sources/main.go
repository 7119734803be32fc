// fetch-sources refreshes the platform catalog snapshot from the
// availability provider. The server refreshes on its own schedule; this
// tool exists for first-run seeding and manual refreshes.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/spf13/afero"

	"streamshelf/config"
	"streamshelf/services/catalog"
	"streamshelf/services/providers"
)

func main() {
	configPath := flag.String("config", "./data/settings.json", "path to the settings file")
	flag.Parse()

	cfg, err := config.NewManager(*configPath).Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	if cfg.Providers.WatchmodeAPIKey == "" {
		log.Fatal("WATCHMODE_API_KEY is not set")
	}

	watchmode := providers.NewWatchmodeClient(cfg.Providers.WatchmodeAPIKey)
	svc := catalog.NewService(afero.NewOsFs(), cfg.DataDir, watchmode)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	var count int
	err = retry.Do(
		func() error {
			var refreshErr error
			count, refreshErr = svc.Refresh(ctx)
			return refreshErr
		},
		retry.Attempts(3),
		retry.Delay(2*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("catalog refresh attempt %d failed: %v", n+1, err)
		}),
	)
	if err != nil {
		log.Fatalf("failed to refresh platform catalog: %v", err)
	}

	log.Printf("saved %d platforms to the catalog snapshot", count)
}
