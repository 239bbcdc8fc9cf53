package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maker5587/chatbot/internal/config"
	"github.com/maker5587/chatbot/internal/core"
	"github.com/maker5587/chatbot/internal/core/blogstore"
	objectclient "github.com/maker5587/chatbot/internal/core/object-client"
	"github.com/maker5587/chatbot/internal/core/scraper"
	"github.com/maker5587/chatbot/internal/services"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
		<-c
		cancel()
	}()

	cfg := config.LoadConfig()

	store, err := blogstore.New(ctx, blogstore.Options{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDB,
	})
	if err != nil {
		log.Fatalf("startup failed: %v", err)
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		_ = store.Close(closeCtx)
	}()
	log.Println("Blog store connected; link index ensured.")

	// Thumbnail mirroring is optional; without credentials the original
	// image URLs are stored as-is.
	var mirror core.ImageMirror
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" && cfg.BucketName != "" {
		s3Mirror, err := objectclient.NewS3Mirror(ctx, cfg)
		if err != nil {
			log.Fatalf("startup failed: %v", err)
		}
		mirror = s3Mirror
	}

	source := scraper.NewClient(cfg.BlogBaseURL, cfg.PostsPerPage)
	svc := services.NewScrapeService(source, store, mirror, cfg.ScrapeDelay)

	runOnce := func() {
		stats, err := svc.Run(ctx)
		if err != nil {
			log.Printf("scrape failed: %v", err)
		}
		log.Printf("scrape done: %d pages, %d inserted, %d duplicates, %d failed",
			stats.Pages, stats.Inserted, stats.Duplicates, stats.Failed)
	}

	runOnce()
	if cfg.ScrapeInterval <= 0 {
		return
	}

	ticker := time.NewTicker(cfg.ScrapeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Println("shutting down...")
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
