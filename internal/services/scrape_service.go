package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/maker5587/chatbot/internal/core"
	"github.com/maker5587/chatbot/internal/core/scraper"
	"github.com/maker5587/chatbot/internal/models"
)

// ScrapeService mirrors the blog listing into the store. Fetching and
// persisting run as two errgroup stages over a channel; pages are walked
// in order so sequence numbers stay stable.
type ScrapeService struct {
	source core.BlogSource
	store  core.BlogStore
	mirror core.ImageMirror // nil disables thumbnail mirroring
	delay  time.Duration
}

func NewScrapeService(source core.BlogSource, store core.BlogStore, mirror core.ImageMirror, delay time.Duration) *ScrapeService {
	return &ScrapeService{source: source, store: store, mirror: mirror, delay: delay}
}

// ScrapeStats summarizes one mirror pass.
type ScrapeStats struct {
	Pages      int
	Inserted   int
	Duplicates int
	Failed     int
}

// Run walks every listing page and upserts its posts. Duplicate links are
// counted, not treated as failures, so re-runs are cheap no-ops.
func (s *ScrapeService) Run(ctx context.Context) (ScrapeStats, error) {
	var stats ScrapeStats

	total, err := s.source.TotalPages(ctx)
	if err != nil {
		return stats, fmt.Errorf("total pages: %w", err)
	}
	stats.Pages = total

	g, gctx := errgroup.WithContext(ctx)
	posts := make(chan models.BlogPost, 16)

	g.Go(func() error {
		defer close(posts)
		for page := 1; page <= total; page++ {
			records, err := s.source.Page(gctx, page)
			if err != nil {
				return fmt.Errorf("fetch page %d: %w", page, err)
			}
			for _, rec := range records {
				select {
				case posts <- rec:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	g.Go(func() error {
		for post := range posts {
			s.storeOne(gctx, post, &stats)

			// politeness delay towards the blog host
			if s.delay > 0 {
				select {
				case <-time.After(s.delay):
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		}
		return nil
	})

	err = g.Wait()
	return stats, err
}

func (s *ScrapeService) storeOne(ctx context.Context, post models.BlogPost, stats *ScrapeStats) {
	if s.mirror != nil && post.Image != scraper.NoImage {
		if url, err := s.mirror.Mirror(ctx, post.Image); err != nil {
			log.Printf("ScrapeService: mirror thumbnail for post %d: %v", post.Num, err)
		} else {
			post.Image = url
		}
	}

	inserted, err := s.store.InsertPost(ctx, &post)
	switch {
	case err != nil:
		log.Printf("ScrapeService: insert post %d: %v", post.Num, err)
		stats.Failed++
	case !inserted:
		log.Printf("ScrapeService: duplicate post %d, skipping", post.Num)
		stats.Duplicates++
	default:
		log.Printf("ScrapeService: inserted post %d", post.Num)
		stats.Inserted++
	}
}
