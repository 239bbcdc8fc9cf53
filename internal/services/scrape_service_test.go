package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/maker5587/chatbot/internal/core/scraper"
	"github.com/maker5587/chatbot/internal/models"
)

type fakeSource struct {
	pages    map[int][]models.BlogPost
	totalErr error
	pageErr  error
}

func (f *fakeSource) TotalPages(ctx context.Context) (int, error) {
	if f.totalErr != nil {
		return 0, f.totalErr
	}
	return len(f.pages), nil
}

func (f *fakeSource) Page(ctx context.Context, page int) ([]models.BlogPost, error) {
	if f.pageErr != nil {
		return nil, f.pageErr
	}
	return f.pages[page], nil
}

type fakeBlogStore struct {
	links     map[string]bool
	insertErr error
	inserts   int
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{links: map[string]bool{}}
}

func (f *fakeBlogStore) InsertPost(ctx context.Context, post *models.BlogPost) (bool, error) {
	f.inserts++
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if f.links[post.Link] {
		return false, nil
	}
	f.links[post.Link] = true
	return true, nil
}

func (f *fakeBlogStore) Close(ctx context.Context) error { return nil }

type fakeMirror struct {
	calls int
	err   error
}

func (f *fakeMirror) Mirror(ctx context.Context, imageURL string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.s3.us-east-2.amazonaws.com/thumbnails/x.png", nil
}

func bp(num int, link, image string) models.BlogPost {
	return models.BlogPost{Num: num, Image: image, Title: "t", Description: "d", Link: link}
}

func TestScrapeRunInsertsAllPages(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.BlogPost{
		1: {bp(1, "/1", scraper.NoImage), bp(2, "/2", scraper.NoImage)},
		2: {bp(3, "/3", scraper.NoImage)},
	}}
	store := newFakeBlogStore()

	stats, err := NewScrapeService(source, store, nil, 0).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.Pages)
	require.Equal(t, 3, stats.Inserted)
	require.Zero(t, stats.Duplicates)
	require.Zero(t, stats.Failed)
}

func TestScrapeRunCountsDuplicates(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.BlogPost{
		1: {bp(1, "/1", scraper.NoImage), bp(2, "/1", scraper.NoImage)},
	}}
	store := newFakeBlogStore()

	stats, err := NewScrapeService(source, store, nil, 0).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Inserted)
	require.Equal(t, 1, stats.Duplicates)
	require.Equal(t, 2, store.inserts)
}

func TestScrapeRunStoreErrorCountedNotFatal(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.BlogPost{
		1: {bp(1, "/1", scraper.NoImage)},
	}}
	store := newFakeBlogStore()
	store.insertErr = errors.New("mongo down")

	stats, err := NewScrapeService(source, store, nil, 0).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Failed)
}

func TestScrapeRunTotalPagesErrorIsFatal(t *testing.T) {
	source := &fakeSource{totalErr: errors.New("unreachable")}

	_, err := NewScrapeService(source, newFakeBlogStore(), nil, 0).Run(context.Background())
	require.Error(t, err)
}

func TestScrapeRunMirrorsThumbnails(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.BlogPost{
		1: {bp(1, "/1", "https://cdn.example.com/a.png"), bp(2, "/2", scraper.NoImage)},
	}}
	store := newFakeBlogStore()
	mirror := &fakeMirror{}

	stats, err := NewScrapeService(source, store, mirror, 0).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, stats.Inserted)
	// the sentinel image is never mirrored
	require.Equal(t, 1, mirror.calls)
}

func TestScrapeRunMirrorFailureKeepsOriginalURL(t *testing.T) {
	source := &fakeSource{pages: map[int][]models.BlogPost{
		1: {bp(1, "/1", "https://cdn.example.com/a.png")},
	}}
	store := newFakeBlogStore()
	mirror := &fakeMirror{err: errors.New("s3 down")}

	stats, err := NewScrapeService(source, store, mirror, 0).Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, stats.Inserted)
}
