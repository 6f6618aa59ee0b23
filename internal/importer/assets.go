package importer

import (
	"context"
	"net/url"
	"path"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"

	"vendure/importer/internal/catalog"
)

// AssetPool downloads product images and pushes them through the remote
// asset upload, with a small bounded worker count per row. Every failure is
// non-fatal: the row simply proceeds without that asset.
type AssetPool struct {
	client     catalog.Client
	httpClient *resty.Client
	workers    int
}

func NewAssetPool(client catalog.Client, workers, timeoutSeconds int) *AssetPool {
	if workers < 1 {
		workers = 1
	}
	return &AssetPool{
		client: client,
		httpClient: resty.New().
			SetTimeout(time.Duration(timeoutSeconds) * time.Second).
			SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"),
		workers: workers,
	}
}

// UploadFromURL fetches one image and uploads it, returning the asset id or
// "" on any failure.
func (p *AssetPool) UploadFromURL(ctx context.Context, rawURL string) string {
	if rawURL == "" {
		return ""
	}

	resp, err := p.httpClient.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		log.Warnf("⚠ Could not download image %s: %v", rawURL, err)
		return ""
	}
	if resp.IsError() {
		log.Warnf("⚠ Could not download image %s (%s)", rawURL, resp.Status())
		return ""
	}

	return p.client.UploadAsset(ctx, resp.Bytes(), guessFilename(rawURL))
}

// UploadAll fetches and uploads a batch of image URLs with bounded
// concurrency, preserving input order in the result. Failed entries come
// back as "".
func (p *AssetPool) UploadAll(ctx context.Context, urls []string) []string {
	ids := make([]string, len(urls))
	if len(urls) == 0 {
		return ids
	}

	wg := &sync.WaitGroup{}
	semaphore := make(chan struct{}, p.workers)

	for i, rawURL := range urls {
		wg.Add(1)

		go func(index int, rawURL string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			ids[index] = p.UploadFromURL(ctx, rawURL)
		}(i, rawURL)
	}

	wg.Wait()
	return ids
}

func guessFilename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "image.jpg"
	}
	if base := path.Base(u.Path); base != "" && base != "." && base != "/" {
		return base
	}
	return "image.jpg"
}
