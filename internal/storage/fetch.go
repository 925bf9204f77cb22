package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-resty/resty/v2"
)

// MaxVideoBytes bounds how much the ingester will pull from a remote URL.
const MaxVideoBytes = 512 << 20 // 512 MiB

var fetchClient = resty.New().
	SetTimeout(5 * time.Minute).
	SetDoNotParseResponse(true)

// FetchRemote downloads a rendered video from the workflow engine's URL.
// Reads at most MaxVideoBytes and fails on anything larger.
func FetchRemote(ctx context.Context, videoURL string) ([]byte, error) {
	resp, err := fetchClient.R().
		SetContext(ctx).
		Get(videoURL)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return nil, fmt.Errorf("fetch video: upstream status %d", resp.StatusCode())
	}

	data, err := io.ReadAll(io.LimitReader(body, MaxVideoBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read video body: %w", err)
	}
	if len(data) > MaxVideoBytes {
		return nil, fmt.Errorf("video exceeds %d byte limit", MaxVideoBytes)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("fetch video: empty body")
	}
	return data, nil
}

// RemoteFetcher makes FetchRemote injectable where a dependency is wanted.
type RemoteFetcher struct{}

func (RemoteFetcher) FetchRemote(ctx context.Context, videoURL string) ([]byte, error) {
	return FetchRemote(ctx, videoURL)
}
