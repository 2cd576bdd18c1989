package geom

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// LoadIncidents opens source, a local path or an http(s) URL, and decodes it.
// There is no retry; the caller owns any timeout through ctx.
func LoadIncidents(ctx context.Context, source string) ([]DataPoint, Stats, error) {
	rc, err := open(ctx, source)
	if err != nil {
		return nil, Stats{}, err
	}
	defer rc.Close()
	points, st, err := DecodeIncidents(rc)
	if err != nil {
		return nil, st, fmt.Errorf("load %s: %w", source, err)
	}
	return points, st, nil
}

func isURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

func open(ctx context.Context, source string) (io.ReadCloser, error) {
	if !isURL(source) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open dataset: %w", err)
		}
		return f, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %s", source, resp.Status)
	}
	return resp.Body, nil
}
