package testutil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ScrapeMetrics fetches the Prometheus text exposition from url.
func ScrapeMetrics(url string) (string, error) {
	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to scrape metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("metrics endpoint returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read metrics body: %w", err)
	}
	return string(body), nil
}

// HasMetric reports whether the exposition contains a sample of the named
// metric, with or without labels.
func HasMetric(metrics, name string) bool {
	for _, line := range strings.Split(metrics, "\n") {
		if strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, name+" ") || strings.HasPrefix(line, name+"{") {
			return true
		}
	}
	return false
}
