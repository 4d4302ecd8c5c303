package dataset

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const (
	// HFDatasetRepo is the Institutional Books repository on HuggingFace
	HFDatasetRepo = "instdin/institutional-books-1.0"

	// HFBaseURL is the HuggingFace host files are resolved against
	HFBaseURL = "https://huggingface.co"

	// DefaultCacheDir mirrors the Python datasets library cache location
	DefaultCacheDir = "~/.cache/huggingface/datasets"

	// DefaultShard is the first parquet shard of the train split
	DefaultShard = "data/train-00000-of-09831.parquet"
)

// DownloadConfig configures dataset downloading
type DownloadConfig struct {
	CacheDir      string
	ForceDownload bool
	Token         string // HuggingFace token, needed for gated datasets
	BaseURL       string
	Client        *http.Client
}

// Downloader fetches dataset shards from HuggingFace into a local cache
type Downloader struct {
	config DownloadConfig
}

// NewDownloader creates a new dataset downloader
func NewDownloader(config DownloadConfig) *Downloader {
	if config.CacheDir == "" {
		config.CacheDir = DefaultCacheDir
	}
	if strings.HasPrefix(config.CacheDir, "~") {
		if homeDir, err := os.UserHomeDir(); err == nil {
			config.CacheDir = filepath.Join(homeDir, config.CacheDir[1:])
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = HFBaseURL
	}
	if config.Client == nil {
		config.Client = http.DefaultClient
	}
	return &Downloader{config: config}
}

// CachePath returns where a dataset file is (or would be) cached
func (d *Downloader) CachePath(filename string) string {
	return filepath.Join(d.config.CacheDir, HFDatasetRepo, filepath.FromSlash(filename))
}

// Download returns the cached path of filename, fetching it first when it
// is not cached yet or ForceDownload is set.
func (d *Downloader) Download(ctx context.Context, filename string) (string, error) {
	cachedPath := d.CachePath(filename)
	if err := os.MkdirAll(filepath.Dir(cachedPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	if !d.config.ForceDownload {
		if _, err := os.Stat(cachedPath); err == nil {
			slog.Info("Using cached dataset", "path", cachedPath)
			return cachedPath, nil
		}
	}

	url := fmt.Sprintf("%s/datasets/%s/resolve/main/%s", strings.TrimRight(d.config.BaseURL, "/"), HFDatasetRepo, filename)
	slog.Info("Downloading dataset from HuggingFace", "repo", HFDatasetRepo, "file", filename)

	if err := d.downloadFile(ctx, url, cachedPath); err != nil {
		return "", fmt.Errorf("failed to download dataset: %w", err)
	}

	slog.Info("Dataset downloaded", "path", cachedPath)
	return cachedPath, nil
}

func (d *Downloader) downloadFile(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if d.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+d.config.Token)
	}

	resp, err := d.config.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status: %d", resp.StatusCode)
	}

	tempPath := destPath + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("download failed: %w", err)
	}
	slog.Debug("Download complete", "bytes", written)

	if err := os.Rename(tempPath, destPath); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to move file: %w", err)
	}
	return nil
}
