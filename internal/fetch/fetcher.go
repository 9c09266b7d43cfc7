// Package fetch makes reference files available locally before the catalog
// is loaded, downloading them from Google Drive when they are missing.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"poirec/pkg/logger"
	"poirec/pkg/metrics"
)

const publicDownloadURL = "https://drive.google.com/uc?export=download&id=%s"

// File is one reference file. Files without a DriveID are expected to be
// provisioned by other means.
type File struct {
	Name     string
	DriveID  string
	Required bool
}

type Config struct {
	Dir         string
	APIKey      string
	Timeout     time.Duration
	Retries     int
	Concurrency int
	// BaseURL overrides the public download URL template (must contain %s).
	BaseURL string
}

type Fetcher struct {
	cfg    Config
	client *http.Client
	drive  *drive.Service
}

// New builds a Fetcher. When an API key is configured downloads go through
// the Drive v3 API, otherwise through the public download URL with retries.
func New(ctx context.Context, cfg Config) (*Fetcher, error) {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 3
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = publicDownloadURL
	}

	rc := retryablehttp.NewClient()
	rc.RetryMax = cfg.Retries
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 5 * time.Second
	rc.Logger = nil
	client := rc.StandardClient()
	client.Timeout = cfg.Timeout

	f := &Fetcher{cfg: cfg, client: client}
	if cfg.APIKey != "" {
		// An explicit HTTP client would drop the key, so Drive gets its own.
		svc, err := drive.NewService(ctx, option.WithAPIKey(cfg.APIKey))
		if err != nil {
			return nil, fmt.Errorf("create drive client: %w", err)
		}
		f.drive = svc
	}
	return f, nil
}

// Path returns where name lives locally.
func (f *Fetcher) Path(name string) string {
	return filepath.Join(f.cfg.Dir, name)
}

// EnsureAll downloads every missing file concurrently. Failures on required
// files are returned; failures on optional files are only logged.
func (f *Fetcher) EnsureAll(ctx context.Context, files []File) error {
	if err := os.MkdirAll(f.cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(f.cfg.Concurrency)
	for _, file := range files {
		g.Go(func() error {
			err := f.Ensure(ctx, file)
			if err != nil && !file.Required {
				logger.Warn().Err(err).Str("file", file.Name).Msg("optional reference file unavailable")
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

// Ensure downloads file unless it already exists locally.
func (f *Fetcher) Ensure(ctx context.Context, file File) error {
	dst := f.Path(file.Name)
	if _, err := os.Stat(dst); err == nil {
		metrics.FetchTotal.WithLabelValues(file.Name, "cached").Inc()
		return nil
	}
	if file.DriveID == "" {
		return fmt.Errorf("%s: not present and no drive id configured: %w", file.Name, os.ErrNotExist)
	}

	start := time.Now()
	n, err := f.download(ctx, file.DriveID, dst)
	if err != nil {
		metrics.FetchTotal.WithLabelValues(file.Name, "failed").Inc()
		return fmt.Errorf("download %s: %w", file.Name, err)
	}

	metrics.FetchTotal.WithLabelValues(file.Name, "downloaded").Inc()
	logger.Info().Str("file", file.Name).Int64("bytes", n).Dur("took", time.Since(start)).Msg("reference file downloaded")
	return nil
}

func (f *Fetcher) download(ctx context.Context, id, dst string) (int64, error) {
	body, err := f.open(ctx, id)
	if err != nil {
		return 0, err
	}
	defer body.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), filepath.Base(dst)+".*.part")
	if err != nil {
		return 0, err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, body)
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("empty response body")
	}
	return n, os.Rename(tmp.Name(), dst)
}

func (f *Fetcher) open(ctx context.Context, id string) (io.ReadCloser, error) {
	if f.drive != nil {
		resp, err := f.drive.Files.Get(id).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			return nil, err
		}
		return resp.Body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf(f.cfg.BaseURL, id), nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode/100 != 2 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}
