package pipeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/mberjans/iffc-chatbot-jules/internal/model"
	"github.com/mberjans/iffc-chatbot-jules/internal/util"
)

// efetchURL is the NCBI E-utilities endpoint for full-record retrieval.
const efetchURL = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils/efetch.fcgi"

// Downloader retrieves PubMed article XML from NCBI. It is polite by
// default: per-host rate limiting and a robots.txt check before every fetch.
type Downloader struct {
	client    *http.Client
	userAgent string
	maxBytes  int64
	baseURL   string
	limiter   *util.HostLimiter
	robots    *util.RobotsChecker // nil when robots checking is disabled
}

// NewDownloader creates a downloader from the HTTP configuration.
func NewDownloader(cfg model.HTTPConfig) *Downloader {
	d := &Downloader{
		baseURL: efetchURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		limiter:   util.NewHostLimiter(cfg.RatePerSecond, cfg.RateBurst),
	}
	if cfg.RespectRobots {
		d.robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}
	return d
}

// FetchPubmed retrieves the full PubMed record for one PMID as XML.
func (d *Downloader) FetchPubmed(ctx context.Context, pmid string) ([]byte, error) {
	if !validPMID(pmid) {
		return nil, fmt.Errorf("invalid PMID %q: must be digits only", pmid)
	}

	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", pmid)
	params.Set("retmode", "xml")
	fetchURL := d.baseURL + "?" + params.Encode()

	body, err := d.fetch(ctx, fetchURL)
	if err != nil {
		return nil, fmt.Errorf("fetch PMID %s: %w", pmid, err)
	}

	// NCBI reports unknown IDs inside a 200 response body.
	if strings.Contains(string(body), "<ERROR>") {
		return nil, fmt.Errorf("fetch PMID %s: NCBI returned an error record", pmid)
	}
	return body, nil
}

// FetchPubmedToFile retrieves one PMID and writes the XML to path.
func (d *Downloader) FetchPubmedToFile(ctx context.Context, pmid, path string) error {
	body, err := d.FetchPubmed(ctx, pmid)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if d.robots != nil {
		allowed, delay, err := d.robots.CanFetch(ctx, rawURL)
		if err == nil && !allowed {
			return nil, fmt.Errorf("disallowed by robots.txt")
		}
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	if err := d.limiter.Wait(ctx, rawURL); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "application/xml,text/xml;q=0.9,*/*;q=0.8")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, d.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return body, nil
}

func validPMID(pmid string) bool {
	if pmid == "" {
		return false
	}
	for _, r := range pmid {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
