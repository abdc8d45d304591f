// Package manifest fetches the list of dependencies a project declares from
// the remote dependency service.
package manifest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultURL is the manifest endpoint; {project} is replaced by the
// path-escaped project name.
const DefaultURL = "https://api.steinwurf.com/dependencies/{project}"

const defaultCacheSize = 32

// maxBody caps how much of a response is read.
const maxBody = 1 << 20

var (
	ErrNotFound       = errors.New("manifest not found")
	ErrNoProject      = errors.New("no project name")
	ErrNoDependencies = errors.New("no dependencies object")
)

// Fetcher returns the dependency names declared by project.
type Fetcher interface {
	Fetch(ctx context.Context, project string) ([]string, error)
}

// Options configures a Client.
type Options struct {
	// URL is the endpoint template, DefaultURL when empty.
	URL string
	// Timeout bounds a whole Fetch including retries; 0 means none.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure.
	Retries int
	// CacheSize is the number of projects remembered; 0 uses the default.
	CacheSize  int
	HTTPClient *http.Client
}

// Client fetches manifests over HTTP and remembers successful answers for
// the life of the process.
type Client struct {
	url     string
	timeout time.Duration
	retries int
	http    *http.Client
	cache   *lru.Cache[string, []string]
}

// New creates a Client.
func New(opts Options) (*Client, error) {
	if opts.URL == "" {
		opts.URL = DefaultURL
	}
	if !strings.Contains(opts.URL, "{project}") {
		return nil, fmt.Errorf("manifest url %q has no {project} placeholder", opts.URL)
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = defaultCacheSize
	}
	if opts.Retries < 0 {
		opts.Retries = 0
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	cache, err := lru.New[string, []string](opts.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("manifest cache: %w", err)
	}
	return &Client{
		url:     opts.URL,
		timeout: opts.Timeout,
		retries: opts.Retries,
		http:    opts.HTTPClient,
		cache:   cache,
	}, nil
}

// URLFor returns the request URL for project.
func (c *Client) URLFor(project string) string {
	return strings.ReplaceAll(c.url, "{project}", url.PathEscape(project))
}

// Fetch returns the sorted dependency names of project. Server errors and
// transport failures are retried; 404 surfaces as ErrNotFound. A project
// with no dependencies yields an empty, non-nil slice.
func (c *Client) Fetch(ctx context.Context, project string) ([]string, error) {
	if project == "" {
		return nil, ErrNoProject
	}
	if deps, ok := c.cache.Get(project); ok {
		return slices.Clone(deps), nil
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	target := c.URLFor(project)
	var deps []string
	bo := backoff.WithMaxRetries(newBackoff(), uint64(c.retries))
	err := backoff.Retry(func() error {
		var err error
		deps, err = c.get(ctx, target)
		return err
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, fmt.Errorf("fetching manifest for %s: %w", project, err)
	}

	c.cache.Add(project, deps)
	return slices.Clone(deps), nil
}

func newBackoff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 200 * time.Millisecond
	bo.MaxElapsedTime = 0
	return bo
}

type document struct {
	Dependencies map[string]json.RawMessage `json:"dependencies"`
}

func (c *Client) get(ctx context.Context, target string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(ErrNotFound)
	case resp.StatusCode >= 500:
		return nil, fmt.Errorf("server returned %s", resp.Status)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("unexpected status %s", resp.Status))
	}

	var doc document
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&doc); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("decoding manifest: %w", err))
	}
	if doc.Dependencies == nil {
		return nil, backoff.Permanent(fmt.Errorf("decoding manifest: %w", ErrNoDependencies))
	}
	return Names(doc.Dependencies), nil
}

// Names returns the sorted keys of a dependencies object.
func Names(deps map[string]json.RawMessage) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		if name != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
