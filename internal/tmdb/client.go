// Package tmdb is a small client for the TMDB v3 API used by the discover endpoints.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"streaming-catalog/pkg/metrics"
	"streaming-catalog/pkg/utils"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

const maxBodyBytes = 10 << 20

var (
	ErrDisabled    = errors.New("tmdb: no API token configured")
	ErrUnavailable = errors.New("tmdb: upstream unavailable")
	ErrNotFound    = errors.New("tmdb: not found")
	ErrUnsupported = errors.New("tmdb: unsupported list or media type")
)

const (
	MediaMovie = "movie"
	MediaTV    = "tv"
)

// lists maps a public list name to its path per media type.
var lists = map[string]map[string]string{
	"trending":    {MediaMovie: "/trending/movie/week", MediaTV: "/trending/tv/week"},
	"popular":     {MediaMovie: "/movie/popular", MediaTV: "/tv/popular"},
	"top_rated":   {MediaMovie: "/movie/top_rated", MediaTV: "/tv/top_rated"},
	"upcoming":    {MediaMovie: "/movie/upcoming", MediaTV: "/tv/on_the_air"},
	"now_playing": {MediaMovie: "/movie/now_playing", MediaTV: "/tv/airing_today"},
}

// IsSupported reports whether list and media name a known listing.
func IsSupported(list, media string) bool {
	_, ok := lists[list][media]
	return ok
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[json.RawMessage]
	log     *zap.Logger
}

func NewClient(cfg utils.TMDBConfig, log *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(zap.String("client", "tmdb")),
	}

	c.breaker = gobreaker.NewCircuitBreaker[json.RawMessage](gobreaker.Settings{
		Name:        "tmdb",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			// Callers going away say nothing about upstream health.
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.log.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	return c
}

func (c *Client) Enabled() bool { return c.token != "" }

// List fetches a page of a named listing such as "popular" or "trending".
func (c *Client) List(ctx context.Context, list, media string, page int) (json.RawMessage, error) {
	p, ok := lists[list][media]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnsupported, list, media)
	}
	return c.get(ctx, list, p, pageQuery(page))
}

func (c *Client) Search(ctx context.Context, media, query string, page int) (json.RawMessage, error) {
	if media != MediaMovie && media != MediaTV {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, media)
	}
	q := pageQuery(page)
	q.Set("query", query)
	return c.get(ctx, "search", "/search/"+media, q)
}

func (c *Client) Details(ctx context.Context, media string, id int) (json.RawMessage, error) {
	if media != MediaMovie && media != MediaTV {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, media)
	}
	q := url.Values{}
	q.Set("append_to_response", "videos,credits")
	return c.get(ctx, "details", "/"+media+"/"+strconv.Itoa(id), q)
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page < 1 {
		page = 1
	}
	q.Set("page", strconv.Itoa(page))
	return q
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values) (json.RawMessage, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	body, err := c.breaker.Execute(func() (json.RawMessage, error) {
		return c.do(ctx, path, query)
	})
	metrics.RecordUpstreamRequest(endpoint, err)

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return nil, err
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			c.log.Info("TMDB request cancelled", zap.String("path", path))
		} else {
			c.log.Error("TMDB request failed", zap.Error(err), zap.String("path", path))
		}
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode != http.StatusOK:
		c.log.Warn("TMDB returned error status",
			zap.Int("status", resp.StatusCode),
			zap.String("path", path))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case !json.Valid(body):
		return nil, fmt.Errorf("%w: invalid JSON", ErrUnavailable)
	}

	return json.RawMessage(body), nil
}
