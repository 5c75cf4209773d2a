// Package quran talks to the alquran.cloud REST API. Every response goes
// through a typed envelope and a validation step, so missing or mistyped
// fields surface as ErrMalformed instead of zero values.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/taiwoajasa245/quran-reader-api/pkg/logger"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrUpstream  = errors.New("corpus service error")
	ErrMalformed = errors.New("malformed corpus response")
)

const (
	DefaultBaseURL = "https://api.alquran.cloud/v1"
	defaultTimeout = 10 * time.Second
	userAgent      = "quran-reader-api/1.0"
	maxBodyBytes   = 16 << 20
)

type envelope struct {
	Code   int             `json:"code"`
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

type Client struct {
	client  *http.Client
	cache   *cache.Cache
	baseURL string
	log     *zap.Logger
}

type Options struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
	Logger   *zap.Logger
}

func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 10 * time.Minute
	}

	httpClient := http.Client{Timeout: opts.Timeout}
	c := &Client{
		client:  &httpClient,
		cache:   cache.New(opts.CacheTTL, 2*opts.CacheTTL),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		log:     logger.OrNop(opts.Logger),
	}
	httpClient.Transport = c
	return c
}

func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	return http.DefaultTransport.RoundTrip(req)
}

// Flush drops every cached response.
func (c *Client) Flush() {
	c.cache.Flush()
}

type validator interface {
	validate() error
}

// get fetches path, unwraps the envelope and decodes data into dst.
func (c *Client) get(ctx context.Context, path string, dst any) error {
	var data json.RawMessage
	cached, hit := c.cache.Get(path)
	if hit {
		data = cached.(json.RawMessage)
	} else {
		var err error
		if data, err = c.fetch(ctx, path); err != nil {
			return err
		}
	}

	if len(data) == 0 || string(data) == "null" {
		return fmt.Errorf("%w: %s: missing data", ErrMalformed, path)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	if v, ok := dst.(validator); ok {
		if err := v.validate(); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	if !hit {
		c.cache.SetDefault(path, data)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUpstream, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s: unexpected status code %d", ErrUpstream, path, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrUpstream, path, err)
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, path, err)
	}
	switch {
	case env.Code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	case env.Code != http.StatusOK:
		return nil, fmt.Errorf("%w: %s: envelope code %d (%s)", ErrUpstream, path, env.Code, env.Status)
	}

	c.log.Debug("fetched corpus resource", zap.String("path", path))
	return env.Data, nil
}

func checkChapter(n int) error {
	if n < 1 || n > ChapterCount {
		return fmt.Errorf("%w: chapter %d", ErrNotFound, n)
	}
	return nil
}

func checkSection(n int) error {
	if n < 1 || n > SectionCount {
		return fmt.Errorf("%w: section %d", ErrNotFound, n)
	}
	return nil
}

func editionOrDefault(edition string) string {
	if edition == "" {
		return OriginalEdition
	}
	return url.PathEscape(edition)
}

type chapters []Chapter

func (cs chapters) validate() error {
	for _, ch := range cs {
		if err := ch.validate(); err != nil {
			return err
		}
	}
	return nil
}

type editions []Edition

func (es editions) validate() error {
	for _, e := range es {
		if err := e.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) ListChapters(ctx context.Context) ([]Chapter, error) {
	var out chapters
	if err := c.get(ctx, "/surah", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetChapter(ctx context.Context, n int) (Chapter, error) {
	if err := checkChapter(n); err != nil {
		return Chapter{}, err
	}
	var out Chapter
	if err := c.get(ctx, fmt.Sprintf("/surah/%d", n), &out); err != nil {
		return Chapter{}, err
	}
	return out, nil
}

// GetChapterVerses returns chapter n in edition, the original script when
// edition is empty.
func (c *Client) GetChapterVerses(ctx context.Context, n int, edition string) (VerseList, error) {
	if err := checkChapter(n); err != nil {
		return VerseList{}, err
	}
	var out VerseList
	if err := c.get(ctx, fmt.Sprintf("/surah/%d/%s", n, editionOrDefault(edition)), &out); err != nil {
		return VerseList{}, err
	}
	return out, nil
}

func (c *Client) GetSectionVerses(ctx context.Context, n int, edition string) (VerseList, error) {
	if err := checkSection(n); err != nil {
		return VerseList{}, err
	}
	var out VerseList
	if err := c.get(ctx, fmt.Sprintf("/juz/%d/%s", n, editionOrDefault(edition)), &out); err != nil {
		return VerseList{}, err
	}
	return out, nil
}

// ListTranslations returns the translation editions whose language is in
// languages, in upstream order. An empty allow-list keeps everything.
func (c *Client) ListTranslations(ctx context.Context, languages []string) ([]Edition, error) {
	var all editions
	if err := c.get(ctx, "/edition/type/translation", &all); err != nil {
		return nil, err
	}
	if len(languages) == 0 {
		return all, nil
	}

	allowed := make(map[string]bool, len(languages))
	for _, l := range languages {
		allowed[strings.ToLower(strings.TrimSpace(l))] = true
	}
	out := make([]Edition, 0, len(all))
	for _, e := range all {
		if allowed[strings.ToLower(e.Language)] {
			out = append(out, e)
		}
	}
	return out, nil
}

// Search looks query up across every edition in language. No matches is an
// empty result rather than an error.
func (c *Client) Search(ctx context.Context, query, language string) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{Matches: []SearchMatch{}}, nil
	}
	if language == "" {
		language = "en"
	}

	var out SearchResult
	err := c.get(ctx, fmt.Sprintf("/search/%s/all/%s", url.PathEscape(query), url.PathEscape(language)), &out)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return SearchResult{Matches: []SearchMatch{}}, nil
		}
		return SearchResult{}, err
	}
	if out.Matches == nil {
		out.Matches = []SearchMatch{}
	}
	return out, nil
}
