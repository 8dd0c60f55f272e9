package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"persona_fetcher/internal/domain"
)

const (
	SourceID   = "reddit"
	SourceName = "Reddit"

	DefaultPublicURL = "https://www.reddit.com"
	DefaultOAuthURL  = "https://oauth.reddit.com"
	DefaultTokenURL  = "https://www.reddit.com/api/v1/access_token"
	DefaultLinkBase  = "https://reddit.com"

	maxPageSize = 100
)

// Config holds Reddit source configuration. Without client credentials the
// source reads the public JSON listings anonymously.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string
	BaseURL      string
	TokenURL     string
	LinkBase     string
	Timeout      time.Duration
}

// Source implements service.Source for the Reddit listing API.
type Source struct {
	httpClient *http.Client
	baseURL    string
	linkBase   string
	userAgent  string
	logger     *slog.Logger
}

// New creates a new Reddit source.
func New(cfg Config, logger *slog.Logger) *Source {
	base := &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &userAgentTransport{userAgent: cfg.UserAgent, next: http.DefaultTransport},
	}

	client := base
	baseURL := cfg.BaseURL
	if cfg.ClientID != "" && cfg.ClientSecret != "" {
		oauthCfg := &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}
		if oauthCfg.TokenURL == "" {
			oauthCfg.TokenURL = DefaultTokenURL
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
		client = oauthCfg.Client(ctx)
		client.Timeout = cfg.Timeout
		if baseURL == "" {
			baseURL = DefaultOAuthURL
		}
	}
	if baseURL == "" {
		baseURL = DefaultPublicURL
	}

	linkBase := cfg.LinkBase
	if linkBase == "" {
		linkBase = DefaultLinkBase
	}

	return &Source{
		httpClient: client,
		baseURL:    baseURL,
		linkBase:   linkBase,
		userAgent:  cfg.UserAgent,
		logger:     logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (s *Source) ID() string {
	return SourceID
}

// Name returns human-readable name.
func (s *Source) Name() string {
	return SourceName
}

// LinkBase is prepended to item permalinks to build canonical URLs.
func (s *Source) LinkBase() string {
	return s.linkBase
}

// ListItems fetches one newest-first page of the given stream for handle.
func (s *Source) ListItems(ctx context.Context, kind domain.Kind, handle string, req domain.PageRequest) (*domain.Page, error) {
	endpoint, err := s.listingURL(kind, handle, req)
	if err != nil {
		return nil, err
	}

	listing, err := s.doRequest(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	page := &domain.Page{
		Items: make([]domain.RawItem, 0, len(listing.Data.Children)),
		After: listing.Data.After,
	}
	for _, child := range listing.Data.Children {
		page.Items = append(page.Items, toRawItem(kind, child.Data))
	}

	s.logger.Debug("fetched page",
		"kind", kind,
		"handle", handle,
		"after", req.After,
		"items", len(page.Items),
		"next", page.After,
	)

	return page, nil
}

func (s *Source) listingURL(kind domain.Kind, handle string, req domain.PageRequest) (string, error) {
	var path string
	switch kind {
	case domain.KindPost:
		path = "submitted"
	case domain.KindComment:
		path = "comments"
	default:
		return "", fmt.Errorf("unknown kind %q", kind)
	}

	limit := req.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = maxPageSize
	}

	q := url.Values{}
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("raw_json", "1")
	if req.After != "" {
		q.Set("after", req.After)
	}

	return fmt.Sprintf("%s/user/%s/%s.json?%s", s.baseURL, url.PathEscape(handle), path, q.Encode()), nil
}

func (s *Source) doRequest(ctx context.Context, endpoint string) (*Listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: execute request: %w", domain.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, domain.ErrHandleNotFound
	case http.StatusForbidden:
		return nil, domain.ErrHandlePrivate
	default:
		return nil, fmt.Errorf("%w: unexpected status: %d", domain.ErrRemoteUnavailable, resp.StatusCode)
	}

	var listing Listing
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrRemoteUnavailable, err)
	}

	return &listing, nil
}

func toRawItem(kind domain.Kind, d ThingData) domain.RawItem {
	item := domain.RawItem{
		ID:         d.ID,
		CreatedUTC: d.CreatedUTC,
		Permalink:  d.Permalink,
	}
	if kind == domain.KindPost {
		item.Title = d.Title
		item.Body = d.Selftext
	} else {
		item.Body = d.Body
	}
	return item
}

type userAgentTransport struct {
	userAgent string
	next      http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.userAgent == "" {
		return t.next.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.next.RoundTrip(r)
}
