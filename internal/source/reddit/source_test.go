package reddit

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"persona_fetcher/internal/domain"
)

type SourceTestSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	source *Source
	logger *slog.Logger
}

func (s *SourceTestSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(s.mux)
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s.source = New(Config{
		UserAgent: "persona-test/1.0",
		BaseURL:   s.server.URL,
		Timeout:   5 * time.Second,
	}, s.logger)
}

func (s *SourceTestSuite) TearDownTest() {
	s.server.Close()
}

func TestSourceTestSuite(t *testing.T) {
	suite.Run(t, new(SourceTestSuite))
}

func writeListing(w http.ResponseWriter, after string, children ...Thing) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(Listing{
		Kind: "Listing",
		Data: ListingData{After: after, Dist: len(children), Children: children},
	})
}

func str(v string) *string { return &v }

func (s *SourceTestSuite) TestListItems_Submissions() {
	s.mux.HandleFunc("/user/spez/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("persona-test/1.0", r.Header.Get("User-Agent"))
		s.Equal("new", r.URL.Query().Get("sort"))
		s.Equal("2", r.URL.Query().Get("limit"))
		s.Equal("", r.URL.Query().Get("after"))

		writeListing(w, "t3_b",
			Thing{Kind: "t3", Data: ThingData{ID: "a", Title: str("First"), Selftext: str("hello"), CreatedUTC: 300, Permalink: "/r/x/comments/a/first/"}},
			Thing{Kind: "t3", Data: ThingData{ID: "b", Title: str("Link post"), CreatedUTC: 200, Permalink: "/r/x/comments/b/link/"}},
		)
	})

	page, err := s.source.ListItems(context.Background(), domain.KindPost, "spez", domain.PageRequest{Limit: 2})
	s.Require().NoError(err)
	s.Equal("t3_b", page.After)
	s.Require().Len(page.Items, 2)

	s.Equal("a", page.Items[0].ID)
	s.Equal("First", *page.Items[0].Title)
	s.Equal("hello", *page.Items[0].Body)
	s.Equal(float64(300), page.Items[0].CreatedUTC)
	s.Equal("/r/x/comments/a/first/", page.Items[0].Permalink)

	s.Nil(page.Items[1].Body)
}

func (s *SourceTestSuite) TestListItems_CommentsWithCursor() {
	s.mux.HandleFunc("/user/spez/comments.json", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("t1_x", r.URL.Query().Get("after"))
		writeListing(w, "",
			Thing{Kind: "t1", Data: ThingData{ID: "c1", Body: str("nice"), Title: str("ignored"), CreatedUTC: 100, Permalink: "/r/x/comments/a/first/c1/"}},
		)
	})

	page, err := s.source.ListItems(context.Background(), domain.KindComment, "spez", domain.PageRequest{After: "t1_x", Limit: 50})
	s.Require().NoError(err)
	s.Empty(page.After)
	s.Require().Len(page.Items, 1)
	s.Nil(page.Items[0].Title)
	s.Equal("nice", *page.Items[0].Body)
}

func (s *SourceTestSuite) TestListItems_LimitCappedAtMaxPageSize() {
	s.mux.HandleFunc("/user/spez/comments.json", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("100", r.URL.Query().Get("limit"))
		writeListing(w, "")
	})

	_, err := s.source.ListItems(context.Background(), domain.KindComment, "spez", domain.PageRequest{Limit: 500})
	s.NoError(err)
}

func (s *SourceTestSuite) TestListItems_StatusMapping() {
	s.mux.HandleFunc("/user/ghost/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	s.mux.HandleFunc("/user/banned/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	s.mux.HandleFunc("/user/busy/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})
	s.mux.HandleFunc("/user/garbled/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	})

	ctx := context.Background()

	_, err := s.source.ListItems(ctx, domain.KindPost, "ghost", domain.PageRequest{})
	s.ErrorIs(err, domain.ErrHandleNotFound)

	_, err = s.source.ListItems(ctx, domain.KindPost, "banned", domain.PageRequest{})
	s.ErrorIs(err, domain.ErrHandlePrivate)

	_, err = s.source.ListItems(ctx, domain.KindPost, "busy", domain.PageRequest{})
	s.ErrorIs(err, domain.ErrRemoteUnavailable)
	s.Contains(err.Error(), "429")

	_, err = s.source.ListItems(ctx, domain.KindPost, "garbled", domain.PageRequest{})
	s.ErrorIs(err, domain.ErrRemoteUnavailable)
}

func (s *SourceTestSuite) TestListItems_Unreachable() {
	s.server.Close()

	_, err := s.source.ListItems(context.Background(), domain.KindPost, "spez", domain.PageRequest{})
	s.ErrorIs(err, domain.ErrRemoteUnavailable)
}

func (s *SourceTestSuite) TestListItems_UnknownKind() {
	_, err := s.source.ListItems(context.Background(), domain.Kind("award"), "spez", domain.PageRequest{})
	s.Error(err)
}

func (s *SourceTestSuite) TestListItems_OAuth() {
	s.mux.HandleFunc("/api/v1/access_token", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		s.True(ok)
		s.Equal("id", user)
		s.Equal("secret", pass)
		s.Equal("persona-test/1.0", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","expires_in":3600}`))
	})
	s.mux.HandleFunc("/user/spez/submitted.json", func(w http.ResponseWriter, r *http.Request) {
		s.Equal("Bearer tok", r.Header.Get("Authorization"))
		writeListing(w, "")
	})

	src := New(Config{
		ClientID:     "id",
		ClientSecret: "secret",
		UserAgent:    "persona-test/1.0",
		BaseURL:      s.server.URL,
		TokenURL:     s.server.URL + "/api/v1/access_token",
		Timeout:      5 * time.Second,
	}, s.logger)

	page, err := src.ListItems(context.Background(), domain.KindPost, "spez", domain.PageRequest{Limit: 10})
	s.NoError(err)
	s.Empty(page.Items)
}

func (s *SourceTestSuite) TestDefaults() {
	src := New(Config{}, s.logger)
	s.Equal(DefaultPublicURL, src.baseURL)
	s.Equal(DefaultLinkBase, src.LinkBase())
	s.Equal(SourceID, src.ID())
	s.Equal(SourceName, src.Name())

	src = New(Config{ClientID: "id", ClientSecret: "secret"}, s.logger)
	s.Equal(DefaultOAuthURL, src.baseURL)
}
