package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/example/cineflix/internal/catalog"
	"github.com/example/cineflix/internal/comment"
	"github.com/example/cineflix/internal/platform/auth"
	"github.com/example/cineflix/internal/rating"
	"github.com/example/cineflix/internal/recommend"
	"github.com/example/cineflix/internal/sales"
	"github.com/example/cineflix/internal/user"
)

// ─── test environment ────────────────────────────────────────────────────────

type env struct {
	catalog  *catalog.InMemoryStore
	ratings  *rating.InMemoryStore
	comments *comment.InMemoryStore
	engine   *recommend.Engine
	ledger   *sales.Ledger
	users    *user.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	cat := catalog.NewInMemoryStore()
	rat := rating.NewInMemoryStore()
	com := comment.NewInMemoryStore()
	engine := recommend.NewEngine(cat, rat, com, nil)
	return &env{
		catalog:  cat,
		ratings:  rat,
		comments: com,
		engine:   engine,
		ledger:   sales.NewLedger(sales.NewInMemoryStore(), cat, nil),
		users:    user.NewService(user.NewInMemoryStore(), rat, engine, nil),
	}
}

func (e *env) addMovie(t *testing.T, title, genre string, agg float64) catalog.Movie {
	t.Helper()
	m, err := e.catalog.Add(context.Background(), catalog.MovieInput{
		Title:         title,
		Director:      "Someone",
		Genre:         genre,
		Year:          2010,
		InitialRating: agg,
	})
	if err != nil {
		t.Fatalf("add movie %q: %v", title, err)
	}
	return m
}

// ─── request helpers ─────────────────────────────────────────────────────────

// newReq builds a request with optional JSON body and chi URL params given as
// alternating key/value pairs.
func newReq(t *testing.T, method, url string, body any, params ...string) *http.Request {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		req = httptest.NewRequest(method, url, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	rctx := chi.NewRouteContext()
	for i := 0; i+1 < len(params); i += 2 {
		rctx.URLParams.Add(params[i], params[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

// asUser injects an authenticated username and role into the request context.
func asUser(req *http.Request, username, role string) *http.Request {
	ctx := auth.WithUsername(req.Context(), username)
	ctx = auth.WithRole(ctx, role)
	return req.WithContext(ctx)
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

// ─── movie tests ─────────────────────────────────────────────────────────────

func TestListMovies_Filters(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 9)
	e.addMovie(t, "Heat", "Crime", 8)

	req := newReq(t, http.MethodGet, "/v1/movies?genre=Sci-Fi", nil)
	rr := httptest.NewRecorder()
	ListMovies(e.catalog).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", resp["count"])
	}
}

func TestListMovies_BadYear(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodGet, "/v1/movies?year=abc", nil)
	rr := httptest.NewRecorder()
	ListMovies(e.catalog).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAddMovie_OK(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodPost, "/v1/movies", catalog.MovieInput{
		Title: "Dune", Director: "Denis Villeneuve", Genre: "Sci-Fi", Year: 2021,
	})
	rr := httptest.NewRecorder()
	AddMovie(e.catalog, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["id"] != float64(1) {
		t.Fatalf("id = %v, want 1", resp["id"])
	}
}

func TestAddMovie_Duplicate(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Dune", "Sci-Fi", 0)

	req := newReq(t, http.MethodPost, "/v1/movies", catalog.MovieInput{
		Title: "dune", Director: "D", Genre: "Sci-Fi", Year: 2021,
	})
	rr := httptest.NewRecorder()
	AddMovie(e.catalog, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestAddMovie_Invalid(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodPost, "/v1/movies", catalog.MovieInput{Title: "No Director"})
	rr := httptest.NewRecorder()
	AddMovie(e.catalog, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestGetMovie_NotFound(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodGet, "/v1/movies/42", nil, "movie_id", "42")
	rr := httptest.NewRecorder()
	GetMovie(e.catalog).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestGetMovie_BadID(t *testing.T) {
	e := newEnv(t)
	req := newReq(t, http.MethodGet, "/v1/movies/not-a-number", nil, "movie_id", "not-a-number")
	rr := httptest.NewRecorder()
	GetMovie(e.catalog).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestDeleteMovie_OK(t *testing.T) {
	e := newEnv(t)
	m := e.addMovie(t, "Gone", "Drama", 0)

	req := newReq(t, http.MethodDelete, "/v1/movies/1", nil, "movie_id", "1")
	rr := httptest.NewRecorder()
	DeleteMovie(e.catalog).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rr.Code)
	}
	if _, err := e.catalog.Get(context.Background(), m.ID); err == nil {
		t.Fatal("movie still present after delete")
	}
}

// ─── rating tests ────────────────────────────────────────────────────────────

func TestRateMovie_OK(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)

	req := asUser(newReq(t, http.MethodPost, "/v1/movies/1/ratings", rateRequest{Stars: 8}, "movie_id", "1"), "alice", "user")
	rr := httptest.NewRecorder()
	RateMovie(e.engine, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["aggregate_rating"] != 8.0 {
		t.Fatalf("aggregate = %v, want 8", resp["aggregate_rating"])
	}
}

func TestRateMovie_Unauthenticated(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)

	req := newReq(t, http.MethodPost, "/v1/movies/1/ratings", rateRequest{Stars: 4}, "movie_id", "1")
	rr := httptest.NewRecorder()
	RateMovie(e.engine, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestRateMovie_InvalidStars(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)

	req := asUser(newReq(t, http.MethodPost, "/v1/movies/1/ratings", rateRequest{Stars: 11}, "movie_id", "1"), "alice", "user")
	rr := httptest.NewRecorder()
	RateMovie(e.engine, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestRateMovie_UnknownMovie(t *testing.T) {
	e := newEnv(t)
	req := asUser(newReq(t, http.MethodPost, "/v1/movies/7/ratings", rateRequest{Stars: 4}, "movie_id", "7"), "alice", "user")
	rr := httptest.NewRecorder()
	RateMovie(e.engine, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestMyRatings_Empty(t *testing.T) {
	e := newEnv(t)
	req := asUser(newReq(t, http.MethodGet, "/v1/users/me/ratings", nil), "alice", "user")
	rr := httptest.NewRecorder()
	MyRatings(e.ratings).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeBody(t, rr)
	if resp["count"] != float64(0) {
		t.Fatalf("count = %v, want 0", resp["count"])
	}
}

// ─── recommendation tests ────────────────────────────────────────────────────

func TestRecommendations_ColdStart(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Best", "Drama", 9)
	e.addMovie(t, "Worst", "Drama", 2)

	req := asUser(newReq(t, http.MethodGet, "/v1/recommendations?limit=1", nil), "newcomer", "user")
	rr := httptest.NewRecorder()
	Recommendations(e.engine).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["count"] != float64(1) {
		t.Fatalf("count = %v, want 1", resp["count"])
	}
}

func TestRecommendations_BadLimit(t *testing.T) {
	e := newEnv(t)
	req := asUser(newReq(t, http.MethodGet, "/v1/recommendations?limit=0", nil), "alice", "user")
	rr := httptest.NewRecorder()
	Recommendations(e.engine).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestAffinities_OK(t *testing.T) {
	e := newEnv(t)
	m := e.addMovie(t, "Alien", "Sci-Fi", 0)
	if _, err := e.engine.RateMovie(context.Background(), "alice", m.ID, 4); err != nil {
		t.Fatalf("RateMovie: %v", err)
	}

	req := asUser(newReq(t, http.MethodGet, "/v1/users/me/affinities", nil), "alice", "user")
	rr := httptest.NewRecorder()
	Affinities(e.engine).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeBody(t, rr)
	aff, ok := resp["affinities"].(map[string]any)
	if !ok || aff["Sci-Fi"] != float64(4) {
		t.Fatalf("affinities = %v, want Sci-Fi 4", resp["affinities"])
	}
}
