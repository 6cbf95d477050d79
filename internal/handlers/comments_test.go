package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPostComment_FeedsAggregate(t *testing.T) {
	e := newEnv(t)
	m := e.addMovie(t, "Alien", "Sci-Fi", 0)

	req := asUser(newReq(t, http.MethodPost, "/v1/movies/1/comments", commentRequest{
		Stars: 10, Body: "a classic",
	}, "movie_id", "1"), "alice", "user")
	rr := httptest.NewRecorder()
	PostComment(e.engine, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decodeBody(t, rr)
	if resp["stars"] != float64(5) { // 10 normalizes to 5
		t.Fatalf("stars = %v, want 5", resp["stars"])
	}

	got, err := e.catalog.Get(context.Background(), m.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.AggregateRating != 10.0 {
		t.Fatalf("aggregate = %v, want 10 after comment", got.AggregateRating)
	}
}

func TestPostComment_EmptyBody(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)

	req := asUser(newReq(t, http.MethodPost, "/v1/movies/1/comments", commentRequest{
		Stars: 3, Body: "  ",
	}, "movie_id", "1"), "alice", "user")
	rr := httptest.NewRecorder()
	PostComment(e.engine, nil).ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListComments_Empty(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)

	req := newReq(t, http.MethodGet, "/v1/movies/1/comments", nil, "movie_id", "1")
	rr := httptest.NewRecorder()
	ListComments(e.comments).ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decodeBody(t, rr)
	if resp["count"] != float64(0) {
		t.Fatalf("count = %v, want 0", resp["count"])
	}
}

func TestUpdateComment_ForeignAuthor(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)
	c, err := e.engine.AddComment(context.Background(), 1, "alice", 3, "mine")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	req := asUser(newReq(t, http.MethodPut, "/v1/comments/"+c.ID, commentRequest{
		Stars: 1, Body: "hijack",
	}, "comment_id", c.ID), "mallory", "user")
	rr := httptest.NewRecorder()
	UpdateComment(e.engine).ServeHTTP(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeleteComment_AdminBypass(t *testing.T) {
	e := newEnv(t)
	e.addMovie(t, "Alien", "Sci-Fi", 0)
	c, err := e.engine.AddComment(context.Background(), 1, "alice", 3, "mine")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	// A plain user cannot delete someone else's comment.
	req := asUser(newReq(t, http.MethodDelete, "/v1/comments/"+c.ID, nil, "comment_id", c.ID), "mallory", "user")
	rr := httptest.NewRecorder()
	DeleteComment(e.engine).ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for foreign delete, got %d", rr.Code)
	}

	// An admin can.
	req = asUser(newReq(t, http.MethodDelete, "/v1/comments/"+c.ID, nil, "comment_id", c.ID), "root", "admin")
	rr = httptest.NewRecorder()
	DeleteComment(e.engine).ServeHTTP(rr, req)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for admin delete, got %d", rr.Code)
	}
}
