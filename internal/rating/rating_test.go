package rating

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNormalizeStars(t *testing.T) {
	cases := []struct {
		raw  int
		want int
	}{
		{1, 1}, {2, 2}, {3, 3}, {4, 4}, {5, 5},
		{6, 3}, {7, 4}, {8, 4}, {9, 5}, {10, 5},
	}
	for _, tc := range cases {
		got, err := NormalizeStars(tc.raw)
		if err != nil {
			t.Errorf("NormalizeStars(%d): %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeStars(%d) = %d, want %d", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeStarsRejectsOutOfRange(t *testing.T) {
	for _, raw := range []int{0, -1, 11, 100} {
		if _, err := NormalizeStars(raw); !errors.Is(err, ErrInvalidStars) {
			t.Errorf("NormalizeStars(%d): err = %v, want ErrInvalidStars", raw, err)
		}
	}
}

func TestNormalizeStarsIdempotentOnNormalizedValues(t *testing.T) {
	// Values already on the 1-5 scale must survive a second pass unchanged,
	// so double-normalization bugs cannot corrupt stored ratings.
	for raw := 1; raw <= 10; raw++ {
		once, err := NormalizeStars(raw)
		if err != nil {
			t.Fatalf("NormalizeStars(%d): %v", raw, err)
		}
		twice, err := NormalizeStars(once)
		if err != nil {
			t.Fatalf("NormalizeStars(NormalizeStars(%d)): %v", raw, err)
		}
		if once != twice {
			t.Errorf("raw %d: normalized %d re-normalizes to %d", raw, once, twice)
		}
	}
}

func TestInMemoryStoreSetOverwrites(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	if err := s.Set(ctx, Rating{User: "alice", MovieID: 1, Stars: 2, RatedAt: base}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, Rating{User: "alice", MovieID: 1, Stars: 5, RatedAt: base.Add(time.Minute)}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := s.UserRatings(ctx, "alice")
	if err != nil {
		t.Fatalf("UserRatings: %v", err)
	}
	if len(got) != 1 || got[1].Stars != 5 {
		t.Fatalf("ratings = %+v, want single 5-star entry for movie 1", got)
	}
}

func TestInMemoryStoreUnknownUser(t *testing.T) {
	s := NewInMemoryStore()
	got, err := s.UserRatings(context.Background(), "ghost")
	if err != nil {
		t.Fatalf("UserRatings: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("ratings = %+v, want empty map", got)
	}
}

func TestInMemoryStoreMovieRatings(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	for _, r := range []Rating{
		{User: "alice", MovieID: 7, Stars: 4, RatedAt: now},
		{User: "bob", MovieID: 7, Stars: 2, RatedAt: now},
		{User: "alice", MovieID: 8, Stars: 5, RatedAt: now},
	} {
		if err := s.Set(ctx, r); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}

	got, err := s.MovieRatings(ctx, 7)
	if err != nil {
		t.Fatalf("MovieRatings: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d ratings for movie 7, want 2", len(got))
	}
}

func TestInMemoryStoreDeleteUser(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.Set(ctx, Rating{User: "alice", MovieID: 1, Stars: 3, RatedAt: now}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Set(ctx, Rating{User: "bob", MovieID: 1, Stars: 4, RatedAt: now}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.DeleteUser(ctx, "alice"); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	rem, err := s.MovieRatings(ctx, 1)
	if err != nil {
		t.Fatalf("MovieRatings: %v", err)
	}
	if len(rem) != 1 || rem[0].User != "bob" {
		t.Fatalf("remaining = %+v, want only bob", rem)
	}
}
