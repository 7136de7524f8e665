package services

import (
	"context"
	"errors"
	"testing"

	"amoria_server/models"
)

func TestMemoryStoreAddLikeRejectsMatchedPair(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	matchedPair(t, store, "a", "b")

	err := store.AddLike(context.Background(), "a", "b")
	if !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}

	a := mustGetUser(t, store, "a")
	if len(a.MyLikes) != 0 {
		t.Errorf("rejected write must not leave an edge behind, got %v", a.MyLikes)
	}
}

// A message append racing a dismatch holds a match value that no longer
// exists; the conditional append fails instead of recreating the log.
func TestMemoryStoreAppendMessageOnDeletedMatch(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	ctx := context.Background()

	stale, err := store.FindMatchByID(ctx, match.MatchID)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if err := store.DeleteMatch(ctx, *stale); err != nil {
		t.Fatalf("delete: %v", err)
	}

	_, err = store.AppendMessage(ctx, *stale, models.Message{MessageID: "m1", SenderID: "a", Content: "hello?"})
	if !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	if _, err := store.FindMatchByPair(ctx, "a", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no resurrected match, got %v", err)
	}
}

func TestMemoryStoreDeleteMatchRequiresCurrentID(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	ctx := context.Background()

	stale := *match
	stale.MatchID = "someone-elses-id"
	if err := store.DeleteMatch(ctx, stale); !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure for a stale id, got %v", err)
	}
	if _, err := store.FindMatchByID(ctx, match.MatchID); err != nil {
		t.Fatalf("expected the match untouched: %v", err)
	}
}

func TestMemoryStoreListUsersProjection(t *testing.T) {
	user := testUser("a")
	user.MyLikes = []string{"x"}
	user.Search = &models.SearchPreferences{AgeMin: 20, AgeMax: 30, GenderLiked: "Man", SexualityLiked: "Straight"}
	store := seedStore(t, user)

	users, err := store.ListUsers(context.Background(), []string{"myLikes", "search", "nameLower"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected one user, got %d", len(users))
	}

	got := users[0]
	if got.MyLikes != nil || got.Search != nil || got.NameLower != "" {
		t.Errorf("excluded attributes leaked: %+v", got)
	}
	if got.UserID != "a" || got.Name == "" {
		t.Errorf("kept attributes missing: %+v", got)
	}
}

// Reads hand out copies; mutating a result must not reach the stored
// record.
func TestMemoryStoreReadsAreIsolated(t *testing.T) {
	store := seedStore(t, testUser("a"))
	ctx := context.Background()

	first, err := store.FindUserByID(ctx, "a")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	first.Name = "scribbled"
	first.MyLikes = append(first.MyLikes, "junk")

	second, err := store.FindUserByID(ctx, "a")
	if err != nil {
		t.Fatalf("refetch: %v", err)
	}
	if second.Name != "User a" || len(second.MyLikes) != 0 {
		t.Errorf("stored record was mutated through a read: %+v", second)
	}
}
