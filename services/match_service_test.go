package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"amoria_server/models"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// matchedPair seeds two users, runs the mutual like, and returns the
// formed match.
func matchedPair(t *testing.T, store *MemoryStore, idA, idB string) *models.Match {
	t.Helper()
	svc := newActionService(store)
	ctx := context.Background()

	if _, err := svc.Like(ctx, "tok-"+idA, "tok-"+idB); err != nil {
		t.Fatalf("like: %v", err)
	}
	outcome, err := svc.Like(ctx, "tok-"+idB, "tok-"+idA)
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if !outcome.Matched {
		t.Fatalf("expected a match between %s and %s", idA, idB)
	}
	return &outcome.Match.Match
}

func TestFormMatchIsPairUnique(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := &MatchService{Store: store, Now: fixedClock(now)}
	ctx := context.Background()

	if err := store.AddLike(ctx, "a", "b"); err != nil {
		t.Fatalf("seeding pending like: %v", err)
	}
	a := mustGetUser(t, store, "a")
	b := mustGetUser(t, store, "b")

	result, err := svc.FormMatch(ctx, b, a)
	if err != nil {
		t.Fatalf("form match: %v", err)
	}
	if result.Match.MatchID == "" {
		t.Errorf("expected an assigned match id")
	}
	if result.Match.CreatedAt != now.Format(time.RFC3339) {
		t.Errorf("expected createdAt %s, got %s", now.Format(time.RFC3339), result.Match.CreatedAt)
	}
	if len(result.Users) != 2 {
		t.Fatalf("expected both projections, got %d", len(result.Users))
	}

	// A second match for the unordered pair must not be creatable.
	if err := store.AddLike(ctx, "a", "b"); !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected the matched pair to reject new edges, got %v", err)
	}
	if _, err := svc.FormMatch(ctx, a, b); !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected duplicate match formation to fail, got %v", err)
	}
}

func TestFormMatchRequiresPendingLike(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	svc := &MatchService{Store: store}
	ctx := context.Background()

	a := mustGetUser(t, store, "a")
	b := mustGetUser(t, store, "b")

	// Neither side holds a pending like, so the consumption step has
	// nothing to consume.
	if _, err := svc.FormMatch(ctx, b, a); !errors.Is(err, ErrStorageFailure) {
		t.Fatalf("expected ErrStorageFailure, got %v", err)
	}
	if _, err := store.FindMatchByPair(ctx, "a", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected no partial match, got %v", err)
	}
}

func TestDismatchRemovesMatchAndEdges(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}
	ctx := context.Background()

	if err := svc.Dismatch(ctx, "tok-a", "tok-b", match.MatchID); err != nil {
		t.Fatalf("dismatch: %v", err)
	}

	if _, err := store.FindMatchByPair(ctx, "a", "b"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected the match gone, got %v", err)
	}
	a := mustGetUser(t, store, "a")
	b := mustGetUser(t, store, "b")
	if len(a.MyLikes)+len(a.WhoLikesMe)+len(b.MyLikes)+len(b.WhoLikesMe) != 0 {
		t.Errorf("expected no residual edges after dismatch")
	}

	// The pair can match again from scratch.
	if _, err := newActionService(store).Like(ctx, "tok-a", "tok-b"); err != nil {
		t.Fatalf("like after dismatch: %v", err)
	}
}

func TestDismatchUnknownMatch(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	svc := &MatchService{Store: store}

	err := svc.Dismatch(context.Background(), "tok-a", "tok-b", "no-such-match")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDismatchRejectsWrongPair(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"), testUser("c"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}

	err := svc.Dismatch(context.Background(), "tok-a", "tok-c", match.MatchID)
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if _, err := store.FindMatchByPair(context.Background(), "a", "b"); err != nil {
		t.Fatalf("expected the match untouched: %v", err)
	}
}

func TestDismatchRejectsSelfReference(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}

	err := svc.Dismatch(context.Background(), "tok-a", "tok-a", match.MatchID)
	if !errors.Is(err, ErrSelfReference) {
		t.Fatalf("expected ErrSelfReference, got %v", err)
	}
}

func TestAppendMessageKeepsArrivalOrder(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}
	ctx := context.Background()

	first := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	if _, err := svc.AppendMessage(ctx, match.MatchID, "a", "hey!", first); err != nil {
		t.Fatalf("first message: %v", err)
	}
	saved, err := svc.AppendMessage(ctx, match.MatchID, "b", "hey yourself", first.Add(time.Minute))
	if err != nil {
		t.Fatalf("second message: %v", err)
	}

	if len(saved.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(saved.Messages))
	}
	if saved.Messages[0].SenderID != "a" || saved.Messages[0].Content != "hey!" {
		t.Errorf("unexpected first message: %+v", saved.Messages[0])
	}
	if saved.Messages[1].SenderID != "b" {
		t.Errorf("unexpected second message: %+v", saved.Messages[1])
	}
	if saved.Messages[0].MessageID == saved.Messages[1].MessageID {
		t.Errorf("expected distinct message ids")
	}
}

func TestAppendMessageStampsServerTimeWhenUnset(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	now := time.Date(2025, 3, 2, 8, 30, 0, 0, time.UTC)
	svc := &MatchService{Store: store, Now: fixedClock(now)}

	saved, err := svc.AppendMessage(context.Background(), match.MatchID, "a", "morning", time.Time{})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := saved.Messages[0].CreatedAt; got != now.Format(time.RFC3339) {
		t.Errorf("expected server timestamp %s, got %s", now.Format(time.RFC3339), got)
	}
}

func TestAppendMessageRejectsOutsiders(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"), testUser("c"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}

	_, err := svc.AppendMessage(context.Background(), match.MatchID, "c", "let me in", time.Time{})
	if !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestAppendMessageRequiresContent(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}

	_, err := svc.AppendMessage(context.Background(), match.MatchID, "a", "", time.Time{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAppendMessageAfterDismatch(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"))
	match := matchedPair(t, store, "a", "b")
	svc := &MatchService{Store: store}
	ctx := context.Background()

	if _, err := svc.AppendMessage(ctx, match.MatchID, "a", "soon gone", time.Time{}); err != nil {
		t.Fatalf("append: %v", err)
	}
	if err := svc.Dismatch(ctx, "tok-a", "tok-b", match.MatchID); err != nil {
		t.Fatalf("dismatch: %v", err)
	}

	// The log died with the match; a later append cannot resurrect it.
	_, err := svc.AppendMessage(ctx, match.MatchID, "a", "anyone there?", time.Time{})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCurrentMatchesEnrichesProfiles(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"), testUser("c"))
	matchedPair(t, store, "a", "b")
	matchedPair(t, store, "a", "c")
	svc := &MatchService{Store: store}

	matches, err := svc.CurrentMatches(context.Background(), "tok-a")
	if err != nil {
		t.Fatalf("current matches: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}

	others := map[string]bool{}
	for _, m := range matches {
		others[m.Profile.UserID] = true
		if m.Profile.Name == "" {
			t.Errorf("expected an enriched profile, got %+v", m.Profile)
		}
	}
	if !others["b"] || !others["c"] {
		t.Errorf("expected profiles for b and c, got %v", others)
	}
}

func TestNewLikesListsPendingLikers(t *testing.T) {
	store := seedStore(t, testUser("a"), testUser("b"), testUser("c"))
	actions := newActionService(store)
	ctx := context.Background()

	if _, err := actions.Like(ctx, "tok-b", "tok-a"); err != nil {
		t.Fatalf("like: %v", err)
	}
	if _, err := actions.Like(ctx, "tok-c", "tok-a"); err != nil {
		t.Fatalf("like: %v", err)
	}

	svc := &MatchService{Store: store}
	likes, err := svc.NewLikes(ctx, "tok-a")
	if err != nil {
		t.Fatalf("new likes: %v", err)
	}
	if len(likes) != 2 {
		t.Fatalf("expected 2 pending likes, got %d", len(likes))
	}
}
