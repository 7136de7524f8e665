package services

import (
	"context"
	"fmt"
	"time"

	"amoria_server/models"

	"github.com/google/uuid"
)

// MatchService forms and dissolves matches and owns their message
// logs. Now may be set for tests; nil means wall-clock time.
type MatchService struct {
	Store Store
	Now   func() time.Time
}

func (ms *MatchService) now() time.Time {
	if ms.Now != nil {
		return ms.Now()
	}
	return time.Now().UTC()
}

// FormMatch promotes a mutual like into a match. Initiator is the user
// whose like completed the pair, onUser the one whose like was pending.
// The store call clears both users' like edges and inserts the match
// as one unit; losing a race (pair already matched, or the closing
// like consumed elsewhere) reports ErrStorageFailure with nothing
// written.
func (ms *MatchService) FormMatch(ctx context.Context, initiator, onUser *models.User) (*models.MatchResult, error) {
	match := models.Match{
		PairKey:     models.PairKeyFor(initiator.UserID, onUser.UserID),
		MatchID:     uuid.NewString(),
		Initiator:   initiator.UserID,
		InitiatedOn: onUser.UserID,
		CreatedAt:   ms.now().Format(time.RFC3339),
	}
	if err := ms.Store.CreateMatch(ctx, match); err != nil {
		return nil, err
	}

	return &models.MatchResult{
		Match: match,
		Users: []models.PublicProfile{initiator.Public(), onUser.Public()},
	}, nil
}

// Dismatch dissolves a match at the request of one participant. The
// match record, its message log, and any residual like edges between
// the pair go away together or not at all.
func (ms *MatchService) Dismatch(ctx context.Context, actorToken, otherToken, matchID string) error {
	actor, err := ms.Store.FindUserByToken(ctx, actorToken)
	if err != nil {
		return err
	}
	other, err := ms.Store.FindUserByToken(ctx, otherToken)
	if err != nil {
		return err
	}
	if actor.UserID == other.UserID {
		return fmt.Errorf("%s: %w", actor.UserID, ErrSelfReference)
	}

	match, err := ms.Store.FindMatchByID(ctx, matchID)
	if err != nil {
		return err
	}
	if match.PairKey != models.PairKeyFor(actor.UserID, other.UserID) {
		return fmt.Errorf("match %s does not pair %s with %s: %w", matchID, actor.UserID, other.UserID, ErrInvalidState)
	}

	return ms.Store.DeleteMatch(ctx, *match)
}

// AppendMessage appends one message to a match's log. The append is
// conditional on the match still existing, so one racing a dismatch
// fails instead of resurrecting the log. Messages are stored in
// arrival order, never reordered or deduplicated.
func (ms *MatchService) AppendMessage(ctx context.Context, matchID, senderID, content string, sentAt time.Time) (*models.Match, error) {
	if content == "" {
		return nil, fmt.Errorf("message content is required: %w", ErrValidation)
	}

	match, err := ms.Store.FindMatchByID(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if !match.Involves(senderID) {
		return nil, fmt.Errorf("sender %s is not part of match %s: %w", senderID, matchID, ErrInvalidState)
	}

	if sentAt.IsZero() {
		sentAt = ms.now()
	}
	message := models.Message{
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Content:   content,
		CreatedAt: sentAt.Format(time.RFC3339),
	}
	return ms.Store.AppendMessage(ctx, *match, message)
}

// CurrentMatches returns the user's matches, each enriched with the
// other participant's public profile.
func (ms *MatchService) CurrentMatches(ctx context.Context, token string) ([]models.MatchWithProfile, error) {
	user, err := ms.Store.FindUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	matches, err := ms.Store.FindMatchesInvolving(ctx, user.UserID)
	if err != nil {
		return nil, err
	}

	enriched := make([]models.MatchWithProfile, 0, len(matches))
	for _, match := range matches {
		other, err := ms.Store.FindUserByID(ctx, match.OtherUser(user.UserID))
		if err != nil {
			continue // dangling participant, skip
		}
		enriched = append(enriched, models.MatchWithProfile{Match: match, Profile: other.Public()})
	}
	return enriched, nil
}

// NewLikes returns the public profiles of everyone with a pending like
// on the user.
func (ms *MatchService) NewLikes(ctx context.Context, token string) ([]models.PublicProfile, error) {
	user, err := ms.Store.FindUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	profiles := make([]models.PublicProfile, 0, len(user.WhoLikesMe))
	for _, likerID := range user.WhoLikesMe {
		liker, err := ms.Store.FindUserByID(ctx, likerID)
		if err != nil {
			continue
		}
		profiles = append(profiles, liker.Public())
	}
	return profiles, nil
}
