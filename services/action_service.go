package services

import (
	"context"
	"errors"
	"fmt"

	"amoria_server/models"
)

// ActionService owns the like/dislike relationship graph: it records
// directional signals with mutual-match detection and answers the
// exclusion queries the recommendation feed is built on.
type ActionService struct {
	Store Store
	Match *MatchService
}

// ProcessAction dispatches "like" and "dislike" actions between two users.
func (as *ActionService) ProcessAction(ctx context.Context, actorToken, targetToken, action string) (*models.LikeOutcome, error) {
	switch action {
	case models.ActionLike:
		return as.Like(ctx, actorToken, targetToken)
	case models.ActionDislike:
		if err := as.Dislike(ctx, actorToken, targetToken); err != nil {
			return nil, err
		}
		return &models.LikeOutcome{}, nil
	default:
		return nil, fmt.Errorf("unknown action %q: %w", action, ErrValidation)
	}
}

// Like records a like from actor to target. When the target already
// has a pending like on the actor the pair is promoted to a match and
// the outcome carries both projections; otherwise the edge is recorded
// on both mirror halves. Repeating a like changes nothing.
func (as *ActionService) Like(ctx context.Context, actorToken, targetToken string) (*models.LikeOutcome, error) {
	actor, target, err := as.resolvePair(ctx, actorToken, targetToken)
	if err != nil {
		return nil, err
	}

	if _, err := as.Store.FindMatchByPair(ctx, actor.UserID, target.UserID); err == nil {
		return nil, fmt.Errorf("%s and %s are already matched: %w", actor.UserID, target.UserID, ErrAlreadyExists)
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	if target.Likes(actor.UserID) {
		result, err := as.Match.FormMatch(ctx, actor, target)
		if err != nil {
			return nil, err
		}
		return &models.LikeOutcome{Matched: true, Match: result}, nil
	}

	if actor.Likes(target.UserID) {
		// Already recorded, nothing to change.
		return &models.LikeOutcome{}, nil
	}

	if err := as.Store.AddLike(ctx, actor.UserID, target.UserID); err != nil {
		return nil, err
	}
	return &models.LikeOutcome{}, nil
}

// Dislike adds target to the actor's dislike set and withdraws any
// pending like the actor had on the target, so the target no longer
// sees it. The target's own signals are untouched: a dislike neither
// clears an incoming like nor blocks the actor from liking later.
func (as *ActionService) Dislike(ctx context.Context, actorToken, targetToken string) error {
	actor, target, err := as.resolvePair(ctx, actorToken, targetToken)
	if err != nil {
		return err
	}
	return as.Store.AddDislike(ctx, actor.UserID, target.UserID)
}

// ExclusionSet returns every user id the feed must not show: the user
// themselves, everyone they liked or disliked, and everyone they are
// matched with.
func (as *ActionService) ExclusionSet(ctx context.Context, user *models.User) (map[string]struct{}, error) {
	excluded := map[string]struct{}{user.UserID: {}}
	for _, id := range user.MyLikes {
		excluded[id] = struct{}{}
	}
	for _, id := range user.MyDislikes {
		excluded[id] = struct{}{}
	}

	matches, err := as.Store.FindMatchesInvolving(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	for _, match := range matches {
		excluded[match.OtherUser(user.UserID)] = struct{}{}
	}
	return excluded, nil
}

// IsExcluded reports whether candidateID is hidden from user's feed.
func (as *ActionService) IsExcluded(ctx context.Context, user *models.User, candidateID string) (bool, error) {
	excluded, err := as.ExclusionSet(ctx, user)
	if err != nil {
		return false, err
	}
	_, hidden := excluded[candidateID]
	return hidden, nil
}

func (as *ActionService) resolvePair(ctx context.Context, actorToken, targetToken string) (*models.User, *models.User, error) {
	actor, err := as.Store.FindUserByToken(ctx, actorToken)
	if err != nil {
		return nil, nil, err
	}
	target, err := as.Store.FindUserByToken(ctx, targetToken)
	if err != nil {
		return nil, nil, err
	}
	if actor.UserID == target.UserID {
		return nil, nil, fmt.Errorf("%s: %w", actor.UserID, ErrSelfReference)
	}
	return actor, target, nil
}
