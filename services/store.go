package services

import (
	"context"

	"amoria_server/models"
)

// Store is the persistence boundary for profiles and matches. Both
// implementations (DynamoDB and in-memory) give every multi-item
// mutation all-or-nothing semantics: the stated conditions are checked
// atomically with the writes, and a rejected condition surfaces as
// ErrStorageFailure with nothing applied.
type Store interface {
	// Profile lookups. A missing record is ErrNotFound.
	FindUserByID(ctx context.Context, userID string) (*models.User, error)
	FindUserByToken(ctx context.Context, token string) (*models.User, error)
	// FindUserByName matches the full name exactly, ignoring case.
	FindUserByName(ctx context.Context, name string) (*models.User, error)
	// ListUsers returns every profile with the named top-level
	// attributes left out of the result.
	ListUsers(ctx context.Context, excludeAttrs []string) ([]models.User, error)

	// Profile writes. UpdateUser must modify exactly one existing
	// record; a missing profile is ErrStorageFailure.
	PutUser(ctx context.Context, user models.User) error
	UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) (*models.User, error)
	DeleteUser(ctx context.Context, userID string) error

	// AddLike records actor -> target on both mirror halves
	// (actor.myLikes, target.whoLikesMe). The write is fenced: if a
	// match exists for the pair, or the target already likes the actor
	// (a reciprocal like won a race), nothing is written.
	AddLike(ctx context.Context, actorID, targetID string) error
	// AddDislike adds target to the actor's dislike set and withdraws
	// the actor's like edge toward the target, both halves, in one
	// step. Idempotent.
	AddDislike(ctx context.Context, actorID, targetID string) error

	// Match lookups. A missing record is ErrNotFound.
	FindMatchByID(ctx context.Context, matchID string) (*models.Match, error)
	FindMatchByPair(ctx context.Context, userA, userB string) (*models.Match, error)
	FindMatchesInvolving(ctx context.Context, userID string) ([]models.Match, error)

	// CreateMatch inserts the match and consumes the mutual like edges
	// on both users as one unit. It fails without effect if a match for
	// the pair already exists or the closing like is no longer pending.
	CreateMatch(ctx context.Context, match models.Match) error
	// DeleteMatch removes the match item, conditional on its matchId
	// being unchanged, and clears residual like edges between the two
	// participants.
	DeleteMatch(ctx context.Context, match models.Match) error
	// AppendMessage appends one message to the match's log, conditional
	// on the match still existing, and returns the saved match.
	AppendMessage(ctx context.Context, match models.Match, message models.Message) (*models.Match, error)
}
