package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"amoria_server/models"
)

// MemoryStore is an in-process Store with the same conditional-write
// semantics as the DynamoDB implementation. It backs the test suite
// and the memory storage backend used for local development.
type MemoryStore struct {
	mu      sync.Mutex
	users   map[string]*models.User
	matches map[string]*models.Match // keyed by pair key
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[string]*models.User),
		matches: make(map[string]*models.Match),
	}
}

func (s *MemoryStore) FindUserByID(ctx context.Context, userID string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", userID, ErrNotFound)
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) FindUserByToken(ctx context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Token == token {
			return cloneUser(user), nil
		}
	}
	return nil, fmt.Errorf("token %s: %w", token, ErrNotFound)
}

func (s *MemoryStore) FindUserByName(ctx context.Context, name string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Name, name) {
			return cloneUser(user), nil
		}
	}
	return nil, fmt.Errorf("name %q: %w", name, ErrNotFound)
}

func (s *MemoryStore) ListUsers(ctx context.Context, excludeAttrs []string) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		projected := cloneUser(user)
		for _, attr := range excludeAttrs {
			clearUserAttribute(projected, attr)
		}
		users = append(users, *projected)
	}
	return users, nil
}

func (s *MemoryStore) PutUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users[user.UserID] = cloneUser(&user)
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, userID string, updates map[string]interface{}) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %s not modified: %w", userID, ErrStorageFailure)
	}

	for field, value := range updates {
		switch field {
		case "name":
			user.Name = value.(string)
		case "nameLower":
			user.NameLower = value.(string)
		case "bio":
			user.Bio = value.(string)
		case "birthdate":
			user.Birthdate = value.(string)
		case "gender":
			user.Gender = value.(string)
		case "sexuality":
			user.Sexuality = value.(string)
		case "pictures":
			user.Pictures = copyStrings(value.([]string))
		case "location":
			location := *value.(*models.Location)
			user.Location = &location
		case "search":
			search := *value.(*models.SearchPreferences)
			user.Search = &search
		default:
			return nil, fmt.Errorf("unsupported update field %q", field)
		}
	}
	return cloneUser(user), nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.users, userID)
	return nil
}

func (s *MemoryStore) AddLike(ctx context.Context, actorID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.users[actorID]
	if !ok {
		return fmt.Errorf("like %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
	}
	target, ok := s.users[targetID]
	if !ok {
		return fmt.Errorf("like %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
	}
	if _, matched := s.matches[models.PairKeyFor(actorID, targetID)]; matched {
		return fmt.Errorf("like %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
	}
	// A reciprocal like that landed first must become a match, not be
	// overwritten by this edge.
	if target.Likes(actorID) {
		return fmt.Errorf("like %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
	}

	actor.MyLikes = addToSet(actor.MyLikes, targetID)
	target.WhoLikesMe = addToSet(target.WhoLikesMe, actorID)
	return nil
}

func (s *MemoryStore) AddDislike(ctx context.Context, actorID, targetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	actor, ok := s.users[actorID]
	if !ok {
		return fmt.Errorf("dislike %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
	}
	target, ok := s.users[targetID]
	if !ok {
		return fmt.Errorf("dislike %s -> %s not applied: %w", actorID, targetID, ErrStorageFailure)
	}

	actor.MyDislikes = addToSet(actor.MyDislikes, targetID)
	actor.MyLikes = removeFromSet(actor.MyLikes, targetID)
	target.WhoLikesMe = removeFromSet(target.WhoLikesMe, actorID)
	return nil
}

func (s *MemoryStore) FindMatchByID(ctx context.Context, matchID string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, match := range s.matches {
		if match.MatchID == matchID {
			return cloneMatch(match), nil
		}
	}
	return nil, fmt.Errorf("match %s: %w", matchID, ErrNotFound)
}

func (s *MemoryStore) FindMatchByPair(ctx context.Context, userA, userB string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pairKey := models.PairKeyFor(userA, userB)
	match, ok := s.matches[pairKey]
	if !ok {
		return nil, fmt.Errorf("pair %s: %w", pairKey, ErrNotFound)
	}
	return cloneMatch(match), nil
}

func (s *MemoryStore) FindMatchesInvolving(ctx context.Context, userID string) ([]models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matches []models.Match
	for _, match := range s.matches {
		if match.Involves(userID) {
			matches = append(matches, *cloneMatch(match))
		}
	}
	return matches, nil
}

func (s *MemoryStore) CreateMatch(ctx context.Context, match models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.matches[match.PairKey]; exists {
		return fmt.Errorf("match for %s not created: %w", match.PairKey, ErrStorageFailure)
	}
	initiator, ok := s.users[match.Initiator]
	if !ok {
		return fmt.Errorf("match for %s not created: %w", match.PairKey, ErrStorageFailure)
	}
	other, ok := s.users[match.InitiatedOn]
	if !ok {
		return fmt.Errorf("match for %s not created: %w", match.PairKey, ErrStorageFailure)
	}
	// The closing like must still be pending.
	if !other.Likes(match.Initiator) {
		return fmt.Errorf("match for %s not created: %w", match.PairKey, ErrStorageFailure)
	}

	initiator.MyLikes = removeFromSet(initiator.MyLikes, match.InitiatedOn)
	initiator.WhoLikesMe = removeFromSet(initiator.WhoLikesMe, match.InitiatedOn)
	other.MyLikes = removeFromSet(other.MyLikes, match.Initiator)
	other.WhoLikesMe = removeFromSet(other.WhoLikesMe, match.Initiator)
	s.matches[match.PairKey] = cloneMatch(&match)
	return nil
}

func (s *MemoryStore) DeleteMatch(ctx context.Context, match models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.matches[match.PairKey]
	if !ok || stored.MatchID != match.MatchID {
		return fmt.Errorf("match %s not deleted: %w", match.MatchID, ErrStorageFailure)
	}
	initiator, ok := s.users[match.Initiator]
	if !ok {
		return fmt.Errorf("match %s not deleted: %w", match.MatchID, ErrStorageFailure)
	}
	other, ok := s.users[match.InitiatedOn]
	if !ok {
		return fmt.Errorf("match %s not deleted: %w", match.MatchID, ErrStorageFailure)
	}

	delete(s.matches, match.PairKey)
	initiator.MyLikes = removeFromSet(initiator.MyLikes, match.InitiatedOn)
	initiator.WhoLikesMe = removeFromSet(initiator.WhoLikesMe, match.InitiatedOn)
	other.MyLikes = removeFromSet(other.MyLikes, match.Initiator)
	other.WhoLikesMe = removeFromSet(other.WhoLikesMe, match.Initiator)
	return nil
}

func (s *MemoryStore) AppendMessage(ctx context.Context, match models.Match, message models.Message) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.matches[match.PairKey]
	if !ok || stored.MatchID != match.MatchID {
		return nil, fmt.Errorf("match %s gone, message not appended: %w", match.MatchID, ErrStorageFailure)
	}

	stored.Messages = append(stored.Messages, message)
	return cloneMatch(stored), nil
}

func clearUserAttribute(user *models.User, attr string) {
	switch attr {
	case "token":
		user.Token = ""
	case "name":
		user.Name = ""
	case "nameLower":
		user.NameLower = ""
	case "bio":
		user.Bio = ""
	case "birthdate":
		user.Birthdate = ""
	case "gender":
		user.Gender = ""
	case "sexuality":
		user.Sexuality = ""
	case "pictures":
		user.Pictures = nil
	case "location":
		user.Location = nil
	case "search":
		user.Search = nil
	case "myLikes":
		user.MyLikes = nil
	case "whoLikesMe":
		user.WhoLikesMe = nil
	case "myDislikes":
		user.MyDislikes = nil
	case "myRelationships":
		user.MyRelationships = nil
	case "createdAt":
		user.CreatedAt = ""
	}
}

func cloneUser(user *models.User) *models.User {
	clone := *user
	clone.Pictures = copyStrings(user.Pictures)
	clone.MyLikes = copyStrings(user.MyLikes)
	clone.WhoLikesMe = copyStrings(user.WhoLikesMe)
	clone.MyDislikes = copyStrings(user.MyDislikes)
	clone.MyRelationships = copyStrings(user.MyRelationships)
	if user.Location != nil {
		location := *user.Location
		clone.Location = &location
	}
	if user.Search != nil {
		search := *user.Search
		clone.Search = &search
	}
	return &clone
}

func cloneMatch(match *models.Match) *models.Match {
	clone := *match
	if match.Messages != nil {
		clone.Messages = make([]models.Message, len(match.Messages))
		copy(clone.Messages, match.Messages)
	}
	return &clone
}

func copyStrings(values []string) []string {
	if values == nil {
		return nil
	}
	copied := make([]string, len(values))
	copy(copied, values)
	return copied
}

func addToSet(set []string, value string) []string {
	for _, member := range set {
		if member == value {
			return set
		}
	}
	return append(set, value)
}

func removeFromSet(set []string, value string) []string {
	for i, member := range set {
		if member == value {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}
