package services

import (
	"context"
	"time"

	"amoria_server/models"
	"amoria_server/utils"
)

// feedProjection names the attributes candidate loading leaves out:
// signal sets and preference internals are never shown to other users.
var feedProjection = []string{
	"myLikes", "whoLikesMe", "myDislikes", "myRelationships", "search", "nameLower",
}

// RecommendationService computes the candidate feed for a user by
// narrowing the whole population through exclusion, preference,
// distance, age, and attribute stages, in that order. Every stage only
// removes candidates. Now may be set for tests; nil means wall-clock
// time.
type RecommendationService struct {
	Store   Store
	Actions *ActionService
	Now     func() time.Time
}

func (rs *RecommendationService) now() time.Time {
	if rs.Now != nil {
		return rs.Now()
	}
	return time.Now().UTC()
}

// Recommend returns the feed for the user holding token. Users without
// a search preference get the exclusion-filtered population as is. No
// ordering is imposed on the result.
func (rs *RecommendationService) Recommend(ctx context.Context, token string) (*models.Recommendations, error) {
	user, err := rs.Store.FindUserByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	excluded, err := rs.Actions.ExclusionSet(ctx, user)
	if err != nil {
		return nil, err
	}

	population, err := rs.Store.ListUsers(ctx, feedProjection)
	if err != nil {
		return nil, err
	}

	candidates := filterExcluded(population, excluded)
	if user.Search != nil {
		candidates = rs.filterByDistance(user, candidates)
		candidates = rs.filterByAge(user.Search, candidates)
		candidates = filterByAttributes(user.Search, candidates)
	}

	return &models.Recommendations{Candidates: candidates, Total: len(candidates)}, nil
}

// filterExcluded drops the requester and everyone they already have a
// signal or match with.
func filterExcluded(population []models.User, excluded map[string]struct{}) []models.User {
	kept := make([]models.User, 0, len(population))
	for _, candidate := range population {
		if _, hidden := excluded[candidate.UserID]; hidden {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// filterByDistance keeps candidates strictly inside the configured
// radius. A requester without a location skips the stage entirely; a
// candidate without one cannot qualify while it runs.
func (rs *RecommendationService) filterByDistance(user *models.User, candidates []models.User) []models.User {
	if user.Search.MaxDistanceKm <= 0 || user.Location == nil {
		return candidates
	}

	kept := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Location == nil {
			continue
		}
		km := utils.DistanceKm(user.Location.Latitude, user.Location.Longitude,
			candidate.Location.Latitude, candidate.Location.Longitude)
		if km < user.Search.MaxDistanceKm {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// filterByAge keeps candidates strictly between the configured bounds,
// in whole years at the time of the request. Both bounds are
// exclusive, and a candidate without a parseable birthdate cannot
// qualify.
func (rs *RecommendationService) filterByAge(search *models.SearchPreferences, candidates []models.User) []models.User {
	now := rs.now()
	kept := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		birthdate, err := time.Parse("2006-01-02", candidate.Birthdate)
		if err != nil {
			continue
		}
		age := utils.Age(birthdate, now)
		if age > search.AgeMin && age < search.AgeMax {
			kept = append(kept, candidate)
		}
	}
	return kept
}

// filterByAttributes keeps candidates whose gender and sexuality equal
// the liked values exactly.
func filterByAttributes(search *models.SearchPreferences, candidates []models.User) []models.User {
	kept := make([]models.User, 0, len(candidates))
	for _, candidate := range candidates {
		if candidate.Gender == search.GenderLiked && candidate.Sexuality == search.SexualityLiked {
			kept = append(kept, candidate)
		}
	}
	return kept
}
