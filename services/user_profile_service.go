package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"amoria_server/models"

	"github.com/google/uuid"
)

// birthdateLayout is the wire format for birthdates.
const birthdateLayout = "2006-01-02"

// UserProfileService manages profile records: creation, lookups,
// field updates, and the populated profile view.
type UserProfileService struct {
	Store Store
}

// CreateProfileInput carries the client-settable fields of a new
// profile.
type CreateProfileInput struct {
	Name      string                    `json:"name"`
	Bio       string                    `json:"bio"`
	Birthdate string                    `json:"birthdate"`
	Gender    string                    `json:"gender"`
	Sexuality string                    `json:"sexuality"`
	Pictures  []string                  `json:"pictures"`
	Location  *models.Location          `json:"location"`
	Search    *models.SearchPreferences `json:"search"`
}

// UpdateProfileInput carries the updatable fields; pointers distinguish
// absent from zero.
type UpdateProfileInput struct {
	Name      *string                   `json:"name"`
	Bio       *string                   `json:"bio"`
	Birthdate *string                   `json:"birthdate"`
	Gender    *string                   `json:"gender"`
	Sexuality *string                   `json:"sexuality"`
	Pictures  []string                  `json:"pictures"`
	Location  *models.Location          `json:"location"`
	Search    *models.SearchPreferences `json:"search"`
}

// CreateProfile registers a new user, assigning its identity and token.
func (ups *UserProfileService) CreateProfile(ctx context.Context, input CreateProfileInput) (*models.User, error) {
	if input.Name == "" || input.Birthdate == "" || input.Gender == "" || input.Sexuality == "" {
		return nil, fmt.Errorf("name, birthdate, gender and sexuality are required: %w", ErrValidation)
	}
	if _, err := time.Parse(birthdateLayout, input.Birthdate); err != nil {
		return nil, fmt.Errorf("birthdate must be %s: %w", birthdateLayout, ErrValidation)
	}
	if input.Search != nil {
		if err := validateSearch(input.Search); err != nil {
			return nil, err
		}
	}

	user := models.User{
		UserID:    uuid.NewString(),
		Token:     uuid.NewString(),
		Name:      input.Name,
		NameLower: strings.ToLower(input.Name),
		Bio:       input.Bio,
		Birthdate: input.Birthdate,
		Gender:    input.Gender,
		Sexuality: input.Sexuality,
		Pictures:  input.Pictures,
		Location:  input.Location,
		Search:    input.Search,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if err := ups.Store.PutUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile retrieves a user profile by ID
func (ups *UserProfileService) GetProfile(ctx context.Context, userID string) (*models.User, error) {
	return ups.Store.FindUserByID(ctx, userID)
}

// GetProfileByToken retrieves a user profile by its client token
func (ups *UserProfileService) GetProfileByToken(ctx context.Context, token string) (*models.User, error) {
	return ups.Store.FindUserByToken(ctx, token)
}

// GetProfileByName retrieves a user profile by exact name, ignoring case
func (ups *UserProfileService) GetProfileByName(ctx context.Context, name string) (*models.User, error) {
	return ups.Store.FindUserByName(ctx, name)
}

// UpdateProfile applies the provided field updates to an existing
// profile and returns the stored result. Name updates keep the
// lowercased lookup copy in sync.
func (ups *UserProfileService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	updates := map[string]interface{}{}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, fmt.Errorf("name must not be empty: %w", ErrValidation)
		}
		updates["name"] = *input.Name
		updates["nameLower"] = strings.ToLower(*input.Name)
	}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Birthdate != nil {
		if _, err := time.Parse(birthdateLayout, *input.Birthdate); err != nil {
			return nil, fmt.Errorf("birthdate must be %s: %w", birthdateLayout, ErrValidation)
		}
		updates["birthdate"] = *input.Birthdate
	}
	if input.Gender != nil {
		updates["gender"] = *input.Gender
	}
	if input.Sexuality != nil {
		updates["sexuality"] = *input.Sexuality
	}
	if input.Pictures != nil {
		updates["pictures"] = input.Pictures
	}
	if input.Location != nil {
		updates["location"] = input.Location
	}
	if input.Search != nil {
		if err := validateSearch(input.Search); err != nil {
			return nil, err
		}
		updates["search"] = input.Search
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("no updatable fields provided: %w", ErrValidation)
	}
	return ups.Store.UpdateUser(ctx, userID, updates)
}

// DeleteProfile removes a user profile
func (ups *UserProfileService) DeleteProfile(ctx context.Context, userID string) error {
	return ups.Store.DeleteUser(ctx, userID)
}

// ProfileView returns the profile plus display projections of its
// partners and, one level down, each partner's other partners. This is
// a read-side join; it never mutates relationship state.
func (ups *UserProfileService) ProfileView(ctx context.Context, userID string) (*models.ProfileView, error) {
	user, err := ups.Store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &models.ProfileView{User: *user}
	for _, partnerID := range user.MyRelationships {
		partner, err := ups.Store.FindUserByID(ctx, partnerID)
		if err != nil {
			continue // dangling partner reference
		}
		partnerView := models.PartnerView{Profile: partner.Public()}
		for _, nestedID := range partner.MyRelationships {
			if nestedID == user.UserID {
				continue
			}
			nested, err := ups.Store.FindUserByID(ctx, nestedID)
			if err != nil {
				continue
			}
			partnerView.Partners = append(partnerView.Partners, nested.Public())
		}
		view.Partners = append(view.Partners, partnerView)
	}
	return view, nil
}

func validateSearch(search *models.SearchPreferences) error {
	if search.AgeMin <= 0 || search.AgeMax <= 0 || search.AgeMin >= search.AgeMax {
		return fmt.Errorf("age bounds must satisfy 0 < ageMin < ageMax: %w", ErrValidation)
	}
	if search.GenderLiked == "" || search.SexualityLiked == "" {
		return fmt.Errorf("genderLiked and sexualityLiked are required: %w", ErrValidation)
	}
	if search.MaxDistanceKm < 0 {
		return fmt.Errorf("maxDistance must not be negative: %w", ErrValidation)
	}
	return nil
}
