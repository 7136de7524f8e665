package models

// User defines the structure for user profiles. The four relationship
// sets are stored as DynamoDB string sets so membership changes are
// atomic and idempotent, and so `whoLikesMe` stays an exact mirror of
// the other side's `myLikes`.
type User struct {
	UserID          string             `dynamodbav:"userId" json:"userId"`                                       // Partition key
	Token           string             `dynamodbav:"token,omitempty" json:"token,omitempty"`                     // Indexed via token-index GSI
	Name            string             `dynamodbav:"name,omitempty" json:"name,omitempty"`                       // Full display name
	NameLower       string             `dynamodbav:"nameLower,omitempty" json:"-"`                               // Lowercased name, indexed via nameLower-index GSI
	Bio             string             `dynamodbav:"bio,omitempty" json:"bio,omitempty"`                         // Short biography
	Birthdate       string             `dynamodbav:"birthdate,omitempty" json:"birthdate,omitempty"`             // ISO date, e.g. 1994-02-17
	Gender          string             `dynamodbav:"gender,omitempty" json:"gender,omitempty"`                   // Gender
	Sexuality       string             `dynamodbav:"sexuality,omitempty" json:"sexuality,omitempty"`             // Sexuality
	Pictures        []string           `dynamodbav:"pictures,omitempty" json:"pictures,omitempty"`               // Picture URLs
	Location        *Location          `dynamodbav:"location,omitempty" json:"location,omitempty"`               // Last known position
	Search          *SearchPreferences `dynamodbav:"search,omitempty" json:"search,omitempty"`                   // Optional candidate filter
	MyLikes         []string           `dynamodbav:"myLikes,stringset,omitempty" json:"myLikes,omitempty"`       // Users this user liked, pending a match
	WhoLikesMe      []string           `dynamodbav:"whoLikesMe,stringset,omitempty" json:"whoLikesMe,omitempty"` // Users with a pending like on this user
	MyDislikes      []string           `dynamodbav:"myDislikes,stringset,omitempty" json:"myDislikes,omitempty"` // Users this user dismissed
	MyRelationships []string           `dynamodbav:"myRelationships,stringset,omitempty" json:"myRelationships,omitempty"`
	CreatedAt       string             `dynamodbav:"createdAt,omitempty" json:"createdAt,omitempty"`
}

// Location is a point on the globe in decimal degrees.
type Location struct {
	Latitude  float64 `dynamodbav:"latitude" json:"latitude"`
	Longitude float64 `dynamodbav:"longitude" json:"longitude"`
}

// SearchPreferences is the candidate filter a user may configure. Age
// bounds are exclusive on both ends; MaxDistanceKm <= 0 means no
// distance limit.
type SearchPreferences struct {
	MaxDistanceKm  float64 `dynamodbav:"maxDistance,omitempty" json:"maxDistance,omitempty"`
	AgeMin         int     `dynamodbav:"ageMin" json:"ageMin"`
	AgeMax         int     `dynamodbav:"ageMax" json:"ageMax"`
	GenderLiked    string  `dynamodbav:"genderLiked" json:"genderLiked"`
	SexualityLiked string  `dynamodbav:"sexualityLiked" json:"sexualityLiked"`
}

// Likes reports whether the user has a pending like on userID.
func (u *User) Likes(userID string) bool {
	for _, id := range u.MyLikes {
		if id == userID {
			return true
		}
	}
	return false
}

// Public returns the display-safe projection shown to other users.
func (u *User) Public() PublicProfile {
	return PublicProfile{
		UserID:   u.UserID,
		Name:     u.Name,
		Pictures: u.Pictures,
		Token:    u.Token,
	}
}

// UsersTable is the DynamoDB table name for user profiles
const UsersTable = "Users"

// GSI names on the Users table
const (
	TokenIndex     = "token-index"
	NameLowerIndex = "nameLower-index"
)
