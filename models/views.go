package models

// PublicProfile is the display-safe projection of a user exposed to
// other users, e.g. on match formation and in match lists.
type PublicProfile struct {
	UserID   string   `json:"userId"`
	Name     string   `json:"name"`
	Pictures []string `json:"pictures,omitempty"`
	Token    string   `json:"token,omitempty"`
}

// MatchResult is returned when a match forms: the match record plus
// both participants' projections for immediate client consumption.
type MatchResult struct {
	Match Match           `json:"match"`
	Users []PublicProfile `json:"users"`
}

// LikeOutcome is the tagged result of a like action: either the signal
// was recorded, or it completed a pair and Match carries the result.
type LikeOutcome struct {
	Matched bool         `json:"matched"`
	Match   *MatchResult `json:"match,omitempty"`
}

// MatchWithProfile pairs a match with the other participant's
// projection for list views.
type MatchWithProfile struct {
	Match   Match         `json:"match"`
	Profile PublicProfile `json:"profile"`
}

// PartnerView is a partner's projection plus their own partners,
// populated for profile display.
type PartnerView struct {
	Profile  PublicProfile   `json:"profile"`
	Partners []PublicProfile `json:"partners,omitempty"`
}

// ProfileView is a full profile plus its populated partner views.
type ProfileView struct {
	User     User          `json:"user"`
	Partners []PartnerView `json:"partners,omitempty"`
}

// Recommendations is the candidate feed computed for a user.
type Recommendations struct {
	Candidates []User `json:"candidates"`
	Total      int    `json:"total"`
}
