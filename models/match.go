package models

import "strings"

// Match is the persistent record of a matched pair. The partition key
// is the pair key, so "at most one match per pair" is a key constraint
// enforced by a conditional put rather than a read-then-write check.
type Match struct {
	PairKey     string    `dynamodbav:"pairKey" json:"-"`               // Partition key, see PairKeyFor
	MatchID     string    `dynamodbav:"matchId" json:"matchId"`         // Indexed via matchId-index GSI
	Initiator   string    `dynamodbav:"initiator" json:"initiator"`     // Sent the like that completed the pair
	InitiatedOn string    `dynamodbav:"initiatedOn" json:"initiatedOn"` // Held the pending like
	Messages    []Message `dynamodbav:"messages,omitempty" json:"messages,omitempty"`
	CreatedAt   string    `dynamodbav:"createdAt" json:"createdAt"`
}

// Message is one chat entry, embedded in its match item. The log lives
// and dies with the match.
type Message struct {
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	SenderID  string `dynamodbav:"senderId" json:"senderId"`
	Content   string `dynamodbav:"content" json:"content"`
	CreatedAt string `dynamodbav:"createdAt" json:"createdAt"`
}

// PairKeyFor returns the canonical key for an unordered user pair.
func PairKeyFor(userA, userB string) string {
	if userB < userA {
		userA, userB = userB, userA
	}
	return userA + "#" + userB
}

// Users returns both participant ids in pair-key order.
func (m *Match) Users() []string {
	return strings.SplitN(m.PairKey, "#", 2)
}

// Involves reports whether userID is one of the two participants.
func (m *Match) Involves(userID string) bool {
	return m.Initiator == userID || m.InitiatedOn == userID
}

// OtherUser returns the participant that is not userID.
func (m *Match) OtherUser(userID string) string {
	if m.Initiator == userID {
		return m.InitiatedOn
	}
	return m.Initiator
}

// MatchesTable is the DynamoDB table name for matches
const MatchesTable = "Matches"

// MatchIDIndex is the GSI resolving a matchId to its pair item
const MatchIDIndex = "matchId-index"
