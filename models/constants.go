package models

// Actions accepted by the action endpoint
const (
	ActionLike    = "like"
	ActionDislike = "dislike"
)
