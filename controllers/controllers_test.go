package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"amoria_server/models"
	"amoria_server/services"
)

// testEnv bundles the in-memory store with the services the controllers
// sit on.
type testEnv struct {
	store    *services.MemoryStore
	actions  *services.ActionService
	matches  *services.MatchService
	recs     *services.RecommendationService
	profiles *services.UserProfileService
}

func newTestEnv(t *testing.T, users ...models.User) *testEnv {
	t.Helper()

	store := services.NewMemoryStore()
	for _, user := range users {
		if err := store.PutUser(context.Background(), user); err != nil {
			t.Fatalf("seeding user %s: %v", user.UserID, err)
		}
	}

	matches := &services.MatchService{Store: store}
	actions := &services.ActionService{Store: store, Match: matches}
	return &testEnv{
		store:    store,
		actions:  actions,
		matches:  matches,
		recs:     &services.RecommendationService{Store: store, Actions: actions},
		profiles: &services.UserProfileService{Store: store},
	}
}

func seedUser(id string) models.User {
	return models.User{
		UserID:    id,
		Token:     "tok-" + id,
		Name:      "User " + id,
		NameLower: "user " + id,
		Birthdate: "1994-02-17",
		Gender:    "Woman",
		Sexuality: "Straight",
	}
}

// matchUsers runs the mutual like through the action service and
// returns the formed match id.
func (env *testEnv) matchUsers(t *testing.T, idA, idB string) string {
	t.Helper()

	if _, err := env.actions.Like(context.Background(), "tok-"+idA, "tok-"+idB); err != nil {
		t.Fatalf("like: %v", err)
	}
	outcome, err := env.actions.Like(context.Background(), "tok-"+idB, "tok-"+idA)
	if err != nil {
		t.Fatalf("reciprocal like: %v", err)
	}
	if !outcome.Matched {
		t.Fatalf("expected a match between %s and %s", idA, idB)
	}
	return outcome.Match.Match.MatchID
}

func jsonBody(t *testing.T, payload interface{}) *bytes.Reader {
	t.Helper()

	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshaling request body: %v", err)
	}
	return bytes.NewReader(data)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}
