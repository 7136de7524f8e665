package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"amoria_server/models"
)

func TestGetRecommendations(t *testing.T) {
	env := newTestEnv(t, seedUser("u"), seedUser("liked"), seedUser("stranger"))
	if _, err := env.actions.Like(context.Background(), "tok-u", "tok-liked"); err != nil {
		t.Fatalf("like: %v", err)
	}
	controller := NewRecommendationController(env.recs)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?token=tok-u", nil)
	controller.GetRecommendations(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var recs models.Recommendations
	decodeBody(t, rec, &recs)
	if recs.Total != 1 || recs.Candidates[0].UserID != "stranger" {
		t.Fatalf("expected only the stranger in the feed, got %s", rec.Body.String())
	}
}

func TestGetRecommendationsRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	controller := NewRecommendationController(env.recs)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations", nil)
	controller.GetRecommendations(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestGetRecommendationsUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	controller := NewRecommendationController(env.recs)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/recommendations?token=tok-ghost", nil)
	controller.GetRecommendations(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
