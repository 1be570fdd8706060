package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"caseboard/api/internal/config"
	"caseboard/api/internal/models"
)

type fakeActivityStore struct {
	inserted []models.Activity
	err      error
}

func (f *fakeActivityStore) Insert(_ context.Context, activity models.Activity) error {
	if f.err != nil {
		return f.err
	}
	f.inserted = append(f.inserted, activity)
	return nil
}

func (f *fakeActivityStore) ListByCard(_ context.Context, _ string, _, _ int) ([]models.Activity, error) {
	return f.inserted, nil
}

func newTestActivityService(store *fakeActivityStore) *ActivityService {
	return NewActivityService(store, nil, nil, &config.AppConfig{}, zerolog.Nop())
}

func TestRecordLinksCardAndList(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newTestActivityService(store)
	actor := models.User{ID: "u1", FirstName: "Ada", LastName: "Lovelace"}

	cardID, listID := "c1", "l1"
	svc.Record(context.Background(), actor, &cardID, &listID, "deleted card", "INV250001")

	if len(store.inserted) != 1 {
		t.Fatalf("inserted %d rows, want 1", len(store.inserted))
	}
	row := store.inserted[0]
	if row.CardID == nil || *row.CardID != "c1" {
		t.Error("activity row should link the card id")
	}
	if row.ListID == nil || *row.ListID != "l1" {
		t.Error("activity row should link the list id")
	}
	if row.UserName != "Ada Lovelace" {
		t.Errorf("UserName = %q, want denormalized full name", row.UserName)
	}
	if row.Action != "deleted card" || row.Details != "INV250001" {
		t.Errorf("action/details = %q/%q", row.Action, row.Details)
	}
}

func TestRecordIsBestEffort(t *testing.T) {
	store := &fakeActivityStore{err: errors.New("db down")}
	svc := newTestActivityService(store)

	cardID := "c1"
	// Must neither panic nor surface the error.
	svc.Record(context.Background(), models.User{ID: "u1"}, &cardID, nil, "updated card", "")

	if len(store.inserted) != 0 {
		t.Error("failed insert should store nothing")
	}
}

func TestCommentWithoutAttachment(t *testing.T) {
	store := &fakeActivityStore{}
	svc := newTestActivityService(store)
	actor := models.User{ID: "u1", FirstName: "Ada"}
	card := models.BoardCard{ID: "c1", BoardListID: "l1"}

	activity, err := svc.Comment(context.Background(), actor, card, "looks ready", nil, nil)
	if err != nil {
		t.Fatalf("Comment: %v", err)
	}
	if activity.Action != "commented" || activity.Details != "looks ready" {
		t.Errorf("action/details = %q/%q", activity.Action, activity.Details)
	}
	if activity.CardID == nil || *activity.CardID != card.ID {
		t.Error("comment should link the card id")
	}
	if activity.AttachmentKey != nil {
		t.Error("no attachment key expected without a file")
	}
}

func TestCommentSurfacesInsertFailure(t *testing.T) {
	store := &fakeActivityStore{err: errors.New("db down")}
	svc := newTestActivityService(store)

	_, err := svc.Comment(context.Background(), models.User{ID: "u1"}, models.BoardCard{ID: "c1"}, "hi", nil, nil)
	if err == nil {
		t.Error("comment insert failure should surface, unlike Record")
	}
}
