package handlers

import (
	"encoding/json"
	"testing"
)

func TestMoveCardRequestKeepsExplicitZeroPosition(t *testing.T) {
	var req moveCardRequest
	if err := json.Unmarshal([]byte(`{"card_id":"c1","to_list_id":"l1","position":0}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Position == nil || *req.Position != 0 {
		t.Error("explicit position 0 should survive binding, not read as unset")
	}

	var omitted moveCardRequest
	if err := json.Unmarshal([]byte(`{"card_id":"c1","to_list_id":"l1"}`), &omitted); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if omitted.Position != nil {
		t.Error("omitted position should stay nil so the service appends")
	}
}

func TestCreateCardRequestKeepsExplicitZeroPosition(t *testing.T) {
	var req createCardRequest
	if err := json.Unmarshal([]byte(`{"firstName":"A","lastName":"B","position":0}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.Position == nil || *req.Position != 0 {
		t.Error("explicit position 0 should survive binding, not read as unset")
	}
}
