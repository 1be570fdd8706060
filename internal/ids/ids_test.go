package ids

import "testing"

func TestNew(t *testing.T) {
	a := New()
	b := New()

	if a == "" {
		t.Fatal("empty id")
	}
	if len(a) != 27 {
		t.Errorf("ksuid length = %d, want 27", len(a))
	}
	if a == b {
		t.Error("consecutive ids should differ")
	}
}
