package service

import (
	"errors"
	"testing"

	"caseboard/api/internal/models"
)

func TestFormatInvoice(t *testing.T) {
	cases := []struct {
		year int
		seq  int
		want string
	}{
		{2025, 1, "INV250001"},
		{2025, 42, "INV250042"},
		{2026, 9999, "INV269999"},
		{2026, 10000, "INV2610000"}, // padding widens past 9999, never truncates
		{2030, 7, "INV300007"},
	}
	for _, tc := range cases {
		if got := FormatInvoice(tc.year, tc.seq); got != tc.want {
			t.Errorf("FormatInvoice(%d, %d) = %q, want %q", tc.year, tc.seq, got, tc.want)
		}
	}
}

func TestValidatePaymentGate(t *testing.T) {
	cases := []struct {
		name string
		card models.BoardCard
		dst  models.BoardList
		want error
	}{
		{
			name: "unpaid visa move rejected",
			card: models.BoardCard{},
			dst:  models.BoardList{ID: "l2", BoardID: "b1", Category: models.CategoryVisa},
			want: ErrPaymentRequired,
		},
		{
			name: "paid visa move allowed",
			card: models.BoardCard{PaymentDone: true},
			dst:  models.BoardList{ID: "l2", BoardID: "b1", Category: models.CategoryVisa},
			want: nil,
		},
		{
			name: "unpaid dependant visa move rejected",
			card: models.BoardCard{PaymentDone: true},
			dst:  models.BoardList{ID: "l3", BoardID: "b1", Category: models.CategoryDependantVisa},
			want: ErrDependantPaymentRequired,
		},
		{
			name: "paid dependant visa move allowed",
			card: models.BoardCard{DependantPaymentDone: true},
			dst:  models.BoardList{ID: "l3", BoardID: "b1", Category: models.CategoryDependantVisa},
			want: nil,
		},
		{
			name: "admission move needs no payment",
			card: models.BoardCard{},
			dst:  models.BoardList{ID: "l4", BoardID: "b1", Category: models.CategoryAdmission},
			want: nil,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validatePaymentGate(tc.card, tc.dst)
			if !errors.Is(err, tc.want) {
				t.Errorf("validatePaymentGate() = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMoveGateOrdering(t *testing.T) {
	src := models.BoardList{ID: "l1", BoardID: "b1", Category: models.CategoryAdmission}
	visaDst := models.BoardList{ID: "l2", BoardID: "b1", Category: models.CategoryVisa}
	unpaid := models.BoardCard{ID: "c1"}

	allow := func() (bool, error) { return true, nil }
	deny := func() (bool, error) { return false, nil }

	// Cross-board rejection happens before the access check is even asked.
	err := moveGate(unpaid, src, models.BoardList{ID: "l9", BoardID: "b2"}, func() (bool, error) {
		t.Fatal("access checked before cross-board rejection")
		return false, nil
	})
	if !errors.Is(err, ErrCrossBoardMove) {
		t.Errorf("cross-board move = %v, want ErrCrossBoardMove", err)
	}

	// A caller without board access gets a denial, not a payment hint.
	if err := moveGate(unpaid, src, visaDst, deny); !errors.Is(err, ErrForbidden) {
		t.Errorf("denied caller = %v, want ErrForbidden", err)
	}

	// With access, the payment gate fires.
	if err := moveGate(unpaid, src, visaDst, allow); !errors.Is(err, ErrPaymentRequired) {
		t.Errorf("allowed caller, unpaid visa = %v, want ErrPaymentRequired", err)
	}

	// Access-check failures propagate as-is.
	checkErr := errors.New("grant lookup failed")
	if err := moveGate(unpaid, src, visaDst, func() (bool, error) { return false, checkErr }); !errors.Is(err, checkErr) {
		t.Errorf("access error = %v, want %v", err, checkErr)
	}

	// Fully allowed admission move passes.
	dst := models.BoardList{ID: "l3", BoardID: "b1", Category: models.CategoryAdmission}
	if err := moveGate(unpaid, src, dst, allow); err != nil {
		t.Errorf("allowed admission move = %v, want nil", err)
	}
}

func TestDescriptionTransition(t *testing.T) {
	got := DescriptionTransition("old text", "new text")
	want := `"old text" -> "new text"`
	if got != want {
		t.Errorf("DescriptionTransition = %q, want %q", got, want)
	}

	got = DescriptionTransition("", "first")
	want = `"" -> "first"`
	if got != want {
		t.Errorf("DescriptionTransition from empty = %q, want %q", got, want)
	}
}
