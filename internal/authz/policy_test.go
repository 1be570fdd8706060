package authz

import (
	"context"
	"testing"

	"caseboard/api/internal/models"
)

type fakeGrants struct {
	boardGrants map[string]bool
	listGrants  map[string]bool
	cardMembers map[string][]string
}

func (f fakeGrants) HasBoardGrant(_ context.Context, userID, boardID string) (bool, error) {
	return f.boardGrants[userID+"/"+boardID], nil
}

func (f fakeGrants) HasListGrant(_ context.Context, userID, listID string) (bool, error) {
	return f.listGrants[userID+"/"+listID], nil
}

func (f fakeGrants) CardMemberIDs(_ context.Context, cardID string) ([]string, error) {
	return f.cardMembers[cardID], nil
}

func TestIsCommissionBoard(t *testing.T) {
	cases := []struct {
		name string
		want bool
	}{
		{"Melbourne Commission", true},
		{"COMMISSION 2024", true},
		{"Sydney Comission Board", true},
		{"Sydney Admissions", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsCommissionBoard(tc.name); got != tc.want {
			t.Errorf("IsCommissionBoard(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestCanAccessBoard(t *testing.T) {
	grants := fakeGrants{boardGrants: map[string]bool{
		"u2/b1": true,
	}}
	policy := NewPolicy(grants)
	ctx := context.Background()

	board := models.Board{ID: "b1", Name: "Melbourne"}
	commission := models.Board{ID: "b2", Name: "Melbourne Commission"}

	super := models.User{ID: "u1", RoleID: models.RoleSuperAdmin}
	granted := models.User{ID: "u2", RoleID: models.RoleCounsellor}
	stranger := models.User{ID: "u3", RoleID: models.RoleCounsellor}

	if ok, _ := policy.CanAccessBoard(ctx, super, commission); !ok {
		t.Error("superadmin should access commission boards")
	}
	if ok, _ := policy.CanAccessBoard(ctx, granted, board); !ok {
		t.Error("granted user should access board")
	}
	if ok, _ := policy.CanAccessBoard(ctx, stranger, board); ok {
		t.Error("ungranted user should not access board")
	}
	if ok, _ := policy.CanAccessBoard(ctx, granted, commission); ok {
		t.Error("non-superadmin should never access commission boards")
	}
}

func TestCanAccessListRequiresBothGrants(t *testing.T) {
	grants := fakeGrants{
		boardGrants: map[string]bool{"u2/b1": true},
		listGrants:  map[string]bool{"u2/l1": true},
	}
	policy := NewPolicy(grants)
	ctx := context.Background()

	board := models.Board{ID: "b1", Name: "Melbourne"}
	listGranted := models.BoardList{ID: "l1", BoardID: "b1"}
	listOther := models.BoardList{ID: "l2", BoardID: "b1"}
	user := models.User{ID: "u2", RoleID: models.RoleCounsellor}

	if ok, _ := policy.CanAccessList(ctx, user, board, listGranted); !ok {
		t.Error("user with board and list grants should access list")
	}
	if ok, _ := policy.CanAccessList(ctx, user, board, listOther); ok {
		t.Error("board grant alone should not grant list access")
	}
}

func TestCardVisible(t *testing.T) {
	if !CardVisible("u1", models.RoleCounsellor, nil) {
		t.Error("card with no members should be visible")
	}
	if !CardVisible("u1", models.RoleCounsellor, []string{"u1", "u2"}) {
		t.Error("member should see member-restricted card")
	}
	if CardVisible("u3", models.RoleCounsellor, []string{"u1", "u2"}) {
		t.Error("non-member should not see member-restricted card")
	}
	if !CardVisible("u3", models.RoleAdmin, []string{"u1"}) {
		t.Error("admin should bypass the member gate")
	}
	if !CardVisible("u3", models.RoleSuperAdmin, []string{"u1"}) {
		t.Error("superadmin should bypass the member gate")
	}
}

func TestCanAccessCardMemberGate(t *testing.T) {
	grants := fakeGrants{
		boardGrants: map[string]bool{"u2/b1": true, "u3/b1": true},
		cardMembers: map[string][]string{"c1": {"u2"}},
	}
	policy := NewPolicy(grants)
	ctx := context.Background()

	board := models.Board{ID: "b1", Name: "Melbourne"}
	card := models.BoardCard{ID: "c1"}

	member := models.User{ID: "u2", RoleID: models.RoleCounsellor}
	outsider := models.User{ID: "u3", RoleID: models.RoleCounsellor}

	if ok, _ := policy.CanAccessCard(ctx, member, board, card); !ok {
		t.Error("card member should access card")
	}
	if ok, _ := policy.CanAccessCard(ctx, outsider, board, card); ok {
		t.Error("non-member with board access should not see restricted card")
	}
}

func TestCanMutateBoard(t *testing.T) {
	if !CanMutateBoard(models.User{RoleID: models.RoleSuperAdmin}) {
		t.Error("superadmin should mutate board structure")
	}
	if CanMutateBoard(models.User{RoleID: models.RoleAdmin}) {
		t.Error("admin should not mutate board structure")
	}
}

func TestForceListCategory(t *testing.T) {
	got := ForceListCategory("Melbourne Commission", models.CategoryVisa)
	if got != models.CategoryAdmission {
		t.Errorf("commission board should force Admission, got %d", got)
	}
	got = ForceListCategory("Melbourne", models.CategoryVisa)
	if got != models.CategoryVisa {
		t.Errorf("regular board should keep requested category, got %d", got)
	}
}
