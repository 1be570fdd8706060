package models

import "time"

// ListCategory gates card movement: Visa and DependantVisa lists only accept
// cards whose matching payment flag is set.
type ListCategory int

const (
	CategoryAdmission     ListCategory = 0
	CategoryVisa          ListCategory = 1
	CategoryDependantVisa ListCategory = 2
)

// PositionGap is the spacing between auto-assigned positions. The wide gap
// lets the client drop a card between two siblings without renumbering.
const PositionGap = 10000

type City struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Board struct {
	ID        string
	Name      string
	CityID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type BoardList struct {
	ID        string
	BoardID   string
	Title     string
	Category  ListCategory
	Position  int64
	CreatedAt time.Time
	UpdatedAt time.Time

	Cards []BoardCard `json:"-"`
}

type BoardCard struct {
	ID                   string
	BoardListID          string
	Invoice              string
	FirstName            string
	LastName             string
	Description          string
	Position             int64
	Checked              bool
	PaymentDone          bool
	DependantPaymentDone bool
	IsArchived           bool
	DueDate              *time.Time
	CountryLabelID       *string
	IntakeLabelID        *string
	ServiceAreaID        *string
	CreatedAt            time.Time
	UpdatedAt            time.Time

	MemberIDs []string `json:"-"`
}

type Activity struct {
	ID             string
	UserID         string
	UserName       string
	CardID         *string
	ListID         *string
	Action         string
	Details        string
	AttachmentName *string
	AttachmentKey  *string
	CreatedAt      time.Time
}
