package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Card is the unit of work. Members, labels, checklists, attachments,
// comments and the due-date substructure are embedded JSON columns, so any
// card mutation is one row write. Sub-documents carry uuid string ids
// assigned at creation since the database never sees them as rows.
type Card struct {
	ID          uint64      `gorm:"primarykey" json:"id"`
	BoardID     uint64      `gorm:"not null;index" json:"board_id"`
	ColumnID    uint64      `gorm:"not null;index" json:"column_id"`
	Title       string      `gorm:"type:varchar(255);not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Location    string      `gorm:"type:varchar(255)" json:"location"`
	CoverURL    string      `gorm:"type:varchar(512)" json:"cover_url"`
	MemberIDs   IDList      `gorm:"type:json" json:"member_ids"`
	LabelIDs    IDList      `gorm:"type:json" json:"label_ids"`
	Checklists  Checklists  `gorm:"type:json" json:"checklists"`
	Attachments Attachments `gorm:"type:json" json:"attachments"`
	Comments    Comments    `gorm:"type:json" json:"comments"`
	Due         CardDue     `gorm:"type:json" json:"due"`
	IsClosed    bool        `gorm:"not null;default:false" json:"is_closed"`
	IsCompleted bool        `gorm:"not null;default:false" json:"is_completed"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	// Relations
	Board  Board  `gorm:"foreignKey:BoardID" json:"board,omitempty"`
	Column Column `gorm:"foreignKey:ColumnID" json:"column,omitempty"`
}

// ChecklistItem is a single entry of a checklist. AssignedTo holds board
// member ids and is re-filtered whenever the card changes boards.
type ChecklistItem struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	IsChecked  bool   `json:"is_checked"`
	AssignedTo IDList `json:"assigned_to"`
}

type Checklist struct {
	ID    string          `json:"id"`
	Title string          `json:"title"`
	Items []ChecklistItem `json:"items"`
}

type Checklists []Checklist

type Attachment struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	URL       string    `json:"url"`
	AddedBy   uint64    `json:"added_by"`
	CreatedAt time.Time `json:"created_at"`
}

type Attachments []Attachment

type Comment struct {
	ID        string    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Comments []Comment

// CardDue is the due-date substructure.
type CardDue struct {
	Start      *time.Time `json:"start,omitempty"`
	Due        *time.Time `json:"due,omitempty"`
	IsComplete bool       `json:"is_complete"`
}

func (c Checklists) Value() (driver.Value, error) {
	if c == nil {
		c = Checklists{}
	}
	return json.Marshal(c)
}

func (c *Checklists) Scan(value interface{}) error {
	return scanJSON(value, c, "Checklists")
}

func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		a = Attachments{}
	}
	return json.Marshal(a)
}

func (a *Attachments) Scan(value interface{}) error {
	return scanJSON(value, a, "Attachments")
}

func (c Comments) Value() (driver.Value, error) {
	if c == nil {
		c = Comments{}
	}
	return json.Marshal(c)
}

func (c *Comments) Scan(value interface{}) error {
	return scanJSON(value, c, "Comments")
}

func (d CardDue) Value() (driver.Value, error) {
	return json.Marshal(d)
}

func (d *CardDue) Scan(value interface{}) error {
	return scanJSON(value, d, "CardDue")
}

func scanJSON(value, dest interface{}, typeName string) error {
	if value == nil {
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into %s", value, typeName)
	}

	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// FilterAssignees drops every checklist-item assignee that is not part of
// memberIDs. Called whenever a card's member list is recomputed against a new
// board.
func (c Checklists) FilterAssignees(memberIDs IDList) Checklists {
	out := make(Checklists, len(c))
	for i, checklist := range c {
		items := make([]ChecklistItem, len(checklist.Items))
		for j, item := range checklist.Items {
			item.AssignedTo = item.AssignedTo.Intersect(memberIDs)
			items[j] = item
		}
		checklist.Items = items
		out[i] = checklist
	}
	return out
}
