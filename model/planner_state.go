package model

import (
	"time"

	"gorm.io/datatypes"
)

// PlannerState is the persisted planner document for one student. The
// payload is the client's plan state stored verbatim as JSON; the server
// validates plans on demand rather than normalizing the stored shape.
type PlannerState struct {
	ID        string         `gorm:"type:varchar(64);primaryKey" json:"id"`
	StudentID uint           `gorm:"not null;uniqueIndex" json:"student_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Payload   datatypes.JSON `gorm:"type:jsonb" json:"payload"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the table name explicit.
func (PlannerState) TableName() string {
	return "planner_states"
}
