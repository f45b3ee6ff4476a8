package model

import (
	"time"

	"gorm.io/gorm"
)

// Student identifies one planner user. There is no credentialed login;
// students are keyed by email when the uploader supplies one.
type Student struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	FirstName string         `gorm:"type:varchar(255)" json:"first_name"`
	LastName  string         `gorm:"type:varchar(255)" json:"last_name"`
	// Not unique at the database level: anonymous uploads store an
	// empty email and would collide under a unique index.
	Email string `gorm:"type:varchar(512);index" json:"email"`

	// Relationships
	Courses      []StudentCourse `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	PlannerState *PlannerState   `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}
