package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Course is one shared catalog row, deduplicated across all student
// transcripts by (department, course number).
type Course struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Department   string         `gorm:"type:varchar(8);not null;uniqueIndex:idx_courses_dept_number" json:"department"`
	CourseNumber string         `gorm:"type:varchar(8);not null;uniqueIndex:idx_courses_dept_number" json:"course_number"`
	Title        string         `gorm:"type:varchar(255)" json:"title"`
	Credits      float64        `gorm:"default:0" json:"credits"`

	// Relationships
	StudentCourses []StudentCourse `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

// Code renders the canonical "DEPT NUM" course code.
func (c Course) Code() string {
	return fmt.Sprintf("%s %s", c.Department, c.CourseNumber)
}

// StudentCourse records one transcript observation of a course by a
// student in a specific term.
type StudentCourse struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	StudentID uint           `gorm:"not null;index" json:"student_id"`
	CourseID  uint           `gorm:"not null;index" json:"course_id"`
	Term      string         `gorm:"type:varchar(16);not null" json:"term"` // season name
	Year      int            `gorm:"not null" json:"year"`
	Grade     string         `gorm:"type:varchar(4)" json:"grade"`
	Status    string         `gorm:"type:varchar(20)" json:"status"` // Evaluated, In Progress, Transfer

	// Relationships
	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	Course  Course  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"course,omitempty"`
}
