package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/howdyplanner/api/model"
)

// PlannerService is the plan persistence boundary: whole-document load and
// save of a student's planner state. Saves serialize per student through a
// row lock, since the payload is replaced wholesale and carries no
// optimistic concurrency control.
type PlannerService struct {
	db *gorm.DB
}

// NewPlannerService creates a planner service.
func NewPlannerService(db *gorm.DB) *PlannerService {
	return &PlannerService{db: db}
}

// Load returns the stored planner state for a student, or
// gorm.ErrRecordNotFound when none exists.
func (s *PlannerService) Load(ctx context.Context, studentID uint) (*model.PlannerState, error) {
	var state model.PlannerState
	if err := s.db.WithContext(ctx).Where("student_id = ?", studentID).First(&state).Error; err != nil {
		return nil, err
	}
	return &state, nil
}

// Save upserts the student's planner state, preserving CreatedAt and the
// state id across updates.
func (s *PlannerService) Save(ctx context.Context, studentID uint, payload []byte) (*model.PlannerState, error) {
	var state model.PlannerState
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("student_id = ?", studentID).
			First(&state).Error
		switch {
		case err == nil:
			state.Payload = datatypes.JSON(payload)
			state.UpdatedAt = time.Now().UTC()
			return tx.Save(&state).Error
		case err == gorm.ErrRecordNotFound:
			now := time.Now().UTC()
			state = model.PlannerState{
				ID:        "planner_" + uuid.NewString(),
				StudentID: studentID,
				CreatedAt: now,
				UpdatedAt: now,
				Payload:   datatypes.JSON(payload),
			}
			return tx.Create(&state).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}
