package model

import (
	"time"

	"github.com/google/uuid"
)

// Student is enrollment data created by an administrator. StudentID is
// the stable, externally visible identifier (ST-NNNNNN) and never
// changes once assigned. StudentUserID links the record to a signed-in
// identity and is set at most once, either at enrollment or by the
// first-login parent-email match.
type Student struct {
	StudentID string `gorm:"column:student_id;type:varchar(16);primaryKey" json:"student_id"`

	StudentName        string `gorm:"column:student_name;type:varchar(128);not null" json:"student_name"`
	StudentClass       string `gorm:"column:student_class;type:varchar(32);not null;index" json:"student_class"`
	StudentParentEmail string `gorm:"column:student_parent_email;type:varchar(255);not null;index" json:"student_parent_email"`

	StudentUserID *uuid.UUID `gorm:"column:student_user_id;type:uuid;uniqueIndex" json:"student_user_id,omitempty"`

	CreatedAt time.Time `gorm:"column:student_created_at;autoCreateTime" json:"student_created_at"`
}

func (Student) TableName() string { return "students" }

func (s *Student) IsLinked() bool { return s.StudentUserID != nil }
