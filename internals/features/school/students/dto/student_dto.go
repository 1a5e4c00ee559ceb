package dto

import (
	model "feeportal_backend/internals/features/school/students/model"
)

/* ===================== Requests ===================== */

type CreateStudentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=128"`
	Class       string `json:"class" validate:"required,max=32"`
	ParentEmail string `json:"parent_email" validate:"required,email"`
}

type UpdateStudentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=128"`
	Class       *string `json:"class" validate:"omitempty,max=32"`
	ParentEmail *string `json:"parent_email" validate:"omitempty,email"`
}

/* ===================== Responses ===================== */

type StudentResponse struct {
	StudentID   string `json:"student_id"`
	Name        string `json:"name"`
	Class       string `json:"class"`
	ParentEmail string `json:"parent_email"`
	Linked      bool   `json:"linked"`
}

func FromStudentModel(s *model.Student) StudentResponse {
	return StudentResponse{
		StudentID:   s.StudentID,
		Name:        s.StudentName,
		Class:       s.StudentClass,
		ParentEmail: s.StudentParentEmail,
		Linked:      s.IsLinked(),
	}
}

func FromStudentModels(students []model.Student) []StudentResponse {
	out := make([]StudentResponse, 0, len(students))
	for i := range students {
		out = append(out, FromStudentModel(&students[i]))
	}
	return out
}
