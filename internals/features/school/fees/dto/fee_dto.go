package dto

import (
	model "feeportal_backend/internals/features/school/fees/model"
)

type UpsertFeeRequest struct {
	ClassName string `json:"class_name" validate:"required,max=32"`
	Tuition   int    `json:"tuition" validate:"gte=0"`
	Transport int    `json:"transport" validate:"gte=0"`
	Exam      int    `json:"exam" validate:"gte=0"`
	Total     int    `json:"total" validate:"gte=0"`
}

type FeeResponse struct {
	FeeID     string `json:"fee_id"`
	ClassName string `json:"class_name"`
	Tuition   int    `json:"tuition"`
	Transport int    `json:"transport"`
	Exam      int    `json:"exam"`
	Total     int    `json:"total"`
}

func FromFeeModel(f *model.FeeStructure) FeeResponse {
	return FeeResponse{
		FeeID:     f.FeeID.String(),
		ClassName: f.FeeClassName,
		Tuition:   f.FeeTuition,
		Transport: f.FeeTransport,
		Exam:      f.FeeExam,
		Total:     f.FeeTotal,
	}
}

func FromFeeModels(fees []model.FeeStructure) []FeeResponse {
	out := make([]FeeResponse, 0, len(fees))
	for i := range fees {
		out = append(out, FromFeeModel(&fees[i]))
	}
	return out
}
