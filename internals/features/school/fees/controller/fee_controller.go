package controller

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "feeportal_backend/internals/helpers"

	"feeportal_backend/internals/features/school/fees/dto"
	model "feeportal_backend/internals/features/school/fees/model"
)

type FeeController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewFeeController(db *gorm.DB) *FeeController {
	return &FeeController{DB: db, validate: validator.New()}
}

/* =========================================================
   GET /api/u/fees
========================================================= */

// ListFees is readable by any signed-in user: students need it to see
// what their class costs before paying.
func (ctl *FeeController) ListFees(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.FeeStructure{})
	if class := c.Query("class"); class != "" {
		q = q.Where("fee_class_name = ?", class)
	}

	var fees []model.FeeStructure
	if err := q.Order("fee_class_name ASC").Find(&fees).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load fee structures")
	}
	return helper.Success(c, "OK", dto.FromFeeModels(fees))
}

/* =========================================================
   POST /api/a/fees
========================================================= */

func (ctl *FeeController) CreateFee(c *fiber.Ctx) error {
	var req dto.UpsertFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	fee := model.FeeStructure{
		FeeClassName: req.ClassName,
		FeeTuition:   req.Tuition,
		FeeTransport: req.Transport,
		FeeExam:      req.Exam,
		FeeTotal:     req.Total,
	}
	if fee.FeeTotal == 0 {
		fee.FeeTotal = req.Tuition + req.Transport + req.Exam
	}
	if err := fee.Validate(); err != nil {
		if errors.Is(err, model.ErrTotalMismatch) {
			return helper.Error(c, fiber.StatusUnprocessableEntity, "Total must equal tuition + transport + exam")
		}
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.WithContext(c.UserContext()).Create(&fee).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create fee structure")
	}
	return helper.SuccessWithCode(c, fiber.StatusCreated, "Fee structure created", dto.FromFeeModel(&fee))
}

/* =========================================================
   PUT /api/a/fees/:id
========================================================= */

func (ctl *FeeController) UpdateFee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid fee id")
	}

	var req dto.UpsertFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var fee model.FeeStructure
	if err := ctl.DB.WithContext(c.UserContext()).First(&fee, "fee_id = ?", id).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Fee structure not found")
	}

	fee.FeeClassName = req.ClassName
	fee.FeeTuition = req.Tuition
	fee.FeeTransport = req.Transport
	fee.FeeExam = req.Exam
	fee.FeeTotal = req.Total
	if fee.FeeTotal == 0 {
		fee.FeeTotal = req.Tuition + req.Transport + req.Exam
	}
	if err := fee.Validate(); err != nil {
		if errors.Is(err, model.ErrTotalMismatch) {
			return helper.Error(c, fiber.StatusUnprocessableEntity, "Total must equal tuition + transport + exam")
		}
		return helper.Error(c, fiber.StatusBadRequest, err.Error())
	}

	if err := ctl.DB.WithContext(c.UserContext()).Save(&fee).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update fee structure")
	}
	return helper.Success(c, "Fee structure updated", dto.FromFeeModel(&fee))
}

/* =========================================================
   DELETE /api/a/fees/:id
========================================================= */

func (ctl *FeeController) DeleteFee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid fee id")
	}

	res := ctl.DB.WithContext(c.UserContext()).Delete(&model.FeeStructure{}, "fee_id = ?", id)
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete fee structure")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Fee structure not found")
	}
	return helper.Success(c, "Fee structure removed", nil)
}
