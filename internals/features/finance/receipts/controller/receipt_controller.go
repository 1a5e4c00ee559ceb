package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/helpers/authz"

	"feeportal_backend/internals/features/finance/receipts/dto"
	model "feeportal_backend/internals/features/finance/receipts/model"
	"feeportal_backend/internals/features/finance/receipts/service"

	paymentModel "feeportal_backend/internals/features/finance/payments/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

type ReceiptController struct {
	DB      *gorm.DB
	Service *service.Service
}

func NewReceiptController(db *gorm.DB, svc *service.Service) *ReceiptController {
	return &ReceiptController{DB: db, Service: svc}
}

/* =========================================================
   GET /api/u/receipts/:id
========================================================= */

func (ctl *ReceiptController) GetReceipt(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid receipt id")
	}

	receipt, err := ctl.Service.GetForActor(c.UserContext(), actor, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			return helper.Error(c, fiber.StatusNotFound, "Receipt not found")
		case errors.Is(err, service.ErrUnauthorized):
			return helper.Error(c, fiber.StatusForbidden, "You are not allowed to view this receipt")
		default:
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to load receipt")
		}
	}

	return helper.Success(c, "OK", dto.FromReceiptModel(receipt))
}

/* =========================================================
   GET /api/u/receipts/:id/print
========================================================= */

// PrintReceipt renders the printable HTML view, under the same viewing
// rules as the JSON endpoint.
func (ctl *ReceiptController) PrintReceipt(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid receipt id")
	}

	receipt, err := ctl.Service.GetForActor(c.UserContext(), actor, id)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return helper.Error(c, fiber.StatusForbidden, "You are not allowed to view this receipt")
		}
		return helper.Error(c, fiber.StatusNotFound, "Receipt not found")
	}

	return c.Render("receipt", fiber.Map{
		"Receipt": dto.FromReceiptModel(receipt),
		"PaidAt":  receipt.ReceiptPaidAt.Format("02 Jan 2006, 15:04"),
	})
}

/* =========================================================
   GET /api/u/receipts
========================================================= */

// ListReceipts returns receipts newest-first. Admins can filter with
// ?student_id=; a student is always pinned to their own profile.
func (ctl *ReceiptController) ListReceipts(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	studentID := c.Query("student_id")
	if actor.IsStudent() {
		var student studentModel.Student
		if err := ctl.DB.WithContext(c.UserContext()).
			First(&student, "student_user_id = ?", actor.UserID).Error; err != nil {
			return helper.Error(c, fiber.StatusForbidden, "No student profile linked to this account")
		}
		studentID = student.StudentID
	}

	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.Receipt{})
	if studentID != "" {
		q = q.Where("receipt_student_id = ?", studentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load receipts")
	}

	var receipts []model.Receipt
	if err := q.Order("receipt_created_at DESC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&receipts).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load receipts")
	}

	return helper.Success(c, "OK", fiber.Map{
		"receipts": dto.FromReceiptModels(receipts),
		"paging": fiber.Map{
			"page":     paging.Page,
			"per_page": paging.PerPage,
			"total":    total,
		},
	})
}

/* =========================================================
   GET /api/a/receipts/by-transaction/:transaction_id
========================================================= */

func (ctl *ReceiptController) GetByTransaction(c *fiber.Ctx) error {
	transactionID := c.Params("transaction_id")
	if transactionID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Missing transaction id")
	}

	receipt, err := ctl.Service.FindByTransactionID(c.UserContext(), transactionID)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Receipt not found")
	}
	return helper.Success(c, "OK", dto.FromReceiptModel(receipt))
}

/* =========================================================
   POST /api/a/receipts/ensure/:transaction_id
========================================================= */

// EnsureReceipt backfills the receipt for a recorded payment whose
// receipt generation was interrupted. Safe to call when the receipt
// already exists.
func (ctl *ReceiptController) EnsureReceipt(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	transactionID := c.Params("transaction_id")
	if transactionID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Missing transaction id")
	}

	var payment paymentModel.Payment
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&payment, "payment_session_id = ?", transactionID).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "No payment recorded for this transaction")
	}
	if !payment.IsPaid() {
		return helper.Error(c, fiber.StatusUnprocessableEntity, "Payment is not in a paid state")
	}

	mode := model.ModeOnline
	if payment.IsManual() {
		mode = model.ModeManual
	}

	receipt, err := ctl.Service.Create(c.UserContext(), service.CreateInput{
		StudentID:     payment.PaymentStudentID,
		Amount:        payment.PaymentAmount,
		PaymentRef:    payment.PaymentRef,
		Mode:          mode,
		Status:        payment.PaymentStatus,
		TransactionID: payment.PaymentSessionID,
		GeneratedBy:   actor.Name,
		PaidAt:        payment.CreatedAt,
	})
	if err != nil {
		if errors.Is(err, service.ErrStudentNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Student on this payment no longer exists")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to generate receipt")
	}

	return helper.Success(c, "Receipt ready", dto.FromReceiptModel(receipt))
}
