package controller

import (
	"errors"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/helpers/authz"

	"feeportal_backend/internals/features/finance/payments/dto"
	"feeportal_backend/internals/features/finance/payments/gateway"
	"feeportal_backend/internals/features/finance/payments/service"

	feeModel "feeportal_backend/internals/features/school/fees/model"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

type PaymentController struct {
	DB       *gorm.DB
	Gateway  gateway.Gateway
	Workflow *service.Workflow
	Store    *service.GormStore
	validate *validator.Validate
}

func NewPaymentController(db *gorm.DB, gw gateway.Gateway, wf *service.Workflow, store *service.GormStore) *PaymentController {
	return &PaymentController{
		DB:       db,
		Gateway:  gw,
		Workflow: wf,
		Store:    store,
		validate: validator.New(),
	}
}

/* =========================================================
   POST /api/u/checkout-sessions
========================================================= */

// CreateCheckoutSession opens a hosted-checkout session for a student's
// class fee. The amount is read from the fee table here and echoed back
// by the gateway later — the client never supplies it.
func (ctl *PaymentController) CreateCheckoutSession(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var student studentModel.Student
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", req.StudentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "Student not found")
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load student")
	}

	// students may only start checkout for their own profile
	if actor.IsStudent() {
		if student.StudentUserID == nil || *student.StudentUserID != actor.UserID {
			return helper.Error(c, fiber.StatusForbidden, "You can only pay your own fees")
		}
	}

	var fee feeModel.FeeStructure
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&fee, "fee_class_name = ?", student.StudentClass).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return helper.Error(c, fiber.StatusNotFound, "No fee structure for class "+student.StudentClass)
		}
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load fee structure")
	}
	if fee.FeeTotal <= 0 {
		return helper.Error(c, fiber.StatusUnprocessableEntity, "Fee total for this class is not payable")
	}

	feeType := req.FeeType
	if feeType == "" {
		feeType = "Tuition/Annual Fee"
	}

	sess, err := ctl.Gateway.CreateSession(c.UserContext(), gateway.CreateSessionInput{
		Amount:        fee.FeeTotal,
		Currency:      configs.FeeCurrency,
		StudentID:     student.StudentID,
		FeeType:       feeType,
		ReturnURL:     configs.GetEnv("CHECKOUT_RETURN_URL", "http://localhost:3000/payment/return"),
		CustomerName:  student.StudentName,
		CustomerEmail: student.StudentParentEmail,
	})
	if err != nil {
		log.Printf("[ERROR] create checkout session for %s: %v", student.StudentID, err)
		return helper.Error(c, fiber.StatusBadGateway, "Failed to create checkout session")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Checkout session created", dto.CheckoutSessionResponse{
		SessionID:   sess.ID,
		RedirectURL: sess.RedirectURL,
		Amount:      fee.FeeTotal,
		Currency:    configs.FeeCurrency,
		FeeType:     feeType,
	})
}

/* =========================================================
   GET|POST /api/u/payments/verify
========================================================= */

// VerifyPayment is the landing call after hosted checkout redirects
// back. It is safe to hit any number of times for the same session.
func (ctl *PaymentController) VerifyPayment(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.VerifyPaymentRequest
	if c.Method() == fiber.MethodPost {
		if err := c.BodyParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
		}
	} else {
		if err := c.QueryParser(&req); err != nil {
			return helper.Error(c, fiber.StatusBadRequest, "Invalid query parameters")
		}
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	result, err := ctl.Workflow.Verify(c.UserContext(), service.VerifyInput{
		SessionID:     req.SessionID,
		StudentID:     req.StudentID,
		ClaimedAmount: req.Amount,
		GeneratedBy:   actor.Name,
	})
	if err != nil {
		log.Printf("[ERROR] verify session %s: %v", req.SessionID, err)
		return helper.Error(c, fiber.StatusInternalServerError, service.MsgFailed)
	}

	return helper.Success(c, result.Message, result)
}

/* =========================================================
   POST /api/a/payments/manual
========================================================= */

func (ctl *PaymentController) RecordManualPayment(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.ManualPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var exists int64
	if err := ctl.DB.WithContext(c.UserContext()).Model(&studentModel.Student{}).
		Where("student_id = ?", req.StudentID).Count(&exists).Error; err != nil || exists == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Student not found")
	}

	result, err := ctl.Workflow.RecordManual(c.UserContext(), service.ManualInput{
		StudentID:   req.StudentID,
		Amount:      req.Amount,
		Note:        req.Note,
		GeneratedBy: actor.Name,
	})
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to record payment")
	}

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Payment recorded", result)
}

/* =========================================================
   GET /api/u/payments  |  GET /api/a/payments
========================================================= */

// ListPayments returns payment history. Admins see everyone (optionally
// filtered with ?student_id=); a student only ever sees their own rows.
func (ctl *PaymentController) ListPayments(c *fiber.Ctx) error {
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
	payments, total, err := ctl.Store.List(c.UserContext(), studentID, paging.Limit, paging.Offset)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load payments")
	}

	return helper.Success(c, "OK", fiber.Map{
		"payments": dto.FromPaymentModels(payments),
		"paging": fiber.Map{
			"page":     paging.Page,
			"per_page": paging.PerPage,
			"total":    total,
		},
	})
}
