package controller

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	helper "feeportal_backend/internals/helpers"

	"feeportal_backend/internals/features/school/students/dto"
	model "feeportal_backend/internals/features/school/students/model"
	"feeportal_backend/internals/features/school/students/service"

	feeModel "feeportal_backend/internals/features/school/fees/model"
)

// Default per-class fee breakdown seeded when a student joins a class
// that has no fee structure yet.
const (
	defaultTuition   = 5000
	defaultTransport = 1000
	defaultExam      = 500
)

type StudentController struct {
	DB       *gorm.DB
	validate *validator.Validate
}

func NewStudentController(db *gorm.DB) *StudentController {
	return &StudentController{DB: db, validate: validator.New()}
}

/* =========================================================
   GET /api/a/students
========================================================= */

func (ctl *StudentController) ListStudents(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.Student{})
	if class := c.Query("class"); class != "" {
		q = q.Where("student_class = ?", class)
	}
	if search := c.Query("q"); search != "" {
		q = q.Where("student_name ILIKE ?", "%"+search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	var students []model.Student
	if err := q.Order("student_id ASC").
		Limit(paging.Limit).Offset(paging.Offset).
		Find(&students).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	return helper.Success(c, "OK", fiber.Map{
		"students": dto.FromStudentModels(students),
		"paging": fiber.Map{
			"page":     paging.Page,
			"per_page": paging.PerPage,
			"total":    total,
		},
	})
}

/* =========================================================
   GET /api/a/students/:id
========================================================= */

func (ctl *StudentController) GetStudent(c *fiber.Ctx) error {
	var student model.Student
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.Success(c, "OK", dto.FromStudentModel(&student))
}

/* =========================================================
   POST /api/a/students
========================================================= */

// CreateStudent enrolls a student and, if their class has no fee
// structure yet, seeds one with the default breakdown so checkout works
// immediately.
func (ctl *StudentController) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	student := model.Student{
		StudentName:        req.Name,
		StudentClass:       req.Class,
		StudentParentEmail: req.ParentEmail,
	}

	// retry only on id collision, which is vanishingly rare
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		id, err := service.NewStudentID()
		if err != nil {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to assign student id")
		}
		student.StudentID = id

		lastErr = ctl.DB.WithContext(c.UserContext()).Create(&student).Error
		if lastErr == nil {
			break
		}
		if !helper.IsUniqueViolation(lastErr) {
			return helper.Error(c, fiber.StatusInternalServerError, "Failed to create student")
		}
	}
	if lastErr != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to create student")
	}

	ctl.ensureFeeStructure(c, student.StudentClass)

	return helper.SuccessWithCode(c, fiber.StatusCreated, "Student enrolled", dto.FromStudentModel(&student))
}

func (ctl *StudentController) ensureFeeStructure(c *fiber.Ctx, class string) {
	var count int64
	if err := ctl.DB.WithContext(c.UserContext()).Model(&feeModel.FeeStructure{}).
		Where("fee_class_name = ?", class).Count(&count).Error; err != nil || count > 0 {
		return
	}

	fee := feeModel.FeeStructure{
		FeeClassName: class,
		FeeTuition:   defaultTuition,
		FeeTransport: defaultTransport,
		FeeExam:      defaultExam,
		FeeTotal:     defaultTuition + defaultTransport + defaultExam,
	}
	if err := ctl.DB.WithContext(c.UserContext()).Create(&fee).Error; err != nil {
		log.Printf("[WARN] seed fee structure for %s: %v", class, err)
	}
}

/* =========================================================
   PUT /api/a/students/:id
========================================================= */

// UpdateStudent edits enrollment data. The student id itself is
// permanent and cannot be changed here.
func (ctl *StudentController) UpdateStudent(c *fiber.Ctx) error {
	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := ctl.validate.Struct(req); err != nil {
		return helper.ValidationError(c, err)
	}

	var student model.Student
	if err := ctl.DB.WithContext(c.UserContext()).
		First(&student, "student_id = ?", c.Params("id")).Error; err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Student not found")
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["student_name"] = *req.Name
	}
	if req.Class != nil {
		updates["student_class"] = *req.Class
	}
	if req.ParentEmail != nil {
		updates["student_parent_email"] = *req.ParentEmail
	}
	if len(updates) == 0 {
		return helper.Success(c, "Nothing to update", dto.FromStudentModel(&student))
	}

	if err := ctl.DB.WithContext(c.UserContext()).Model(&student).Updates(updates).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to update student")
	}
	if req.Class != nil {
		ctl.ensureFeeStructure(c, *req.Class)
	}

	return helper.Success(c, "Student updated", dto.FromStudentModel(&student))
}

/* =========================================================
   DELETE /api/a/students/:id
========================================================= */

func (ctl *StudentController) DeleteStudent(c *fiber.Ctx) error {
	res := ctl.DB.WithContext(c.UserContext()).
		Delete(&model.Student{}, "student_id = ?", c.Params("id"))
	if res.Error != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to delete student")
	}
	if res.RowsAffected == 0 {
		return helper.Error(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.Success(c, "Student removed", nil)
}

/* =========================================================
   GET /api/a/students/export
========================================================= */

func (ctl *StudentController) ExportStudentsCSV(c *fiber.Ctx) error {
	q := ctl.DB.WithContext(c.UserContext()).Model(&model.Student{})
	if class := c.Query("class"); class != "" {
		q = q.Where("student_class = ?", class)
	}

	var students []model.Student
	if err := q.Order("student_id ASC").Find(&students).Error; err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load students")
	}

	out, err := service.ExportCSV(students)
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to build export")
	}

	filename := fmt.Sprintf("students-%s.csv", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out)
}
