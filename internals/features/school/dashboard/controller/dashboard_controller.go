package controller

import (
	"bufio"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	helper "feeportal_backend/internals/helpers"
	"feeportal_backend/internals/helpers/authz"
	"feeportal_backend/internals/helpers/livequery"

	"feeportal_backend/internals/features/school/dashboard/service"
	studentModel "feeportal_backend/internals/features/school/students/model"
)

type DashboardController struct {
	DB     *gorm.DB
	Store  *service.GormStore
	Broker *livequery.Broker
}

func NewDashboardController(db *gorm.DB, store *service.GormStore, broker *livequery.Broker) *DashboardController {
	return &DashboardController{DB: db, Store: store, Broker: broker}
}

/* =========================================================
   GET /api/a/dashboard/stats
========================================================= */

func (ctl *DashboardController) AdminStats(c *fiber.Ctx) error {
	stats, err := ctl.Store.LoadStats(c.UserContext())
	if err != nil {
		return helper.Error(c, fiber.StatusInternalServerError, "Failed to load dashboard stats")
	}
	return helper.Success(c, "OK", stats)
}

/* =========================================================
   GET /api/u/dashboard/summary
========================================================= */

// StudentSummary serves the signed-in student's own dashboard. Admins
// can read any student with ?student_id=.
func (ctl *DashboardController) StudentSummary(c *fiber.Ctx) error {
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
	if studentID == "" {
		return helper.Error(c, fiber.StatusBadRequest, "Missing student_id")
	}

	summary, err := ctl.Store.LoadStudentSummary(c.UserContext(), studentID)
	if err != nil {
		return helper.Error(c, fiber.StatusNotFound, "Student not found")
	}
	return helper.Success(c, "OK", summary)
}

/* =========================================================
   GET /api/u/dashboard/stream  (SSE)
========================================================= */

// Stream pushes payment/receipt events as they are recorded. Students
// receive only their own student's events; admins receive everything.
// A heartbeat comment every 25s keeps proxies from closing the stream.
func (ctl *DashboardController) Stream(c *fiber.Ctx) error {
	actor, err := authz.FromFiber(c)
	if err != nil {
		return helper.Error(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	filterStudentID := ""
	if actor.IsStudent() {
		var student studentModel.Student
		if err := ctl.DB.WithContext(c.UserContext()).
			First(&student, "student_user_id = ?", actor.UserID).Error; err != nil {
			return helper.Error(c, fiber.StatusForbidden, "No student profile linked to this account")
		}
		filterStudentID = student.StudentID
	}

	events, cancel := ctl.Broker.Subscribe(16)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()

		heartbeat := time.NewTicker(25 * time.Second)
		defer heartbeat.Stop()

		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if filterStudentID != "" && ev.StudentID != filterStudentID {
					continue
				}
				data, err := sonic.Marshal(ev)
				if err != nil {
					continue
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Kind, data)
				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
