package details

import (
	"github.com/gofiber/fiber/v2"
)

func SchoolUserRoutes(r fiber.Router, c Controllers) {
	r.Get("/fees", c.Fees.ListFees)

	r.Get("/dashboard/summary", c.Dashboard.StudentSummary)
	r.Get("/dashboard/stream", c.Dashboard.Stream)
}

func SchoolAdminRoutes(r fiber.Router, c Controllers) {
	r.Get("/dashboard/stats", c.Dashboard.AdminStats)

	r.Get("/students", c.Students.ListStudents)
	r.Get("/students/export", c.Students.ExportStudentsCSV)
	r.Get("/students/:id", c.Students.GetStudent)
	r.Post("/students", c.Students.CreateStudent)
	r.Put("/students/:id", c.Students.UpdateStudent)
	r.Delete("/students/:id", c.Students.DeleteStudent)

	r.Post("/fees", c.Fees.CreateFee)
	r.Put("/fees/:id", c.Fees.UpdateFee)
	r.Delete("/fees/:id", c.Fees.DeleteFee)
}
