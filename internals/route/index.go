package routes

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"feeportal_backend/internals/configs"
	"feeportal_backend/internals/constants"
	"feeportal_backend/internals/helpers/livequery"
	authMiddleware "feeportal_backend/internals/middlewares/auth"

	routeDetails "feeportal_backend/internals/route/details"

	"feeportal_backend/internals/features/finance/payments/gateway"
	paymentController "feeportal_backend/internals/features/finance/payments/controller"
	paymentService "feeportal_backend/internals/features/finance/payments/service"

	receiptController "feeportal_backend/internals/features/finance/receipts/controller"
	receiptService "feeportal_backend/internals/features/finance/receipts/service"

	dashboardController "feeportal_backend/internals/features/school/dashboard/controller"
	dashboardService "feeportal_backend/internals/features/school/dashboard/service"
	feeController "feeportal_backend/internals/features/school/fees/controller"
	studentController "feeportal_backend/internals/features/school/students/controller"

	authController "feeportal_backend/internals/features/users/auth/controller"
	authService "feeportal_backend/internals/features/users/auth/service"
)

// SetupRoutes wires all controllers onto three groups:
//
//	/auth   — public sign-in endpoints
//	/api/u  — any signed-in user (admin or student)
//	/api/a  — admin only
func SetupRoutes(app *fiber.App, db *gorm.DB, broker *livequery.Broker) {
	gw := gateway.NewMidtransGateway(configs.MidtransServerKey, configs.MidtransProdEnv)

	receiptStore := receiptService.NewGormStore(db, broker)
	receipts := receiptService.NewService(receiptStore, configs.ReceiptPrefix)

	paymentStore := paymentService.NewGormStore(db, broker)
	workflow := paymentService.NewWorkflow(gw, paymentStore, receipts)

	controllers := routeDetails.Controllers{
		Auth: authController.NewAuthController(
			db,
			authService.NewAuthService(db, authService.NewGoogleVerifier(configs.GoogleClientID)),
			authService.NewTokenService(configs.JWTSecret),
			authService.NewOAuthService(configs.GoogleClientID, configs.GoogleClientSecret, configs.GoogleRedirectURI),
		),
		Payments:  paymentController.NewPaymentController(db, gw, workflow, paymentStore),
		Receipts:  receiptController.NewReceiptController(db, receipts),
		Students:  studentController.NewStudentController(db),
		Fees:      feeController.NewFeeController(db),
		Dashboard: dashboardController.NewDashboardController(db, dashboardService.NewGormStore(db), broker),
	}

	log.Println("[INFO] Setting up AUTH routes...")
	routeDetails.AuthRoutes(app, db, controllers)

	log.Println("[INFO] Setting up PRIVATE (/api/u) group...")
	user := app.Group("/api/u", authMiddleware.AuthMiddleware(db))
	routeDetails.FinanceUserRoutes(user, controllers)
	routeDetails.SchoolUserRoutes(user, controllers)

	// browser-facing alias for the printable receipt, cookie-authed
	app.Get("/receipt/:id/print", authMiddleware.AuthMiddleware(db), controllers.Receipts.PrintReceipt)

	log.Println("[INFO] Setting up ADMIN (/api/a) group...")
	admin := app.Group("/api/a",
		authMiddleware.AuthMiddleware(db),
		authMiddleware.OnlyRoles("Admin access required", constants.RoleAdmin),
	)
	routeDetails.FinanceAdminRoutes(admin, controllers)
	routeDetails.SchoolAdminRoutes(admin, controllers)
}
