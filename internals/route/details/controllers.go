package details

import (
	paymentController "feeportal_backend/internals/features/finance/payments/controller"
	receiptController "feeportal_backend/internals/features/finance/receipts/controller"
	dashboardController "feeportal_backend/internals/features/school/dashboard/controller"
	feeController "feeportal_backend/internals/features/school/fees/controller"
	studentController "feeportal_backend/internals/features/school/students/controller"
	authController "feeportal_backend/internals/features/users/auth/controller"
)

// Controllers bundles every constructed controller so route files stay
// declaration-only.
type Controllers struct {
	Auth      *authController.AuthController
	Payments  *paymentController.PaymentController
	Receipts  *receiptController.ReceiptController
	Students  *studentController.StudentController
	Fees      *feeController.FeeController
	Dashboard *dashboardController.DashboardController
}
