package details

import (
	"github.com/gofiber/fiber/v2"

	mw "feeportal_backend/internals/middlewares"
)

func FinanceUserRoutes(r fiber.Router, c Controllers) {
	r.Post("/checkout-sessions", mw.CheckoutRateLimiter(), c.Payments.CreateCheckoutSession)

	r.Get("/payments/verify", c.Payments.VerifyPayment)
	r.Post("/payments/verify", c.Payments.VerifyPayment)
	r.Get("/payments", c.Payments.ListPayments)

	r.Get("/receipts", c.Receipts.ListReceipts)
	r.Get("/receipts/:id", c.Receipts.GetReceipt)
	r.Get("/receipts/:id/print", c.Receipts.PrintReceipt)
}

func FinanceAdminRoutes(r fiber.Router, c Controllers) {
	r.Post("/payments/manual", c.Payments.RecordManualPayment)
	r.Get("/payments", c.Payments.ListPayments)

	r.Get("/receipts/by-transaction/:transaction_id", c.Receipts.GetByTransaction)
	r.Post("/receipts/ensure/:transaction_id", c.Receipts.EnsureReceipt)
}
