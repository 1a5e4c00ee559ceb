package gateway

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	midtrans "github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

/* =========================================================
   Midtrans implementation
========================================================= */

type MidtransGateway struct {
	snap    snap.Client
	core    coreapi.Client
	nowFunc func() time.Time
}

func NewMidtransGateway(serverKey string, useProduction bool) *MidtransGateway {
	env := midtrans.Sandbox
	if useProduction {
		env = midtrans.Production
	}
	g := &MidtransGateway{nowFunc: time.Now}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error) {
	if in.Amount <= 0 {
		return nil, fmt.Errorf("invalid amount %d", in.Amount)
	}

	orderID := fmt.Sprintf("FEE-%d", g.nowFunc().UnixNano())

	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID: orderID,
			// Midtrans takes whole currency units
			GrossAmt: int64(in.Amount),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:       orderID,
				Price:    int64(in.Amount),
				Qty:      1,
				Name:     truncate("School Fee: "+in.FeeType, 50),
				Category: "FEE",
			},
		},
		CreditCard:   &snap.CreditCardDetails{Secure: true},
		CustomField1: truncate(in.FeeType, 40),
		CustomField2: truncate(in.StudentID, 40),
	}
	if in.CustomerName != "" || in.CustomerEmail != "" {
		req.CustomerDetail = &midtrans.CustomerDetails{
			FName: in.CustomerName,
			Email: in.CustomerEmail,
		}
	}
	if in.ReturnURL != "" {
		req.Callbacks = &snap.Callbacks{Finish: in.ReturnURL}
	}

	resp, mErr := g.snap.CreateTransaction(req)
	if mErr != nil {
		return nil, fmt.Errorf("midtrans create transaction: %w", mErr)
	}

	return &Session{
		ID:           orderID,
		Status:       StatusOpen,
		GrossAmount:  in.Amount,
		Currency:     in.Currency,
		StudentID:    in.StudentID,
		FeeType:      in.FeeType,
		ClientSecret: resp.Token,
		RedirectURL:  resp.RedirectURL,
	}, nil
}

func (g *MidtransGateway) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	resp, mErr := g.core.CheckTransaction(sessionID)
	if mErr != nil {
		if mErr.StatusCode == 404 {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("midtrans check transaction: %w", mErr)
	}

	amount, err := parseGrossAmount(resp.GrossAmount)
	if err != nil {
		return nil, fmt.Errorf("midtrans gross amount %q: %w", resp.GrossAmount, err)
	}

	return &Session{
		ID:          resp.OrderID,
		Status:      mapTransactionStatus(resp.TransactionStatus, resp.FraudStatus),
		GrossAmount: amount,
		Currency:    resp.Currency,
	}, nil
}

/* =========================================================
   Mapping helpers
========================================================= */

// mapTransactionStatus folds Midtrans transaction states into the
// workflow's paid/unpaid/open triad.
func mapTransactionStatus(txStatus, fraudStatus string) Status {
	switch strings.ToLower(txStatus) {
	case "settlement":
		return StatusPaid
	case "capture":
		if strings.EqualFold(fraudStatus, "challenge") {
			return StatusOpen
		}
		return StatusPaid
	case "pending", "authorize":
		return StatusOpen
	case "deny", "cancel", "expire", "failure", "refund", "partial_refund":
		return StatusUnpaid
	default:
		return StatusUnknown
	}
}

// parseGrossAmount handles the provider's "6500.00" string form.
func parseGrossAmount(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f + 0.5), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n]
}
