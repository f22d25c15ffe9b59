package payment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"laundry-service/internal/models"
	gateway "laundry-service/pkg/payment"

	"github.com/shopspring/decimal"
)

// GatewayInterface is the PhonePe client as seen by the payment service.
type GatewayInterface interface {
	Pay(ctx context.Context, req gateway.PayRequest) (string, error)
	Status(ctx context.Context, merchantTransactionID string) (*gateway.TransactionStatus, error)
	VerifyCallback(response, xVerify string) (*gateway.TransactionStatus, error)
}

// BillSettlerInterface is the part of the bill service a confirmed payment needs.
type BillSettlerInterface interface {
	GetBill(ctx context.Context, billID string) (*models.Bill, error)
	MarkPaid(ctx context.Context, billID, method string, amount decimal.Decimal) (*models.Bill, error)
}

// ServiceInterface defines the contract for the payment service.
type ServiceInterface interface {
	InitiatePayment(ctx context.Context, userID string, req models.InitiatePaymentRequest) (*models.PaymentResponse, error)
	CheckStatus(ctx context.Context, transactionID string) (bool, error)
	HandleCallback(ctx context.Context, response, xVerify string) (bool, error)
}

// Service implements the gateway flow: initiate, then settle on status check or callback.
type Service struct {
	repo       RepositoryInterface
	gateway    GatewayInterface
	bills      BillSettlerInterface
	appBaseURL string
	now        func() time.Time
}

// NewService creates a new payment service. appBaseURL is this server's public
// address; redirect and callback URLs are built from it.
func NewService(repo RepositoryInterface, gw GatewayInterface, bills BillSettlerInterface, appBaseURL string) *Service {
	return &Service{
		repo:       repo,
		gateway:    gw,
		bills:      bills,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		now:        time.Now,
	}
}

// InitiatePayment records the transaction and asks the gateway for a pay page.
func (s *Service) InitiatePayment(ctx context.Context, userID string, req models.InitiatePaymentRequest) (*models.PaymentResponse, error) {
	if req.Amount == nil || !req.Amount.IsPositive() {
		return nil, models.ErrInvalidPaymentAmount
	}
	amount := req.Amount.Round(2)

	if req.BillID != nil {
		bill, err := s.bills.GetBill(ctx, *req.BillID)
		if err != nil {
			return nil, fmt.Errorf("service.InitiatePayment: %w", err)
		}
		if bill.Status == models.BillStatusPaid {
			return nil, models.ErrBillAlreadyPaid
		}
		if !bill.Total.Equal(amount) {
			return nil, models.ErrInvalidPaymentAmount
		}
	}

	txnID := strings.TrimSpace(req.TransactionID)
	if txnID == "" {
		txnID = fmt.Sprintf("T%d", s.now().UnixMilli())
	}
	merchantUserID := userID
	if merchantUserID == "" {
		merchantUserID = "MUID-" + req.MobileNumber
	}

	tx := &models.PaymentTransaction{
		ID:     txnID,
		BillID: req.BillID,
		UserID: merchantUserID,
		Amount: amount,
		State:  models.TransactionInitiated,
	}
	if err := s.repo.Create(ctx, tx); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service.InitiatePayment: %w", err)
	}

	redirectURL, err := s.gateway.Pay(ctx, gateway.PayRequest{
		MerchantTransactionID: txnID,
		MerchantUserID:        merchantUserID,
		Amount:                gateway.ToPaise(amount),
		RedirectURL:           s.appBaseURL + "/payment-status/" + txnID,
		CallbackURL:           s.appBaseURL + "/api/phonepe/callback",
		MobileNumber:          req.MobileNumber,
	})
	if err != nil {
		if uerr := s.repo.UpdateState(ctx, txnID, models.TransactionFailed); uerr != nil {
			log.Printf("payment %s: failed to mark transaction failed: %v", txnID, uerr)
		}
		return nil, fmt.Errorf("service.InitiatePayment: %w", err)
	}

	return &models.PaymentResponse{
		Success:       true,
		TransactionID: txnID,
		RedirectURL:   redirectURL,
	}, nil
}

// CheckStatus asks the gateway for the transaction's state and settles the
// linked bill on success.
func (s *Service) CheckStatus(ctx context.Context, transactionID string) (bool, error) {
	status, err := s.gateway.Status(ctx, transactionID)
	if err != nil {
		return false, fmt.Errorf("service.CheckStatus: %w", err)
	}
	if err := s.settle(ctx, transactionID, status.Paid()); err != nil {
		return false, fmt.Errorf("service.CheckStatus: %w", err)
	}
	return status.Paid(), nil
}

// HandleCallback verifies a server-to-server notification and settles the
// linked bill on success.
func (s *Service) HandleCallback(ctx context.Context, response, xVerify string) (bool, error) {
	status, err := s.gateway.VerifyCallback(response, xVerify)
	if err != nil {
		if errors.Is(err, models.ErrChecksumMismatch) {
			return false, err
		}
		return false, fmt.Errorf("service.HandleCallback: %w", err)
	}
	if err := s.settle(ctx, status.Data.MerchantTransactionID, status.Paid()); err != nil {
		return false, fmt.Errorf("service.HandleCallback: %w", err)
	}
	return status.Paid(), nil
}

// settle records the outcome once. The status check and the callback both
// land here, in either order. A paid transaction is only marked successful
// once its bill is settled.
func (s *Service) settle(ctx context.Context, transactionID string, paid bool) error {
	tx, err := s.repo.FindByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Printf("payment %s: no local record, nothing to settle", transactionID)
			return nil
		}
		return err
	}
	if tx.State == models.TransactionSuccess {
		return nil
	}

	if !paid {
		return s.repo.UpdateState(ctx, transactionID, models.TransactionFailed)
	}

	if tx.BillID != nil {
		if _, err := s.bills.MarkPaid(ctx, *tx.BillID, models.PaymentPhonePe, tx.Amount); err != nil && !errors.Is(err, models.ErrBillAlreadyPaid) {
			log.Printf("CRITICAL: payment %s succeeded but bill %s was not settled: %v", transactionID, *tx.BillID, err)
			return err
		}
	}
	return s.repo.UpdateState(ctx, transactionID, models.TransactionSuccess)
}
