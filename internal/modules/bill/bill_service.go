package bill

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"
	"unicode"

	"laundry-service/internal/models"
	"laundry-service/pkg/events"
	"laundry-service/pkg/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const defaultBranch = "DEF"

// OrderLookupInterface is the part of the order service a bill needs.
type OrderLookupInterface interface {
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// CustomerLookupInterface finds the customer a receipt is sent to.
type CustomerLookupInterface interface {
	GetCustomer(ctx context.Context, id string) (*models.Customer, error)
}

// CardChargerInterface defines the contract for a card payment processor.
type CardChargerInterface interface {
	ProcessPayment(ctx context.Context, userID string, amount decimal.Decimal, paymentMethodID string) (string, error)
}

// ServiceInterface defines the contract for the bill service.
type ServiceInterface interface {
	CreateBill(ctx context.Context, req models.CreateBillRequest) (*models.Bill, error)
	GetBill(ctx context.Context, billID string) (*models.Bill, error)
	GetBillByOrder(ctx context.Context, orderID string) (*models.Bill, error)
	ListBills(ctx context.Context, filter ListFilter) ([]*models.Bill, error)
	UpdateBillPayment(ctx context.Context, billID string, req models.BillPaymentRequest) (*models.Bill, error)
	ChargeCard(ctx context.Context, billID, userID, paymentMethodID string) (*models.Bill, error)
	MarkPaid(ctx context.Context, billID, method string, amount decimal.Decimal) (*models.Bill, error)
}

// Service implements the bill service logic.
type Service struct {
	repo      RepositoryInterface
	orders    OrderLookupInterface
	customers CustomerLookupInterface
	card      CardChargerInterface        // nil when card payments are not configured
	receipts  notify.ReceiptSenderInterface // nil when email is not configured
	publisher events.PublisherInterface
	taxRate   decimal.Decimal
}

// NewService creates a new bill service.
func NewService(
	repo RepositoryInterface,
	orders OrderLookupInterface,
	customers CustomerLookupInterface,
	card CardChargerInterface,
	receipts notify.ReceiptSenderInterface,
	publisher events.PublisherInterface,
	taxRate decimal.Decimal,
) *Service {
	return &Service{
		repo:      repo,
		orders:    orders,
		customers: customers,
		card:      card,
		receipts:  receipts,
		publisher: publisher,
		taxRate:   taxRate,
	}
}

// BranchCode turns a free-form branch name into the 3-character code used in
// bill numbers: uppercased, alphanumerics only, padded with X. Empty input
// maps to DEF.
func BranchCode(branch string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(branch) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			if b.Len() == 3 {
				break
			}
		}
	}
	if b.Len() == 0 {
		return defaultBranch
	}
	code := b.String()
	return code + strings.Repeat("X", 3-len(code))
}

// FormatBillNumber renders VK-<branch>-<seq>, with seq zero-padded to 4 digits.
func FormatBillNumber(branch string, seq int64) string {
	return fmt.Sprintf("VK-%s-%04d", branch, seq)
}

func counterID(branch string) string {
	return "bills_" + branch
}

// CreateBill prices the items, takes the next number in the branch sequence
// and stores the bill as pending. When the bill is for an order, the order
// is linked back to it in the same write.
func (s *Service) CreateBill(ctx context.Context, req models.CreateBillRequest) (*models.Bill, error) {
	items := req.Items
	if req.OrderID != nil {
		order, err := s.orders.GetOrder(ctx, *req.OrderID)
		if err != nil {
			return nil, fmt.Errorf("service.CreateBill: %w", err)
		}
		if _, err := s.repo.FindByOrderID(ctx, order.ID); err == nil {
			return nil, models.ErrConflict
		} else if !errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("service.CreateBill: %w", err)
		}
		if len(items) == 0 {
			items = order.Items
		}
	}

	priced, err := priceItems(items)
	if err != nil {
		return nil, err
	}
	subtotal := models.SumItems(priced)
	if req.Subtotal != nil && !req.Subtotal.Equal(subtotal) {
		return nil, models.ErrSubtotalMismatch
	}

	tax := subtotal.Mul(s.taxRate).Round(2)
	if req.Tax != nil {
		if req.Tax.IsNegative() {
			return nil, models.ErrInvalidPaymentAmount
		}
		tax = *req.Tax
	}

	branch := BranchCode(req.Branch)
	seq, err := s.repo.NextSequence(ctx, counterID(branch))
	if err != nil {
		return nil, fmt.Errorf("service.CreateBill: %w", err)
	}

	bill := &models.Bill{
		ID:            uuid.NewString(),
		BillNumber:    FormatBillNumber(branch, seq),
		OrderID:       req.OrderID,
		CustomerID:    strings.TrimSpace(req.CustomerID),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Items:         priced,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		AmountPaid:    decimal.Zero,
		Status:        models.BillStatusPending,
	}
	if err := s.repo.Create(ctx, bill); err != nil {
		if errors.Is(err, models.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service.CreateBill: %w", err)
	}

	s.publish(ctx, events.BillCreated, bill)
	return bill, nil
}

// priceItems recomputes every line total so a bill never trusts client arithmetic.
func priceItems(items []models.OrderItem) ([]models.OrderItem, error) {
	if len(items) == 0 {
		return nil, models.ErrInvalidItems
	}
	priced := make([]models.OrderItem, 0, len(items))
	for _, it := range items {
		if it.Quantity < 1 || it.Price.IsNegative() {
			return nil, models.ErrInvalidItems
		}
		priced = append(priced, models.NewOrderItem(it.LaundryItem, it.Quantity))
	}
	return priced, nil
}

func (s *Service) GetBill(ctx context.Context, billID string) (*models.Bill, error) {
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("service.GetBill: %w", err)
	}
	return bill, nil
}

func (s *Service) GetBillByOrder(ctx context.Context, orderID string) (*models.Bill, error) {
	bill, err := s.repo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("service.GetBillByOrder: %w", err)
	}
	return bill, nil
}

func (s *Service) ListBills(ctx context.Context, filter ListFilter) ([]*models.Bill, error) {
	bills, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("service.ListBills: %w", err)
	}
	return bills, nil
}

// UpdateBillPayment records a payment against a pending bill.
//
// With no pending amount (or pending <= 0) the bill is settled: status paid,
// payment date stamped. With a positive pending amount the bill stays pending
// and its total becomes the remaining balance. Either way the amount paid
// accumulates, defaulting to whatever the payment covers.
func (s *Service) UpdateBillPayment(ctx context.Context, billID string, req models.BillPaymentRequest) (*models.Bill, error) {
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateBillPayment: %w", err)
	}
	if bill.Status == models.BillStatusPaid {
		return nil, models.ErrBillAlreadyPaid
	}

	update, err := planPayment(bill, req, time.Now())
	if err != nil {
		return nil, err
	}
	return s.applyPayment(ctx, billID, update)
}

// planPayment works out the settlement for req without touching storage.
func planPayment(bill *models.Bill, req models.BillPaymentRequest, now time.Time) (PaymentUpdate, error) {
	partial := req.PendingAmount != nil && req.PendingAmount.IsPositive()

	if !partial {
		paid := bill.Total
		if req.PaidAmount != nil {
			paid = *req.PaidAmount
		}
		if paid.IsNegative() {
			return PaymentUpdate{}, models.ErrInvalidPaymentAmount
		}
		return PaymentUpdate{
			Status:      models.BillStatusPaid,
			Method:      req.Method,
			PaymentDate: &now,
			Total:       bill.Total,
			Paid:        paid,
		}, nil
	}

	pending := *req.PendingAmount
	if pending.GreaterThanOrEqual(bill.Total) {
		return PaymentUpdate{}, models.ErrInvalidPaymentAmount
	}
	paid := bill.Total.Sub(pending)
	if req.PaidAmount != nil {
		paid = *req.PaidAmount
	}
	if !paid.IsPositive() {
		return PaymentUpdate{}, models.ErrInvalidPaymentAmount
	}
	return PaymentUpdate{
		Status: models.BillStatusPending,
		Method: req.Method,
		Total:  pending,
		Paid:   paid,
	}, nil
}

// ChargeCard charges the outstanding total through the card processor and
// settles the bill.
func (s *Service) ChargeCard(ctx context.Context, billID, userID, paymentMethodID string) (*models.Bill, error) {
	if s.card == nil {
		return nil, models.ErrPaymentUnavailable
	}
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("service.ChargeCard: %w", err)
	}
	if bill.Status == models.BillStatusPaid {
		return nil, models.ErrBillAlreadyPaid
	}

	chargeID, err := s.card.ProcessPayment(ctx, userID, bill.Total, paymentMethodID)
	if err != nil {
		return nil, fmt.Errorf("service.ChargeCard: %w", err)
	}

	paid, err := s.MarkPaid(ctx, billID, models.PaymentCard, bill.Total)
	if err != nil {
		// The customer has been charged; this needs manual reconciliation.
		log.Printf("CRITICAL: card charge %s succeeded but bill %s was not settled: %v", chargeID, billID, err)
		return nil, fmt.Errorf("service.ChargeCard: %w", err)
	}
	return paid, nil
}

// MarkPaid settles a bill in full for amount. Used after a gateway confirms payment.
func (s *Service) MarkPaid(ctx context.Context, billID, method string, amount decimal.Decimal) (*models.Bill, error) {
	bill, err := s.repo.FindByID(ctx, billID)
	if err != nil {
		return nil, fmt.Errorf("service.MarkPaid: %w", err)
	}
	if bill.Status == models.BillStatusPaid {
		return nil, models.ErrBillAlreadyPaid
	}
	now := time.Now()
	return s.applyPayment(ctx, billID, PaymentUpdate{
		Status:      models.BillStatusPaid,
		Method:      method,
		PaymentDate: &now,
		Total:       bill.Total,
		Paid:        amount,
	})
}

func (s *Service) applyPayment(ctx context.Context, billID string, update PaymentUpdate) (*models.Bill, error) {
	bill, err := s.repo.UpdatePayment(ctx, billID, update)
	if err != nil {
		if errors.Is(err, models.ErrBillAlreadyPaid) {
			return nil, err
		}
		return nil, fmt.Errorf("service.UpdateBillPayment: %w", err)
	}
	if bill.Status == models.BillStatusPaid {
		s.publish(ctx, events.BillPaid, bill)
		s.sendReceipt(ctx, bill)
	}
	return bill, nil
}

func (s *Service) sendReceipt(ctx context.Context, bill *models.Bill) {
	if s.receipts == nil || s.customers == nil {
		return
	}
	customer, err := s.customers.GetCustomer(ctx, bill.CustomerID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			log.Printf("bill %s: customer lookup for receipt failed: %v", bill.ID, err)
		}
		return
	}
	if customer.Email == nil || *customer.Email == "" {
		return
	}
	if err := s.receipts.SendReceipt(ctx, *customer.Email, bill); err != nil {
		log.Printf("bill %s: failed to send receipt: %v", bill.ID, err)
	}
}

func (s *Service) publish(ctx context.Context, key string, bill *models.Bill) {
	if err := s.publisher.Publish(ctx, key, bill); err != nil {
		log.Printf("bill %s: failed to publish %s: %v", bill.ID, key, err)
	}
}
