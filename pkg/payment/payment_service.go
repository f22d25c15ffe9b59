package payment

import (
	"context"
	"fmt"

	"laundry-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

// ServiceInterface defines the contract for a card payment processing service.
type ServiceInterface interface {
	ProcessPayment(ctx context.Context, userID string, amount decimal.Decimal, paymentMethodID string) (string, error)
}

// paymentIntents is the part of the Stripe client used to charge cards.
type paymentIntents interface {
	New(params *stripe.PaymentIntentParams) (*stripe.PaymentIntent, error)
}

// StripeService charges cards with confirmed PaymentIntents in INR.
type StripeService struct {
	intents paymentIntents
}

func NewStripeService(apiKey string) *StripeService {
	sc := client.New(apiKey, nil)
	return &StripeService{intents: sc.PaymentIntents}
}

// ProcessPayment creates and confirms a PaymentIntent for amount and returns its id.
func (s *StripeService) ProcessPayment(ctx context.Context, userID string, amount decimal.Decimal, paymentMethodID string) (string, error) {
	paise := ToPaise(amount)
	if paise <= 0 {
		return "", models.ErrInvalidPaymentAmount
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(paise),
		Currency:           stripe.String(string(stripe.CurrencyINR)),
		PaymentMethod:      stripe.String(paymentMethodID),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Confirm:            stripe.Bool(true),
	}
	params.Context = ctx
	params.AddMetadata("user_id", userID)

	pi, err := s.intents.New(params)
	if err != nil {
		return "", fmt.Errorf("stripe: create payment intent: %w", err)
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return "", fmt.Errorf("stripe: payment intent %s is %s", pi.ID, pi.Status)
	}
	return pi.ID, nil
}
