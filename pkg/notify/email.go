package notify

import (
	"context"
	"fmt"
	"strings"

	"laundry-service/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// ReceiptSenderInterface sends a paid-bill receipt to a customer.
type ReceiptSenderInterface interface {
	SendReceipt(ctx context.Context, to string, bill *models.Bill) error
}

// sesAPI is the subset of the SES client used here.
type sesAPI interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// SESSender delivers receipts through Amazon SES.
type SESSender struct {
	client sesAPI
	from   string
}

// NewSESSender loads AWS credentials from the default chain.
func NewSESSender(ctx context.Context, region, from string) (*SESSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("notify.NewSESSender: %w", err)
	}
	return &SESSender{client: sesv2.NewFromConfig(cfg), from: from}, nil
}

func (s *SESSender) SendReceipt(ctx context.Context, to string, bill *models.Bill) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(s.from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String("Receipt for bill " + bill.BillNumber)},
				Body:    &types.Body{Text: &types.Content{Data: aws.String(receiptBody(bill))}},
			},
		},
	}
	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("notify.SendReceipt: %w", err)
	}
	return nil
}

func receiptBody(bill *models.Bill) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for your payment.\n\nBill: %s\n", bill.CustomerName, bill.BillNumber)
	for _, it := range bill.Items {
		fmt.Fprintf(&b, "  %s x%d  %s\n", it.Name, it.Quantity, it.Total.StringFixed(2))
	}
	fmt.Fprintf(&b, "\nSubtotal: %s\nTax: %s\nTotal: %s\n", bill.Subtotal.StringFixed(2), bill.Tax.StringFixed(2), bill.Total.StringFixed(2))
	if bill.PaymentMethod != nil {
		fmt.Fprintf(&b, "Paid by: %s\n", *bill.PaymentMethod)
	}
	return b.String()
}
