package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"steadyhotel/pkg/paystack"
)

// PaymentGateway abstracts the payment provider. Both calls block until
// the gateway answers; callers decide how to react to each outcome.
type PaymentGateway interface {
	Initialize(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InitializedTransaction, error)
	Verify(ctx context.Context, reference string) (*paystack.Transaction, error)
}

type paystackGateway struct {
	client *paystack.Client
}

func NewPaystackGateway(client *paystack.Client) PaymentGateway {
	return &paystackGateway{client: client}
}

func (g *paystackGateway) Initialize(ctx context.Context, req *paystack.InitializeRequest) (*paystack.InitializedTransaction, error) {
	return g.client.InitializeTransaction(ctx, req)
}

func (g *paystackGateway) Verify(ctx context.Context, reference string) (*paystack.Transaction, error) {
	return g.client.VerifyTransaction(ctx, reference)
}

// NewPaymentReference builds a unique gateway reference:
// BOOK-<unix millis>-<first 8 uuid chars>.
func NewPaymentReference() string {
	id := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	return fmt.Sprintf("BOOK-%d-%s", time.Now().UnixMilli(), id)
}
