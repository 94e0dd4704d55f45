package model

type PaymentStatus string

const (
	PaymentNotStarted PaymentStatus = "not_started"
	PaymentPending    PaymentStatus = "pending"
	PaymentSucceeded  PaymentStatus = "succeeded"
	PaymentCancelled  PaymentStatus = "cancelled"
	PaymentFailed     PaymentStatus = "failed"
)

// PaymentAttempt tracks one gateway invocation. Amount is in the smallest
// currency unit (cents), derived from the normalized booking price.
type PaymentAttempt struct {
	Reference        string        `json:"reference"`
	Amount           int64         `json:"amount"`
	Currency         string        `json:"currency"`
	Email            string        `json:"email"`
	Status           PaymentStatus `json:"status"`
	AuthorizationURL string        `json:"authorization_url,omitempty"`
	GatewayReference string        `json:"gateway_reference,omitempty"`
}
