// Package payment defines the payment gateway abstraction and its VNPay and
// MoMo implementations.
//
// A Provider does two things: build a signed redirect URL that sends the
// shopper to the gateway, and verify/parse the signed callback the gateway
// sends back. Cash on delivery never touches a Provider.
package payment

import (
	"context"
	"net/url"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// PaymentRequest describes the charge to hand off to a gateway.
type PaymentRequest struct {
	OrderID   int64
	Amount    int64 // VND
	OrderInfo string
	ClientIP  string
}

// CallbackResult is the verified outcome of a gateway callback.
type CallbackResult struct {
	OrderID       int64
	Success       bool
	TransactionNo string
	Message       string
}

// Provider is implemented per gateway.
type Provider interface {
	// Name identifies the gateway as a payment method.
	Name() domain.PaymentMethod

	// CreatePayment builds the gateway redirect URL for the request.
	// Failures here are surfaced as EPAYMENT errors; the caller is
	// expected to compensate (delete the just-created order).
	CreatePayment(ctx context.Context, req PaymentRequest) (string, error)

	// ParseCallback verifies the callback signature and extracts the
	// outcome. An invalid signature or malformed payload is an EINVALID
	// error; a well-formed rejection comes back as Success=false.
	ParseCallback(values url.Values) (*CallbackResult, error)
}
