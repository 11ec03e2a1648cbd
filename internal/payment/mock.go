package payment

import (
	"context"
	"net/url"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// MockProvider is a configurable fake for tests. Unset funcs fall back to
// benign defaults.
type MockProvider struct {
	NameValue         domain.PaymentMethod
	CreatePaymentFunc func(ctx context.Context, req PaymentRequest) (string, error)
	ParseCallbackFunc func(values url.Values) (*CallbackResult, error)

	// CreateCalls records every CreatePayment invocation.
	CreateCalls []PaymentRequest
}

var _ Provider = (*MockProvider)(nil)

func (m *MockProvider) Name() domain.PaymentMethod {
	if m.NameValue != "" {
		return m.NameValue
	}
	return domain.PaymentMethodVNPay
}

func (m *MockProvider) CreatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	m.CreateCalls = append(m.CreateCalls, req)
	if m.CreatePaymentFunc != nil {
		return m.CreatePaymentFunc(ctx, req)
	}
	return "https://gateway.example/pay", nil
}

func (m *MockProvider) ParseCallback(values url.Values) (*CallbackResult, error) {
	if m.ParseCallbackFunc != nil {
		return m.ParseCallbackFunc(values)
	}
	return &CallbackResult{Success: true}, nil
}
