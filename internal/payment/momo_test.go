package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngocanhle/pawshop/internal/domain"
)

func testMoMoConfig(endpoint string) MoMoConfig {
	return MoMoConfig{
		PartnerCode: "MOMOTEST",
		AccessKey:   "access",
		SecretKey:   "secret",
		EndpointURL: endpoint,
		ReturnURL:   "http://localhost:3000/webhooks/momo/return",
		NotifyURL:   "http://localhost:3000/webhooks/momo/notify",
	}
}

func TestMoMoProvider_CreatePayment(t *testing.T) {
	var received momoCreateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		json.NewEncoder(w).Encode(momoCreateResponse{
			ResultCode: 0,
			Message:    "Success",
			PayURL:     "https://test-payment.momo.vn/pay/abc",
		})
	}))
	defer srv.Close()

	p := NewMoMoProvider(testMoMoConfig(srv.URL), srv.Client())

	payURL, err := p.CreatePayment(context.Background(), PaymentRequest{
		OrderID:   42,
		Amount:    190000,
		OrderInfo: "Order 42",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://test-payment.momo.vn/pay/abc", payURL)

	assert.Equal(t, "MOMOTEST", received.PartnerCode)
	assert.Equal(t, "190000", received.Amount)
	assert.Equal(t, "captureWallet", received.RequestType)

	// Gateway order id keeps the order id recoverable.
	id, err := parseGatewayOrderID(received.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	// Signature must verify over the documented field order.
	raw := "accessKey=access&amount=190000&extraData=&ipnUrl=" + p.cfg.NotifyURL +
		"&orderId=" + received.OrderID + "&orderInfo=Order 42&partnerCode=MOMOTEST" +
		"&redirectUrl=" + p.cfg.ReturnURL + "&requestId=" + received.RequestID +
		"&requestType=captureWallet"
	assert.Equal(t, signMoMo(raw, "secret"), received.Signature)
}

func TestMoMoProvider_CreatePayment_GatewayRefuses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(momoCreateResponse{ResultCode: 41, Message: "Duplicate order"})
	}))
	defer srv.Close()

	p := NewMoMoProvider(testMoMoConfig(srv.URL), srv.Client())

	_, err := p.CreatePayment(context.Background(), PaymentRequest{OrderID: 42, Amount: 1000})
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
}

func TestMoMoProvider_CreatePayment_GatewayDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // refuse connections

	p := NewMoMoProvider(testMoMoConfig(srv.URL), nil)

	_, err := p.CreatePayment(context.Background(), PaymentRequest{OrderID: 42, Amount: 1000})
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
}

func TestMoMoProvider_CreatePayment_Unconfigured(t *testing.T) {
	p := NewMoMoProvider(MoMoConfig{}, nil)

	_, err := p.CreatePayment(context.Background(), PaymentRequest{OrderID: 1, Amount: 1000})
	assert.Equal(t, domain.EPAYMENT, domain.ErrorCode(err))
}

// signedMoMoCallback builds a callback signed with the test secret.
func signedMoMoCallback(orderID, resultCode string) url.Values {
	values := url.Values{}
	values.Set("partnerCode", "MOMOTEST")
	values.Set("orderId", orderID)
	values.Set("requestId", "req-1")
	values.Set("amount", "190000")
	values.Set("orderInfo", "Order 42")
	values.Set("orderType", "momo_wallet")
	values.Set("transId", "2588659987")
	values.Set("resultCode", resultCode)
	values.Set("message", "Successful.")
	values.Set("payType", "qr")
	values.Set("responseTime", "1718445000000")
	values.Set("extraData", "")

	raw := "accessKey=access&amount=" + values.Get("amount") +
		"&extraData=" + values.Get("extraData") +
		"&message=" + values.Get("message") +
		"&orderId=" + values.Get("orderId") +
		"&orderInfo=" + values.Get("orderInfo") +
		"&orderType=" + values.Get("orderType") +
		"&partnerCode=" + values.Get("partnerCode") +
		"&payType=" + values.Get("payType") +
		"&requestId=" + values.Get("requestId") +
		"&responseTime=" + values.Get("responseTime") +
		"&resultCode=" + values.Get("resultCode") +
		"&transId=" + values.Get("transId")
	values.Set("signature", signMoMo(raw, "secret"))
	return values
}

func TestMoMoProvider_ParseCallback_Success(t *testing.T) {
	p := NewMoMoProvider(testMoMoConfig(""), nil)

	res, err := p.ParseCallback(signedMoMoCallback("42_1718445000", "0"))
	require.NoError(t, err)

	assert.Equal(t, int64(42), res.OrderID)
	assert.True(t, res.Success)
	assert.Equal(t, "2588659987", res.TransactionNo)
}

func TestMoMoProvider_ParseCallback_Rejected(t *testing.T) {
	p := NewMoMoProvider(testMoMoConfig(""), nil)

	res, err := p.ParseCallback(signedMoMoCallback("42_1718445000", "1006"))
	require.NoError(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, int64(42), res.OrderID)
}

func TestMoMoProvider_ParseCallback_BadSignature(t *testing.T) {
	p := NewMoMoProvider(testMoMoConfig(""), nil)

	values := signedMoMoCallback("42_1718445000", "0")
	values.Set("amount", "1") // tamper after signing

	_, err := p.ParseCallback(values)
	assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
}

func TestParseGatewayOrderID(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"42_1718445000", 42, false},
		{"42", 42, false},
		{"42_abc_def", 42, false},
		{"abc_42", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := parseGatewayOrderID(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}
