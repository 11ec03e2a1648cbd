package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// vnpDateFormat is VNPay's yyyyMMddHHmmss timestamp layout.
const vnpDateFormat = "20060102150405"

// VNPayConfig holds the gateway credentials and endpoints.
type VNPayConfig struct {
	TmnCode    string
	HashSecret string
	PaymentURL string
	ReturnURL  string

	// Now overrides the clock in tests. Nil means time.Now.
	Now func() time.Time
}

// VNPayProvider implements Provider for VNPay. The redirect URL is built and
// signed locally; no outbound HTTP call is needed.
type VNPayProvider struct {
	cfg VNPayConfig
}

var _ Provider = (*VNPayProvider)(nil)

// NewVNPayProvider creates a VNPay provider.
func NewVNPayProvider(cfg VNPayConfig) *VNPayProvider {
	return &VNPayProvider{cfg: cfg}
}

// Name identifies the gateway.
func (p *VNPayProvider) Name() domain.PaymentMethod {
	return domain.PaymentMethodVNPay
}

// CreatePayment builds the signed vpcpay URL. The order id rides along
// verbatim as vnp_TxnRef and comes back unchanged in the callback.
func (p *VNPayProvider) CreatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	const op = "payment.vnpay.create"

	if p.cfg.TmnCode == "" || p.cfg.HashSecret == "" {
		return "", domain.Errorf(domain.EPAYMENT, op, "gateway is not configured")
	}

	now := time.Now()
	if p.cfg.Now != nil {
		now = p.cfg.Now()
	}

	params := url.Values{}
	params.Set("vnp_Version", "2.1.0")
	params.Set("vnp_Command", "pay")
	params.Set("vnp_TmnCode", p.cfg.TmnCode)
	// VNPay expects the amount multiplied by 100.
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_CreateDate", now.Format(vnpDateFormat))
	params.Set("vnp_CurrCode", "VND")
	params.Set("vnp_IpAddr", req.ClientIP)
	params.Set("vnp_Locale", "vn")
	params.Set("vnp_OrderInfo", req.OrderInfo)
	params.Set("vnp_OrderType", "other")
	params.Set("vnp_ReturnUrl", p.cfg.ReturnURL)
	params.Set("vnp_TxnRef", strconv.FormatInt(req.OrderID, 10))

	signed := signVNPay(params, p.cfg.HashSecret)
	params.Set("vnp_SecureHash", signed)

	return p.cfg.PaymentURL + "?" + params.Encode(), nil
}

// ParseCallback verifies the secure hash and extracts the outcome.
// Response code "00" is the gateway's only success value.
func (p *VNPayProvider) ParseCallback(values url.Values) (*CallbackResult, error) {
	const op = "payment.vnpay.callback"

	got := values.Get("vnp_SecureHash")
	if got == "" {
		return nil, domain.Invalid(op, "missing secure hash")
	}

	// Recompute over everything except the hash fields.
	unsigned := url.Values{}
	for k, vs := range values {
		if k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		for _, v := range vs {
			unsigned.Add(k, v)
		}
	}
	want := signVNPay(unsigned, p.cfg.HashSecret)
	if !hmac.Equal([]byte(strings.ToLower(got)), []byte(want)) {
		return nil, domain.Invalid(op, "invalid callback signature")
	}

	orderID, err := strconv.ParseInt(values.Get("vnp_TxnRef"), 10, 64)
	if err != nil {
		return nil, domain.Invalid(op, "malformed transaction reference")
	}

	code := values.Get("vnp_ResponseCode")
	return &CallbackResult{
		OrderID:       orderID,
		Success:       code == "00",
		TransactionNo: values.Get("vnp_TransactionNo"),
		Message:       code,
	}, nil
}

// signVNPay computes the HMAC-SHA512 hex digest over the params sorted by
// key and URL-encoded, VNPay's documented signing scheme.
func signVNPay(params url.Values, secret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(params.Get(k)))
	}

	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(b.String()))
	return hex.EncodeToString(mac.Sum(nil))
}
