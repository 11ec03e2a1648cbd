package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ngocanhle/pawshop/internal/domain"
)

// MoMoConfig holds the gateway credentials and endpoints.
type MoMoConfig struct {
	PartnerCode string
	AccessKey   string
	SecretKey   string
	EndpointURL string
	ReturnURL   string
	NotifyURL   string
}

// MoMoProvider implements Provider for MoMo. Unlike VNPay, creating a
// payment is an outbound HTTPS call; the gateway responds with a pay URL.
type MoMoProvider struct {
	cfg    MoMoConfig
	client *http.Client
}

var _ Provider = (*MoMoProvider)(nil)

// NewMoMoProvider creates a MoMo provider. A nil client gets a default with
// a 10s timeout.
func NewMoMoProvider(cfg MoMoConfig, client *http.Client) *MoMoProvider {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &MoMoProvider{cfg: cfg, client: client}
}

// Name identifies the gateway.
func (p *MoMoProvider) Name() domain.PaymentMethod {
	return domain.PaymentMethodMoMo
}

// momoCreateRequest is the create-payment payload (MoMo v2 API).
type momoCreateRequest struct {
	PartnerCode string `json:"partnerCode"`
	AccessKey   string `json:"accessKey"`
	RequestID   string `json:"requestId"`
	Amount      string `json:"amount"`
	OrderID     string `json:"orderId"`
	OrderInfo   string `json:"orderInfo"`
	RedirectURL string `json:"redirectUrl"`
	IpnURL      string `json:"ipnUrl"`
	ExtraData   string `json:"extraData"`
	RequestType string `json:"requestType"`
	Signature   string `json:"signature"`
	Lang        string `json:"lang"`
}

type momoCreateResponse struct {
	ResultCode int    `json:"resultCode"`
	Message    string `json:"message"`
	PayURL     string `json:"payUrl"`
}

// CreatePayment posts a signed create request and returns the pay URL.
// The gateway order id is "<orderID>_<unix>" so an order can be retried at
// the gateway without colliding with its earlier attempt; callbacks strip
// the suffix to recover the order id.
func (p *MoMoProvider) CreatePayment(ctx context.Context, req PaymentRequest) (string, error) {
	const op = "payment.momo.create"

	if p.cfg.PartnerCode == "" || p.cfg.AccessKey == "" || p.cfg.SecretKey == "" {
		return "", domain.Errorf(domain.EPAYMENT, op, "gateway is not configured")
	}

	requestID := uuid.NewString()
	gatewayOrderID := fmt.Sprintf("%d_%d", req.OrderID, time.Now().Unix())
	amount := strconv.FormatInt(req.Amount, 10)

	raw := fmt.Sprintf(
		"accessKey=%s&amount=%s&extraData=%s&ipnUrl=%s&orderId=%s&orderInfo=%s&partnerCode=%s&redirectUrl=%s&requestId=%s&requestType=%s",
		p.cfg.AccessKey, amount, "", p.cfg.NotifyURL, gatewayOrderID, req.OrderInfo,
		p.cfg.PartnerCode, p.cfg.ReturnURL, requestID, "captureWallet",
	)

	body := momoCreateRequest{
		PartnerCode: p.cfg.PartnerCode,
		AccessKey:   p.cfg.AccessKey,
		RequestID:   requestID,
		Amount:      amount,
		OrderID:     gatewayOrderID,
		OrderInfo:   req.OrderInfo,
		RedirectURL: p.cfg.ReturnURL,
		IpnURL:      p.cfg.NotifyURL,
		ExtraData:   "",
		RequestType: "captureWallet",
		Signature:   signMoMo(raw, p.cfg.SecretKey),
		Lang:        "vi",
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", domain.Internal(err, op, "failed to encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.EndpointURL, bytes.NewReader(payload))
	if err != nil {
		return "", domain.Internal(err, op, "failed to build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", domain.WrapError(err, domain.EPAYMENT, op, "gateway unreachable")
	}
	defer resp.Body.Close()

	var out momoCreateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", domain.WrapError(err, domain.EPAYMENT, op, "malformed gateway response")
	}

	if out.ResultCode != 0 || out.PayURL == "" {
		return "", domain.Errorf(domain.EPAYMENT, op, "gateway refused payment: %s", out.Message)
	}

	return out.PayURL, nil
}

// ParseCallback verifies the IPN/redirect signature and extracts the
// outcome. Result code 0 is success.
func (p *MoMoProvider) ParseCallback(values url.Values) (*CallbackResult, error) {
	const op = "payment.momo.callback"

	got := values.Get("signature")
	if got == "" {
		return nil, domain.Invalid(op, "missing signature")
	}

	// MoMo signs the callback over this fixed field order.
	raw := fmt.Sprintf(
		"accessKey=%s&amount=%s&extraData=%s&message=%s&orderId=%s&orderInfo=%s&orderType=%s&partnerCode=%s&payType=%s&requestId=%s&responseTime=%s&resultCode=%s&transId=%s",
		p.cfg.AccessKey, values.Get("amount"), values.Get("extraData"),
		values.Get("message"), values.Get("orderId"), values.Get("orderInfo"),
		values.Get("orderType"), values.Get("partnerCode"), values.Get("payType"),
		values.Get("requestId"), values.Get("responseTime"), values.Get("resultCode"),
		values.Get("transId"),
	)
	want := signMoMo(raw, p.cfg.SecretKey)
	if !hmac.Equal([]byte(got), []byte(want)) {
		return nil, domain.Invalid(op, "invalid callback signature")
	}

	orderID, err := parseGatewayOrderID(values.Get("orderId"))
	if err != nil {
		return nil, domain.Invalid(op, "malformed order id")
	}

	code := values.Get("resultCode")
	return &CallbackResult{
		OrderID:       orderID,
		Success:       code == "0",
		TransactionNo: values.Get("transId"),
		Message:       values.Get("message"),
	}, nil
}

// parseGatewayOrderID recovers the order id from "<id>_<suffix>". A bare
// numeric id is accepted too.
func parseGatewayOrderID(s string) (int64, error) {
	head, _, _ := strings.Cut(s, "_")
	return strconv.ParseInt(head, 10, 64)
}

// signMoMo computes the HMAC-SHA256 hex digest of raw.
func signMoMo(raw, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(raw))
	return hex.EncodeToString(mac.Sum(nil))
}
