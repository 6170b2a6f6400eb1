package mpesa

import (
	"context"
	"encoding/base64"
	"log"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	sandboxBaseURL = "https://sandbox.safaricom.co.ke"
	liveBaseURL    = "https://api.safaricom.co.ke"

	// Daraja hard limits; overflow is truncated, not rejected.
	accountReferenceMaxLen = 12
	transactionDescMaxLen  = 13
)

type DarajaOptions struct {
	Environment    string // "sandbox" (default) or "live"
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	CallbackURL    string
	BaseURL        string // overrides Environment when set, used by tests
}

// DarajaClient is the live gateway client.
type DarajaClient struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	shortcode      string
	passkey        string
	callbackURL    string
	http           *resty.Client
}

func NewDarajaClient(opts DarajaOptions) *DarajaClient {
	baseURL := opts.BaseURL
	if baseURL == "" {
		if opts.Environment == "live" {
			baseURL = liveBaseURL
		} else {
			baseURL = sandboxBaseURL
		}
	}
	return &DarajaClient{
		baseURL:        baseURL,
		consumerKey:    opts.ConsumerKey,
		consumerSecret: opts.ConsumerSecret,
		shortcode:      opts.Shortcode,
		passkey:        opts.Passkey,
		callbackURL:    opts.CallbackURL,
		http:           resty.New().SetTimeout(10 * time.Second),
	}
}

// AccessToken exchanges the consumer key/secret for a short-lived bearer
// token via the OAuth endpoint.
func (c *DarajaClient) AccessToken(ctx context.Context) (string, error) {
	if c.consumerKey == "" || c.consumerSecret == "" {
		return "", &ConfigError{Missing: "MPESA_CONSUMER_KEY/MPESA_CONSUMER_SECRET"}
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.consumerKey, c.consumerSecret).
		SetResult(&out).
		Get(c.baseURL + "/oauth/v1/generate?grant_type=client_credentials")
	if err != nil {
		return "", &GatewayError{Message: "failed to get access token", Err: err}
	}
	if resp.IsError() {
		return "", &GatewayError{Status: resp.Status(), Message: "failed to get access token"}
	}
	return out.AccessToken, nil
}

// timestamp is the gateway's YYYYMMDDHHmmss format.
func timestamp(now time.Time) string {
	return now.Format("20060102150405")
}

// password signs the push: base64(shortcode+passkey+timestamp).
func (c *DarajaClient) password(ts string) string {
	return base64.StdEncoding.EncodeToString([]byte(c.shortcode + c.passkey + ts))
}

func truncate(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func (c *DarajaClient) InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	if c.shortcode == "" || c.passkey == "" {
		return nil, &ConfigError{Missing: "MPESA_SHORTCODE/MPESA_PASSKEY"}
	}
	if c.callbackURL == "" {
		return nil, &ConfigError{Missing: "MPESA_CALLBACK_URL"}
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := timestamp(time.Now())
	phone := FormatPhoneNumber(req.PhoneNumber)

	payload := map[string]interface{}{
		"BusinessShortCode": c.shortcode,
		"Password":          c.password(ts),
		"Timestamp":         ts,
		"TransactionType":   "CustomerPayBillOnline",
		// The gateway only takes whole currency units.
		"Amount":           int64(math.Round(req.Amount)),
		"PartyA":           phone,
		"PartyB":           c.shortcode,
		"PhoneNumber":      phone,
		"CallBackURL":      c.callbackURL,
		"AccountReference": truncate(req.AccountReference, accountReferenceMaxLen),
		"TransactionDesc":  truncate(req.TransactionDesc, transactionDescMaxLen),
	}

	var out STKPushResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&out).
		Post(c.baseURL + "/mpesa/stkpush/v1/processrequest")
	if err != nil {
		return nil, &GatewayError{Message: "STK push request failed", Err: err}
	}
	if resp.IsError() {
		log.Printf("M-Pesa STK push error: %s %s", resp.Status(), resp.String())
		return nil, &GatewayError{Status: resp.Status(), Message: "failed to initiate M-Pesa payment"}
	}
	return &out, nil
}

func (c *DarajaClient) QuerySTKPushStatus(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error) {
	if c.shortcode == "" || c.passkey == "" {
		return nil, &ConfigError{Missing: "MPESA_SHORTCODE/MPESA_PASSKEY"}
	}

	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	ts := timestamp(time.Now())
	payload := map[string]interface{}{
		"BusinessShortCode": c.shortcode,
		"Password":          c.password(ts),
		"Timestamp":         ts,
		"CheckoutRequestID": checkoutRequestID,
	}

	var out STKQueryResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		SetResult(&out).
		Post(c.baseURL + "/mpesa/stkpushquery/v1/query")
	if err != nil {
		return nil, &GatewayError{Message: "status query request failed", Err: err}
	}
	if resp.IsError() {
		return nil, &GatewayError{Status: resp.Status(), Message: "failed to query M-Pesa transaction status"}
	}
	return &out, nil
}
