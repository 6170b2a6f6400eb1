// Package mpesa integrates with the Safaricom Daraja API for STK push
// payments. The Client interface is implemented by DarajaClient for real
// gateway calls and MockClient for environments without live credentials.
package mpesa

import (
	"context"
	"fmt"
)

// Gateway result codes for a previously initiated push. Any other non-zero
// code is a terminal failure.
const (
	ResultSuccess         = "0"    // payment completed
	ResultAwaitingUser    = "1"    // prompt still open on the payer's device
	ResultCancelledByUser = "1032" // payer declined on the device
)

type STKPushRequest struct {
	PhoneNumber      string
	Amount           float64
	AccountReference string
	TransactionDesc  string
}

type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// Accepted reports whether the gateway dispatched the prompt to the payer's
// device. This is only an acknowledgement, not a completed payment.
func (r *STKPushResponse) Accepted() bool {
	return r.ResponseCode == "0"
}

type STKQueryResponse struct {
	ResponseCode string `json:"ResponseCode"`
	ResultCode   string `json:"ResultCode"`
	ResultDesc   string `json:"ResultDesc"`
}

type Client interface {
	InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error)
	QuerySTKPushStatus(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error)
}

// ConfigError means required gateway credentials or settings are absent.
type ConfigError struct {
	Missing string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("m-pesa not configured: missing %s", e.Missing)
}

// GatewayError means the HTTP exchange with the gateway did not succeed.
type GatewayError struct {
	Status  string
	Message string
	Err     error
}

func (e *GatewayError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("m-pesa gateway error (%s): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("m-pesa gateway error: %s", e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }
