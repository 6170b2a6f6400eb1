package mpesa

import (
	"context"
	"fmt"
	"sync"
)

// MockClient satisfies Client without any network calls. Responses are
// deterministic and can be swapped per test; every call is recorded.
type MockClient struct {
	mu sync.Mutex

	PushResponse  STKPushResponse
	QueryResponse STKQueryResponse
	PushErr       error
	QueryErr      error

	PushCalls  []STKPushRequest
	QueryCalls []string

	pushCount int
}

func NewMockClient() *MockClient {
	return &MockClient{
		PushResponse: STKPushResponse{
			ResponseCode:        "0",
			ResponseDescription: "Success. Request accepted for processing",
			CustomerMessage:     "Success. Request accepted for processing",
		},
		QueryResponse: STKQueryResponse{
			ResponseCode: "0",
			ResultCode:   ResultSuccess,
			ResultDesc:   "The service request is processed successfully.",
		},
	}
}

func (m *MockClient) InitiateSTKPush(ctx context.Context, req STKPushRequest) (*STKPushResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PushCalls = append(m.PushCalls, req)
	if m.PushErr != nil {
		return nil, m.PushErr
	}
	m.pushCount++
	resp := m.PushResponse
	if resp.CheckoutRequestID == "" {
		resp.CheckoutRequestID = fmt.Sprintf("ws_CO_MOCK%06d", m.pushCount)
	}
	if resp.MerchantRequestID == "" {
		resp.MerchantRequestID = fmt.Sprintf("mock-merchant-%06d", m.pushCount)
	}
	return &resp, nil
}

func (m *MockClient) QuerySTKPushStatus(ctx context.Context, checkoutRequestID string) (*STKQueryResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCalls = append(m.QueryCalls, checkoutRequestID)
	if m.QueryErr != nil {
		return nil, m.QueryErr
	}
	resp := m.QueryResponse
	return &resp, nil
}
