package mpesa

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// CallbackEnvelope is the fixed shape of the gateway's server-to-server
// webhook delivery.
type CallbackEnvelope struct {
	Body struct {
		STKCallback STKCallback `json:"stkCallback"`
	} `json:"Body"`
}

type STKCallback struct {
	MerchantRequestID string            `json:"MerchantRequestID"`
	CheckoutRequestID string            `json:"CheckoutRequestID"`
	ResultCode        int               `json:"ResultCode"`
	ResultDesc        string            `json:"ResultDesc"`
	CallbackMetadata  *CallbackMetadata `json:"CallbackMetadata,omitempty"`
}

type CallbackMetadata struct {
	Item []CallbackItem `json:"Item"`
}

type CallbackItem struct {
	Name  string      `json:"Name"`
	Value interface{} `json:"Value,omitempty"`
}

// ReceiptAndDate pulls the receipt number and transaction date out of the
// callback metadata by their well-known field names. Either may be empty.
func (c *STKCallback) ReceiptAndDate() (receipt, transactionDate string) {
	if c.CallbackMetadata == nil {
		return "", ""
	}
	for _, item := range c.CallbackMetadata.Item {
		switch item.Name {
		case "MpesaReceiptNumber":
			receipt = itemValueString(item.Value)
		case "TransactionDate":
			transactionDate = itemValueString(item.Value)
		}
	}
	return receipt, transactionDate
}

func itemValueString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		// TransactionDate arrives as a JSON number like 20250901123456.
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}
