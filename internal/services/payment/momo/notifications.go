package momo

import (
	"fmt"
	"strings"
)

// StateCompleted is the only provider state that settles a payment
const StateCompleted = "COMPLETED"

// Notification field names as sent by the provider
const (
	FieldMerchantOrderID = "merchantOrderId"
	FieldTransactionID   = "transactionId"
	FieldState           = "state"
	FieldAmount          = "amount"
	FieldCurrency        = "currency"
	FieldSignature       = "signature"
	FieldPayerMsisdn     = "payerMsisdn"
)

var requiredFields = []string{
	FieldMerchantOrderID,
	FieldTransactionID,
	FieldState,
	FieldAmount,
	FieldCurrency,
	FieldSignature,
}

// Notification represents a payment status notification from the mobile money provider.
// Amount stays a string so it is recorded exactly as transmitted.
type Notification struct {
	MerchantOrderID string `json:"merchantOrderId"`
	TransactionID   string `json:"transactionId"`
	State           string `json:"state"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	Signature       string `json:"signature"`
	PayerMsisdn     string `json:"payerMsisdn,omitempty"`
}

// ValidationError is returned when a notification payload does not match the provider schema
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid notification field %q: %s", e.Field, e.Reason)
}

// ParseNotification validates a decoded JSON object and converts it into a Notification.
// Unknown fields are ignored.
func ParseNotification(raw map[string]interface{}) (Notification, error) {
	if raw == nil {
		return Notification{}, &ValidationError{Field: "", Reason: "payload must be a JSON object"}
	}

	values := make(map[string]string, len(requiredFields))
	for _, field := range requiredFields {
		value, ok := raw[field]
		if !ok || value == nil {
			return Notification{}, &ValidationError{Field: field, Reason: "missing"}
		}
		str, ok := value.(string)
		if !ok {
			return Notification{}, &ValidationError{Field: field, Reason: fmt.Sprintf("expected string, got %s", jsonType(value))}
		}
		// An empty value is left out of the canonical string, so it must not pass as present
		if str == "" {
			return Notification{}, &ValidationError{Field: field, Reason: "empty"}
		}
		values[field] = str
	}

	notification := Notification{
		MerchantOrderID: values[FieldMerchantOrderID],
		TransactionID:   values[FieldTransactionID],
		State:           values[FieldState],
		Amount:          values[FieldAmount],
		Currency:        values[FieldCurrency],
		Signature:       values[FieldSignature],
	}

	if value, ok := raw[FieldPayerMsisdn]; ok && value != nil {
		str, ok := value.(string)
		if !ok {
			return Notification{}, &ValidationError{Field: FieldPayerMsisdn, Reason: fmt.Sprintf("expected string, got %s", jsonType(value))}
		}
		notification.PayerMsisdn = str
	}

	return notification, nil
}

// Fields returns every signed field of the notification keyed by its wire name
func (n Notification) Fields() map[string]interface{} {
	return map[string]interface{}{
		FieldMerchantOrderID: n.MerchantOrderID,
		FieldTransactionID:   n.TransactionID,
		FieldState:           n.State,
		FieldAmount:          n.Amount,
		FieldCurrency:        n.Currency,
		FieldPayerMsisdn:     n.PayerMsisdn,
	}
}

// CanonicalString returns the string the provider signs for this notification
func (n Notification) CanonicalString() string {
	return Canonicalize(n.Fields())
}

// IsCompleted reports whether the notification should settle the payment
func (n Notification) IsCompleted() bool {
	return n.State == StateCompleted
}

func jsonType(value interface{}) string {
	switch value.(type) {
	case bool:
		return "boolean"
	case float64, int, int64, float32:
		return "number"
	case map[string]interface{}:
		return "object"
	case []interface{}:
		return "array"
	default:
		return strings.TrimPrefix(fmt.Sprintf("%T", value), "json.")
	}
}
