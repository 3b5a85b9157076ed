package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SignHMAC creates a lowercase hex HMAC-SHA256 signature for a message using the provided secret
func SignHMAC(message, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(message))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMAC verifies a hex HMAC signature against a message using the provided secret.
// Malformed hex and length mismatches return false; equal-length MACs are compared in constant time.
func VerifyHMAC(message, signature, secret string) bool {
	expected, err := hex.DecodeString(SignHMAC(message, secret))
	if err != nil {
		return false
	}

	claimed, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	if len(claimed) != len(expected) {
		return false
	}

	return subtle.ConstantTimeCompare(claimed, expected) == 1
}
