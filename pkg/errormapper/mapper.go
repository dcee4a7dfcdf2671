package errormapper

import (
	"log/slog"
	"strings"
)

// Gateways use different acknowledgement vocabularies for callback
// responses. Map internal dispositions to what each gateway expects. Expand
// as gateway integrations grow.
var internalToPayPal = map[string]string{
	"RECORDED":     "COMPLETED",
	"DUPLICATE":    "COMPLETED", // PayPal treats a replayed IPN ack the same
	"NOT_PAYABLE":  "DENIED",
	"BAD_CURRENCY": "DENIED",
	"SYS_ERR":      "FAILED",
}

var internalToPayU = map[string]string{
	"RECORDED":     "success",
	"DUPLICATE":    "success",
	"NOT_PAYABLE":  "failure",
	"BAD_CURRENCY": "failure",
	"SYS_ERR":      "error",
}

// MapAckCode translates an internal reconciliation disposition into the
// acknowledgement code the gateway's callback contract expects.
func MapAckCode(internalCode string, gateway string) string {
	gateway = strings.ToLower(gateway)
	internalCode = strings.ToUpper(internalCode)

	var targetMap map[string]string
	var defaultCode string

	switch gateway {
	case "paypal":
		targetMap = internalToPayPal
		defaultCode = "FAILED"
	case "payu":
		targetMap = internalToPayU
		defaultCode = "error"
	default:
		// Gateways without a dedicated ack vocabulary get the internal code.
		return internalCode
	}

	if mappedCode, ok := targetMap[internalCode]; ok {
		return mappedCode
	}

	slog.Debug("No specific mapping found for ack code, returning default",
		slog.String("internal_code", internalCode),
		slog.String("gateway", gateway),
		slog.String("default_code", defaultCode),
	)
	return defaultCode
}
