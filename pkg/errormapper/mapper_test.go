package errormapper

import "testing"

func TestMapAckCode(t *testing.T) {
	tests := []struct {
		name         string
		internalCode string
		gateway      string
		want         string
	}{
		{"paypal recorded", "RECORDED", "paypal", "COMPLETED"},
		{"paypal duplicate acks completed", "DUPLICATE", "paypal", "COMPLETED"},
		{"paypal not payable", "NOT_PAYABLE", "paypal", "DENIED"},
		{"paypal bad currency", "BAD_CURRENCY", "paypal", "DENIED"},
		{"paypal system error", "SYS_ERR", "paypal", "FAILED"},
		{"paypal unknown falls back", "SOMETHING_NEW", "paypal", "FAILED"},
		{"payu recorded", "RECORDED", "payu", "success"},
		{"payu duplicate", "DUPLICATE", "payu", "success"},
		{"payu not payable", "NOT_PAYABLE", "payu", "failure"},
		{"payu unknown falls back", "SOMETHING_NEW", "payu", "error"},
		{"unmapped gateway passes internal code", "RECORDED", "esewa", "RECORDED"},
		{"gateway case insensitive", "RECORDED", "PayPal", "COMPLETED"},
		{"internal code case insensitive", "recorded", "paypal", "COMPLETED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapAckCode(tt.internalCode, tt.gateway)
			if got != tt.want {
				t.Fatalf("MapAckCode(%q, %q) = %q, want %q", tt.internalCode, tt.gateway, got, tt.want)
			}
		})
	}
}
