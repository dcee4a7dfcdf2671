package payments

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func decPtr(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d := dec(t, s)
	return &d
}

func TestFeeScheduleFeeFor(t *testing.T) {
	tests := []struct {
		name     string
		schedule FeeSchedule
		amount   string
		want     string
	}{
		{
			name:     "percent plus fixed",
			schedule: FeeSchedule{PercentFee: dec(t, "2.9"), FixedFee: dec(t, "0.30")},
			amount:   "100",
			want:     "3.2",
		},
		{
			name:     "zero amount charges fixed only",
			schedule: FeeSchedule{PercentFee: dec(t, "2.9"), FixedFee: dec(t, "0.30")},
			amount:   "0",
			want:     "0.30",
		},
		{
			name: "min fee floor applies",
			schedule: FeeSchedule{
				PercentFee: dec(t, "2"), FixedFee: dec(t, "0"),
				MinFee: decPtr(t, "1.50"),
			},
			amount: "10",
			want:   "1.50",
		},
		{
			name: "max fee cap applies",
			schedule: FeeSchedule{
				PercentFee: dec(t, "2"), FixedFee: dec(t, "0"),
				MaxFee: decPtr(t, "5"),
			},
			amount: "10000",
			want:   "5",
		},
		{
			name: "fee inside caps unchanged",
			schedule: FeeSchedule{
				PercentFee: dec(t, "2"), FixedFee: dec(t, "1"),
				MinFee: decPtr(t, "1"), MaxFee: decPtr(t, "100"),
			},
			amount: "500",
			want:   "11",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.schedule.FeeFor(dec(t, tt.amount))
			if !got.Equal(dec(t, tt.want)) {
				t.Fatalf("fee=%s, want %s", got, tt.want)
			}
		})
	}
}
