package bookability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meridianpsych/clinic-api/internal/model"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func TestContractCoversDate(t *testing.T) {
	tests := []struct {
		name     string
		contract model.Contract
		date     string
		want     bool
	}{
		{
			name: "inside window with open expiration",
			contract: model.Contract{
				Status:        model.ContractStatusInNetwork,
				EffectiveDate: date("2025-01-01"),
			},
			date: "2025-06-15",
			want: true,
		},
		{
			name: "effective date itself is covered",
			contract: model.Contract{
				Status:        model.ContractStatusInNetwork,
				EffectiveDate: date("2025-06-15"),
			},
			date: "2025-06-15",
			want: true,
		},
		{
			name: "day before effective is not covered",
			contract: model.Contract{
				Status:        model.ContractStatusInNetwork,
				EffectiveDate: date("2025-06-15"),
			},
			date: "2025-06-14",
			want: false,
		},
		{
			name: "expiration date itself is covered",
			contract: model.Contract{
				Status:         model.ContractStatusInNetwork,
				EffectiveDate:  date("2025-01-01"),
				ExpirationDate: datePtr("2025-06-15"),
			},
			date: "2025-06-15",
			want: true,
		},
		{
			name: "day after expiration is not covered",
			contract: model.Contract{
				Status:         model.ContractStatusInNetwork,
				EffectiveDate:  date("2025-01-01"),
				ExpirationDate: datePtr("2025-06-15"),
			},
			date: "2025-06-16",
			want: false,
		},
		{
			name: "effective but bookable_from still in the future",
			contract: model.Contract{
				Status:           model.ContractStatusInNetwork,
				EffectiveDate:    date("2025-01-01"),
				BookableFromDate: datePtr("2025-07-01"),
			},
			date: "2025-06-15",
			want: false,
		},
		{
			name: "bookable_from date itself is covered",
			contract: model.Contract{
				Status:           model.ContractStatusInNetwork,
				EffectiveDate:    date("2025-01-01"),
				BookableFromDate: datePtr("2025-06-15"),
			},
			date: "2025-06-15",
			want: true,
		},
		{
			name: "pending status never covers",
			contract: model.Contract{
				Status:        model.ContractStatusPending,
				EffectiveDate: date("2025-01-01"),
			},
			date: "2025-06-15",
			want: false,
		},
		{
			name: "terminated status never covers",
			contract: model.Contract{
				Status:        model.ContractStatusTerminated,
				EffectiveDate: date("2025-01-01"),
			},
			date: "2025-06-15",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ContractCoversDate(&tt.contract, date(tt.date))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSupervisionActiveOn(t *testing.T) {
	tests := []struct {
		name string
		sup  model.Supervision
		date string
		want bool
	}{
		{
			name: "active inside open-ended window",
			sup: model.Supervision{
				IsActive:  true,
				StartDate: date("2025-01-01"),
			},
			date: "2025-06-15",
			want: true,
		},
		{
			name: "inactive flag overrides the window",
			sup: model.Supervision{
				IsActive:  false,
				StartDate: date("2025-01-01"),
			},
			date: "2025-06-15",
			want: false,
		},
		{
			name: "end date itself still counts",
			sup: model.Supervision{
				IsActive:  true,
				StartDate: date("2025-01-01"),
				EndDate:   datePtr("2025-06-15"),
			},
			date: "2025-06-15",
			want: true,
		},
		{
			name: "ended relationship",
			sup: model.Supervision{
				IsActive:  true,
				StartDate: date("2025-01-01"),
				EndDate:   datePtr("2025-06-14"),
			},
			date: "2025-06-15",
			want: false,
		},
		{
			name: "not started yet",
			sup: model.Supervision{
				IsActive:  true,
				StartDate: date("2025-07-01"),
			},
			date: "2025-06-15",
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SupervisionActiveOn(&tt.sup, date(tt.date))
			assert.Equal(t, tt.want, got)
		})
	}
}
