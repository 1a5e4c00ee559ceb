package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFeeStructureValidate(t *testing.T) {
	tests := []struct {
		name    string
		fee     FeeStructure
		wantErr error
	}{
		{
			name: "default breakdown",
			fee:  FeeStructure{FeeClassName: "Class 5", FeeTuition: 5000, FeeTransport: 1000, FeeExam: 500, FeeTotal: 6500},
		},
		{
			name:    "total diverges from components",
			fee:     FeeStructure{FeeClassName: "Class 5", FeeTuition: 5000, FeeTransport: 1000, FeeExam: 500, FeeTotal: 7000},
			wantErr: ErrTotalMismatch,
		},
		{
			name:    "missing class name",
			fee:     FeeStructure{FeeTuition: 100, FeeTotal: 100},
			wantErr: ErrInvalidFee,
		},
		{
			name:    "negative component",
			fee:     FeeStructure{FeeClassName: "Class 1", FeeTuition: -1, FeeTotal: -1},
			wantErr: ErrInvalidFee,
		},
		{
			name: "zero fees are allowed",
			fee:  FeeStructure{FeeClassName: "Scholarship"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fee.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}
