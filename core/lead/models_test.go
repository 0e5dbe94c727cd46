package lead

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseLifecycleStatus(t *testing.T) {
	tests := []struct {
		in   string
		want LifecycleStatus
	}{
		{in: "new", want: StatusNew},
		{in: "Active", want: StatusActive},
		{in: "admission due", want: StatusAdmissionDue},
		{in: "ADMISSION_DUE", want: StatusAdmissionDue},
		{in: "admission-due", want: StatusAdmissionDue},
		{in: "enrolled", want: StatusOther},
		{in: "", want: StatusOther},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLifecycleStatus(tt.in))
		})
	}
}

func TestParseSalesStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    SalesStatus
		wantErr bool
	}{
		{in: "new", want: SalesNew},
		{in: " Contacted ", want: SalesContacted},
		{in: "QUALIFIED", want: SalesQualified},
		{in: "converted", want: SalesConverted},
		{in: "lost", want: SalesLost},
		{in: "delegate", want: SalesDelegate},
		{in: "won", wantErr: true},
		{in: "", wantErr: true},
		{in: "all", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSalesStatus(tt.in)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidSalesStatus))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
