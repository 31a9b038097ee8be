package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistanceType_Validate(t *testing.T) {
	capacity := func(n int) *int { return &n }

	tests := []struct {
		name      string
		t         AssistanceType
		wantField string
	}{
		{"unlimited", AssistanceType{Name: "Escort"}, ""},
		{"at max capacity", AssistanceType{Name: "Escort", Capacity: capacity(MaxCapacity)}, ""},
		{"blank name", AssistanceType{Name: "  "}, "name"},
		{"long name", AssistanceType{Name: strings.Repeat("a", MaxNameLength+1)}, "name"},
		{"zero capacity", AssistanceType{Name: "Escort", Capacity: capacity(0)}, "capacity"},
		{"over max capacity", AssistanceType{Name: "Escort", Capacity: capacity(MaxCapacity + 1)}, "capacity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.t.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}
