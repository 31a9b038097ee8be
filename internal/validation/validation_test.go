package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AssistanceService/internal/domain"
)

type sample struct {
	Name  string   `json:"name" validate:"required,max=5"`
	Slots int      `json:"slots" validate:"min=1"`
	URLs  []string `json:"photoUrls" validate:"dive,url"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name      string
		in        sample
		wantField string
	}{
		{"valid", sample{Name: "ok", Slots: 1, URLs: []string{"https://cdn.example/a.png"}}, ""},
		{"missing name", sample{Slots: 1}, "name"},
		{"long name", sample{Name: "toolong", Slots: 1}, "name"},
		{"zero slots", sample{Name: "ok"}, "slots"},
		{"bad url", sample{Name: "ok", Slots: 1, URLs: []string{"not a url"}}, "photoUrls[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}
