package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetConsentRequest_Validate(t *testing.T) {
	granted := true

	tests := []struct {
		name      string
		req       SetConsentRequest
		shouldErr bool
	}{
		{name: "valid grant", req: SetConsentRequest{Purpose: "marketing", Granted: &granted}},
		{name: "missing granted", req: SetConsentRequest{Purpose: "marketing"}, shouldErr: true},
		{name: "missing purpose", req: SetConsentRequest{Granted: &granted}, shouldErr: true},
		{name: "padded purpose", req: SetConsentRequest{Purpose: " marketing", Granted: &granted}, shouldErr: true},
		{
			name:      "purpose too long",
			req:       SetConsentRequest{Purpose: strings.Repeat("a", 256), Granted: &granted},
			shouldErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.shouldErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
