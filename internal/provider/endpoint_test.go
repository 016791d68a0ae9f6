package provider

import (
	"testing"
)

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expectURL string
		expectKey string
		expectVal string
		expectErr bool
	}{
		{
			name:      "bare url",
			raw:       "https://example.com/oauth/authorize",
			expectURL: "https://example.com/oauth/authorize",
		},
		{
			name:      "json string",
			raw:       `"https://example.com/oauth/token"`,
			expectURL: "https://example.com/oauth/token",
		},
		{
			name:      "object with params",
			raw:       `{"url":"https://example.com/userinfo","params":{"fields":"id,name"}}`,
			expectURL: "https://example.com/userinfo",
			expectKey: "fields",
			expectVal: "id,name",
		},
		{
			name: "empty",
			raw:  "   ",
		},
		{
			name:      "malformed object",
			raw:       `{"url":`,
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := ParseEndpoint(tt.raw)
			if tt.expectErr {
				if err == nil {
					t.Fatalf("expected parse error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if endpoint.URL != tt.expectURL {
				t.Fatalf("unexpected url %q", endpoint.URL)
			}
			if tt.expectKey != "" && endpoint.Params[tt.expectKey] != tt.expectVal {
				t.Fatalf("unexpected params: %+v", endpoint.Params)
			}
		})
	}
}
