package provider

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Endpoint is one protocol endpoint of an OAuth client configuration.
// Stored records carry endpoints either as a bare URL, a JSON string
// or a JSON object with url and params; all three parse to this.
type Endpoint struct {
	URL    string            `json:"url"`
	Params map[string]string `json:"params,omitempty"`
}

// IsZero reports whether the endpoint carries no configuration.
func (e Endpoint) IsZero() bool {
	return e.URL == "" && len(e.Params) == 0
}

// UnmarshalJSON accepts both the string and the object form.
func (e *Endpoint) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var url string
		if err := json.Unmarshal(data, &url); err != nil {
			return err
		}
		*e = Endpoint{URL: url}
		return nil
	}

	type plain Endpoint
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*e = Endpoint(decoded)
	return nil
}

// ParseEndpoint decodes a stored endpoint column. Bare URLs are
// accepted alongside the two JSON forms.
func ParseEndpoint(raw string) (Endpoint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Endpoint{}, nil
	}
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, `"`) {
		var endpoint Endpoint
		if err := json.Unmarshal([]byte(trimmed), &endpoint); err != nil {
			return Endpoint{}, fmt.Errorf("provider: malformed endpoint %q: %w", raw, err)
		}
		return endpoint, nil
	}
	return Endpoint{URL: trimmed}, nil
}
