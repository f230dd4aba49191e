package registry

import "time"

// DiscoveryState records whether and how automatic discovery populated a
// registry. Registries store it verbatim through DiscoveryState and
// SetDiscoveryState; only the discovering component interprets it.
//
// The zero value is the initial state: nothing discovered.
type DiscoveryState struct {
	// Source identifies what was scanned, such as a manifest path.
	Source string `json:"source,omitempty"`
	// Digest fingerprints the scanned input so rescans can be skipped.
	Digest string `json:"digest,omitempty"`
	// DiscoveredAt is when the scan completed.
	DiscoveredAt time.Time `json:"discoveredAt,omitzero"`

	Tools             []string `json:"tools,omitempty"`
	Prompts           []string `json:"prompts,omitempty"`
	Resources         []string `json:"resources,omitempty"`
	ResourceTemplates []string `json:"resourceTemplates,omitempty"`
}

// IsZero reports whether s is the initial, nothing-discovered state.
func (s DiscoveryState) IsZero() bool {
	return s.Source == "" &&
		s.Digest == "" &&
		s.DiscoveredAt.IsZero() &&
		len(s.Tools) == 0 &&
		len(s.Prompts) == 0 &&
		len(s.Resources) == 0 &&
		len(s.ResourceTemplates) == 0
}
