// Package models defines the provider account credential record.
package models

// Credentials is the single configuration record for the contracting party's
// SERPRO account. It is read and written as one blob; there is no
// partial-field merge.
type Credentials struct {
	APIKey          string `json:"api_key"`
	ClientID        string `json:"client_id"`
	ClientSecret    string `json:"client_secret"`
	ContractorTaxID string `json:"cnpj_contratante"`
}

// IsZero reports whether no credentials have been configured yet.
func (c Credentials) IsZero() bool {
	return c == Credentials{}
}

// Redacted returns a copy safe for read endpoints and logs: secret material
// is masked, identity fields stay visible.
func (c Credentials) Redacted() Credentials {
	if c.ClientSecret != "" {
		c.ClientSecret = "********"
	}
	if c.APIKey != "" {
		c.APIKey = "********"
	}
	return c
}
