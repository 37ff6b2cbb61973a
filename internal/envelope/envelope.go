// Package envelope builds the provider's nested request body. Field names
// follow the Integra Contador contract, so the JSON tags are Portuguese.
package envelope

import "encoding/json"

// LegalEntityType is the fixed party type discriminator. Every party in this
// integration is a legal entity; the value never varies.
const LegalEntityType = 2

// Party identifies a legal entity by its CNPJ.
type Party struct {
	Number string `json:"numero"`
	Type   int    `json:"tipo"`
}

// DataRequest carries the operation parameters.
type DataRequest struct {
	SystemID      string          `json:"idSistema"`
	ServiceID     string          `json:"idServico"`
	SystemVersion string          `json:"versaoSistema"`
	Data          json.RawMessage `json:"dados"`
}

// Envelope is the full request body forwarded to the operation endpoints.
// The contracting party authors every request on its own behalf, so
// contratante and autorPedidoDados always carry the same identity.
type Envelope struct {
	Contractor    Party       `json:"contratante"`
	RequestAuthor Party       `json:"autorPedidoDados"`
	Taxpayer      Party       `json:"contribuinte"`
	Request       DataRequest `json:"pedidoDados"`
}

// Build assembles an Envelope from validated inputs. Pure; no I/O and no
// failure mode.
func Build(contractorTaxID, taxpayerID, systemID, serviceID, systemVersion string, payload json.RawMessage) Envelope {
	contractor := Party{Number: contractorTaxID, Type: LegalEntityType}
	return Envelope{
		Contractor:    contractor,
		RequestAuthor: contractor,
		Taxpayer:      Party{Number: taxpayerID, Type: LegalEntityType},
		Request: DataRequest{
			SystemID:      systemID,
			ServiceID:     serviceID,
			SystemVersion: systemVersion,
			Data:          payload,
		},
	}
}
