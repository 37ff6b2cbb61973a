// Package relay bridges validated caller requests to the Integra Contador
// operation endpoints and normalizes every outcome into the uniform result
// envelope.
package relay

// Operation selects the upstream endpoint. The set is closed; anything else
// is an invalid operation, never a routing miss.
type Operation string

const (
	// OperationQuery reads tax data (Consultar).
	OperationQuery Operation = "consultar"

	// OperationIssue files documents (Emitir). Recognized but not
	// implemented by this bridge.
	OperationIssue Operation = "emitir"

	// OperationDeclare submits declarations (Declarar). Recognized but not
	// implemented by this bridge.
	OperationDeclare Operation = "declarar"
)

// ParseOperation maps a caller-supplied kind onto the closed enum.
func ParseOperation(s string) (Operation, bool) {
	switch Operation(s) {
	case OperationQuery, OperationIssue, OperationDeclare:
		return Operation(s), true
	}
	return "", false
}

// endpointPath returns the kind-specific path under the gateway base URL.
func (o Operation) endpointPath() string {
	switch o {
	case OperationQuery:
		return "/Consultar"
	case OperationIssue:
		return "/Emitir"
	case OperationDeclare:
		return "/Declarar"
	}
	return ""
}
