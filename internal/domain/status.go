package domain

// StatusContext scopes a status vocabulary to one entity kind.
type StatusContext string

const (
	ContextConnectionRequest StatusContext = "ConnectionRequest"
	ContextSupportTicket     StatusContext = "SupportTicket"
	ContextContract          StatusContext = "Contract"
)

// Status is one entry of a context-scoped status vocabulary.
type Status struct {
	ID        string
	Context   StatusContext
	Code      string
	Label     string
	SortOrder int
}
