package pdf

import (
	"context"
	"io"
)

// StatementData is the flattened, pre-formatted content of an invoice
// statement. Formatting (currency, dates) happens at the call site so the
// renderer stays layout-only.
type StatementData struct {
	InvoiceNumber string
	IssueDate     string
	DueDate       string
	Status        string

	PropertyName    string
	PropertyAddress string
	ProviderName    string
	ProviderService string

	Subtotal string
	Tax      string
	Total    string
	Currency string
	Notes    string
}

type Provider interface {
	GenerateStatement(ctx context.Context, data StatementData) (io.Reader, error)
}
