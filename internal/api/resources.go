package api

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/gestorpago/gestor-cli/internal/session"
)

// The resource services below are ordinary data-fetching consumers of the
// authenticated client. They carry no session logic of their own; the
// transport handles token renewal for all of them.

// ClientRecord is a client (debtor) of the collections operation.
type ClientRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Invoice is a bill issued to a client.
type Invoice struct {
	ID       string    `json:"id"`
	ClientID string    `json:"clientId"`
	Folio    string    `json:"folio"`
	Amount   float64   `json:"amount"`
	Paid     float64   `json:"paid"`
	Status   string    `json:"status"`
	DueDate  time.Time `json:"dueDate"`
}

// Collection is one cobranza entry: a payment collected against an invoice.
type Collection struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoiceId"`
	Amount      float64   `json:"amount"`
	Method      string    `json:"method"`
	Notes       string    `json:"notes,omitempty"`
	CollectedAt time.Time `json:"collectedAt"`
}

// LogEntry is a bitácora record tracking contact with a client.
type LogEntry struct {
	ID        string    `json:"id"`
	ClientID  string    `json:"clientId"`
	Note      string    `json:"note"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// ExternalPayment is a payment received outside the regular collection flow.
type ExternalPayment struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId"`
	Amount     float64   `json:"amount"`
	Reference  string    `json:"reference,omitempty"`
	ReceivedAt time.Time `json:"receivedAt"`
}

// Projection is a payment projected for a future period.
type Projection struct {
	ID         string    `json:"id"`
	ClientID   string    `json:"clientId"`
	Amount     float64   `json:"amount"`
	ExpectedOn time.Time `json:"expectedOn"`
	Fulfilled  bool      `json:"fulfilled"`
}

// ClientService manages clients.
type ClientService struct {
	c *Client
}

func (s *ClientService) List(ctx context.Context) ([]ClientRecord, error) {
	var out []ClientRecord
	if err := s.c.Get(ctx, "/clientes", &out); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return out, nil
}

func (s *ClientService) Get(ctx context.Context, id string) (*ClientRecord, error) {
	var out ClientRecord
	if err := s.c.Get(ctx, "/clientes/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &out, nil
}

func (s *ClientService) Create(ctx context.Context, in ClientRecord) (*ClientRecord, error) {
	var out ClientRecord
	if err := s.c.Post(ctx, "/clientes", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &out, nil
}

// InvoiceService manages invoices.
type InvoiceService struct {
	c *Client
}

func (s *InvoiceService) List(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	if err := s.c.Get(ctx, "/facturas", &out); err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return out, nil
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*Invoice, error) {
	var out Invoice
	if err := s.c.Get(ctx, "/facturas/"+url.PathEscape(id), &out); err != nil {
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return &out, nil
}

func (s *InvoiceService) Create(ctx context.Context, in Invoice) (*Invoice, error) {
	var out Invoice
	if err := s.c.Post(ctx, "/facturas", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}
	return &out, nil
}

// CollectionService records and lists cobranza entries.
type CollectionService struct {
	c *Client
}

func (s *CollectionService) List(ctx context.Context) ([]Collection, error) {
	var out []Collection
	if err := s.c.Get(ctx, "/cobranza", &out); err != nil {
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	return out, nil
}

func (s *CollectionService) Create(ctx context.Context, in Collection) (*Collection, error) {
	var out Collection
	if err := s.c.Post(ctx, "/cobranza", in, &out); err != nil {
		return nil, fmt.Errorf("failed to record collection: %w", err)
	}
	return &out, nil
}

// LogbookService manages bitácora entries.
type LogbookService struct {
	c *Client
}

func (s *LogbookService) List(ctx context.Context, clientID string) ([]LogEntry, error) {
	path := "/bitacora"
	if clientID != "" {
		path += "?cliente=" + url.QueryEscape(clientID)
	}
	var out []LogEntry
	if err := s.c.Get(ctx, path, &out); err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	return out, nil
}

func (s *LogbookService) Create(ctx context.Context, in LogEntry) (*LogEntry, error) {
	var out LogEntry
	if err := s.c.Post(ctx, "/bitacora", in, &out); err != nil {
		return nil, fmt.Errorf("failed to create log entry: %w", err)
	}
	return &out, nil
}

// PaymentService manages external payments.
type PaymentService struct {
	c *Client
}

func (s *PaymentService) List(ctx context.Context) ([]ExternalPayment, error) {
	var out []ExternalPayment
	if err := s.c.Get(ctx, "/pagos-externos", &out); err != nil {
		return nil, fmt.Errorf("failed to list external payments: %w", err)
	}
	return out, nil
}

func (s *PaymentService) Create(ctx context.Context, in ExternalPayment) (*ExternalPayment, error) {
	var out ExternalPayment
	if err := s.c.Post(ctx, "/pagos-externos", in, &out); err != nil {
		return nil, fmt.Errorf("failed to record external payment: %w", err)
	}
	return &out, nil
}

// ProjectionService lists projected payments.
type ProjectionService struct {
	c *Client
}

func (s *ProjectionService) List(ctx context.Context) ([]Projection, error) {
	var out []Projection
	if err := s.c.Get(ctx, "/proyecciones", &out); err != nil {
		return nil, fmt.Errorf("failed to list projections: %w", err)
	}
	return out, nil
}

// UserService administers application users. Admin only.
type UserService struct {
	c *Client
}

func (s *UserService) List(ctx context.Context) ([]session.User, error) {
	var out []session.User
	if err := s.c.Get(ctx, "/usuarios", &out); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return out, nil
}

func (s *UserService) SetRole(ctx context.Context, id string, role session.Role) (*session.User, error) {
	var out session.User
	in := struct {
		Role session.Role `json:"role"`
	}{Role: role}
	if err := s.c.Put(ctx, "/usuarios/"+url.PathEscape(id)+"/role", in, &out); err != nil {
		return nil, fmt.Errorf("failed to update user role: %w", err)
	}
	return &out, nil
}
