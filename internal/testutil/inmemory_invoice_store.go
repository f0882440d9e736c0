package testutil

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/invixio/invixio/internal/domain/invoice"
	"github.com/invixio/invixio/internal/types"
)

// InMemoryInvoiceStore mirrors the postgres invoice repository semantics,
// including the (user_id, invoice_number) uniqueness that the number
// allocation retry depends on.
type InMemoryInvoiceStore struct {
	mu       sync.RWMutex
	invoices map[string]*invoice.Invoice
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		invoices: make(map[string]*invoice.Invoice),
	}
}

func (s *InMemoryInvoiceStore) CreateWithItems(ctx context.Context, inv *invoice.Invoice) error {
	if inv == nil {
		return fmt.Errorf("invoice cannot be nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.invoices[inv.ID]; exists {
		return fmt.Errorf("invoice %s already exists", inv.ID)
	}
	for _, existing := range s.invoices {
		if existing.UserID == inv.UserID && existing.InvoiceNumber == inv.InvoiceNumber {
			return invoice.ErrDuplicateNumber
		}
	}

	s.invoices[inv.ID] = copyInvoice(inv)
	return nil
}

func (s *InMemoryInvoiceStore) UpdateWithItems(ctx context.Context, inv *invoice.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.invoices[inv.ID]
	if !ok || existing.UserID != inv.UserID {
		return invoice.ErrInvoiceNotFound
	}

	updated := copyInvoice(inv)
	updated.UpdatedAt = time.Now().UTC()
	s.invoices[inv.ID] = updated
	return nil
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, userID, id string) (*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return nil, invoice.ErrInvoiceNotFound
	}
	return copyInvoice(inv), nil
}

func (s *InMemoryInvoiceStore) UpdateStatus(ctx context.Context, userID, id string, status types.InvoiceStatus, paidAt, cancelledAt *time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return invoice.ErrInvoiceNotFound
	}

	inv.InvoiceStatus = status
	inv.PaidAt = paidAt
	inv.CancelledAt = cancelledAt
	inv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryInvoiceStore) SetPDFURL(ctx context.Context, userID, id, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return invoice.ErrInvoiceNotFound
	}

	inv.PDFURL = &url
	inv.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryInvoiceStore) Delete(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok || inv.UserID != userID {
		return invoice.ErrInvoiceNotFound
	}

	delete(s.invoices, id)
	return nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, userID string, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.match(userID, filter)

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	offset := 0
	limit := len(matched)
	if filter != nil {
		offset = filter.GetOffset()
		if !filter.IsUnlimited() {
			limit = filter.GetLimit()
		}
	}
	if offset >= len(matched) {
		return []*invoice.Invoice{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*invoice.Invoice, 0, end-offset)
	for _, inv := range matched[offset:end] {
		out = append(out, copyInvoice(inv))
	}
	return out, nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, userID string, filter *types.InvoiceFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.match(userID, filter)), nil
}

func (s *InMemoryInvoiceStore) CountInRange(ctx context.Context, userID string, start, end time.Time) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, inv := range s.invoices {
		if inv.UserID != userID {
			continue
		}
		if !inv.CreatedAt.Before(start) && inv.CreatedAt.Before(end) {
			count++
		}
	}
	return count, nil
}

func (s *InMemoryInvoiceStore) GroupByStatus(ctx context.Context, userID string, start, end time.Time) (map[types.InvoiceStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[types.InvoiceStatus]int)
	for _, inv := range s.invoices {
		if inv.UserID != userID {
			continue
		}
		if !start.IsZero() && inv.CreatedAt.Before(start) {
			continue
		}
		if !end.IsZero() && !inv.CreatedAt.Before(end) {
			continue
		}
		result[inv.InvoiceStatus]++
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) RevenueByMonth(ctx context.Context, userID string, start, end time.Time) (map[string]decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]decimal.Decimal)
	for _, inv := range s.invoices {
		if inv.UserID != userID || inv.InvoiceStatus != types.InvoiceStatusPaid || inv.PaidAt == nil {
			continue
		}
		if inv.PaidAt.Before(start) || !inv.PaidAt.Before(end) {
			continue
		}
		key := types.MonthKey(*inv.PaidAt)
		result[key] = result[key].Add(inv.Total)
	}
	return result, nil
}

func (s *InMemoryInvoiceStore) MaxInvoiceNumber(ctx context.Context, userID, prefix string) (*string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var max *string
	for _, inv := range s.invoices {
		if inv.UserID != userID || !strings.HasPrefix(inv.InvoiceNumber, prefix) {
			continue
		}
		if max == nil || inv.InvoiceNumber > *max {
			n := inv.InvoiceNumber
			max = &n
		}
	}
	return max, nil
}

func (s *InMemoryInvoiceStore) ListDueBefore(ctx context.Context, cutoff time.Time, statuses []types.InvoiceStatus) ([]*invoice.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[types.InvoiceStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	var out []*invoice.Invoice
	for _, inv := range s.invoices {
		if wanted[inv.InvoiceStatus] && inv.DueDate.Before(cutoff) {
			out = append(out, copyInvoice(inv))
		}
	}
	return out, nil
}

func (s *InMemoryInvoiceStore) TransitionStatusUnscoped(ctx context.Context, id string, from, to types.InvoiceStatus) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.invoices[id]
	if !ok || inv.InvoiceStatus != from {
		return false, nil
	}
	inv.InvoiceStatus = to
	inv.UpdatedAt = time.Now().UTC()
	return true, nil
}

// Clear removes all invoices
func (s *InMemoryInvoiceStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoices = make(map[string]*invoice.Invoice)
}

func (s *InMemoryInvoiceStore) match(userID string, filter *types.InvoiceFilter) []*invoice.Invoice {
	var matched []*invoice.Invoice
	for _, inv := range s.invoices {
		if inv.UserID != userID {
			continue
		}
		if filter != nil {
			if filter.Status != nil && inv.InvoiceStatus != *filter.Status {
				continue
			}
			if filter.ClientEmail != nil && inv.ClientEmail != *filter.ClientEmail {
				continue
			}
			if filter.DueBefore != nil && !inv.DueDate.Before(*filter.DueBefore) {
				continue
			}
			if filter.DueAfter != nil && inv.DueDate.Before(*filter.DueAfter) {
				continue
			}
			if filter.CreatedAfter != nil && inv.CreatedAt.Before(*filter.CreatedAfter) {
				continue
			}
			if filter.CreatedUntil != nil && inv.CreatedAt.After(*filter.CreatedUntil) {
				continue
			}
		}
		matched = append(matched, inv)
	}
	return matched
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	c := *inv
	c.Items = make([]*invoice.InvoiceItem, 0, len(inv.Items))
	for _, item := range inv.Items {
		itemCopy := *item
		c.Items = append(c.Items, &itemCopy)
	}
	return &c
}
