package mock

import (
	"context"
	"sync"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// Extractor is a scripted payment proof extractor.
type Extractor struct {
	mu        sync.Mutex
	available bool
	payments  []valueobject.ExtractedPayment
	err       error
	calls     []string
}

// NewExtractor returns an available extractor that finds nothing.
func NewExtractor() *Extractor {
	return &Extractor{available: true}
}

// SetPayments sets the payments returned for every document.
func (e *Extractor) SetPayments(payments []valueobject.ExtractedPayment) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.payments = payments
}

// SetError makes every extraction fail with err.
func (e *Extractor) SetError(err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.err = err
}

// SetAvailable toggles the configured state.
func (e *Extractor) SetAvailable(available bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.available = available
}

// Calls returns the names of the documents read so far.
func (e *Extractor) Calls() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.calls...)
}

// Extract implements adapter.PaymentExtractor.
func (e *Extractor) Extract(_ context.Context, document adapter.Document) ([]valueobject.ExtractedPayment, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, document.Name)
	if e.err != nil {
		return nil, e.err
	}

	payments := make([]valueobject.ExtractedPayment, len(e.payments))
	for i, p := range e.payments {
		p.Document = document.Name
		payments[i] = p
	}
	return payments, nil
}

// IsAvailable implements adapter.PaymentExtractor.
func (e *Extractor) IsAvailable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.available
}
