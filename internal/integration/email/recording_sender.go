package email

import (
	"context"
	"fmt"
	"sync"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
)

// RecordingSender keeps sent emails in memory instead of calling Resend.
// It backs local runs without an API key and the test suites.
type RecordingSender struct {
	mu        sync.Mutex
	sent      []adapter.SendEmailInput
	failWith  error
	permanent bool
}

// NewRecordingSender creates an empty RecordingSender.
func NewRecordingSender() *RecordingSender {
	return &RecordingSender{}
}

// Send records the email, or fails as configured by FailWith.
func (s *RecordingSender) Send(_ context.Context, input adapter.SendEmailInput) (*adapter.SendEmailResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failWith != nil {
		code := domainerror.ErrCodeTemporaryEmailFailure
		if s.permanent {
			code = domainerror.ErrCodePermanentEmailFailure
		}
		return nil, domainerror.NewEmailError(code, "recorded failure", s.failWith)
	}

	s.sent = append(s.sent, input)
	return &adapter.SendEmailResult{ProviderID: fmt.Sprintf("recorded-%d", len(s.sent))}, nil
}

// FailWith makes every following Send fail with err.
func (s *RecordingSender) FailWith(err error, permanent bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failWith = err
	s.permanent = permanent
}

// Sent returns a copy of the recorded emails.
func (s *RecordingSender) Sent() []adapter.SendEmailInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]adapter.SendEmailInput, len(s.sent))
	copy(out, s.sent)
	return out
}

var _ adapter.EmailSender = (*RecordingSender)(nil)
