// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/coupon-desk/backoffice/internal/domain/valueobject"
)

// Document is an uploaded payment proof.
type Document struct {
	Name     string
	MIMEType string
	Data     []byte
}

// PaymentExtractor reads payment lines from payment proof documents.
type PaymentExtractor interface {
	// Extract returns the payments found in a document, in reading order.
	Extract(ctx context.Context, document Document) ([]valueobject.ExtractedPayment, error)

	// IsAvailable checks if the extraction service is properly configured.
	IsAvailable() bool
}
