package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/coupon-desk/backoffice/internal/application/adapter"
	"github.com/coupon-desk/backoffice/internal/domain/entity"
	domainerror "github.com/coupon-desk/backoffice/internal/domain/error"
	"github.com/coupon-desk/backoffice/internal/integration/email/templates"
)

// Worker delivers the coupon notices waiting in the outbox.
type Worker struct {
	notices      adapter.CouponNoticeRepository
	sender       adapter.EmailSender
	renderer     *templates.Renderer
	pollInterval time.Duration
	batchSize    int
	portalURL    string
}

// WorkerConfig holds configuration for the email worker.
type WorkerConfig struct {
	PollInterval time.Duration
	BatchSize    int
	PortalURL    string // investor portal linked from the notice
}

// DefaultWorkerConfig returns the default worker configuration.
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		PollInterval: 5 * time.Second,
		BatchSize:    10,
	}
}

// NewWorker creates a new email worker.
func NewWorker(notices adapter.CouponNoticeRepository, sender adapter.EmailSender, renderer *templates.Renderer, config WorkerConfig) *Worker {
	return &Worker{
		notices:      notices,
		sender:       sender,
		renderer:     renderer,
		pollInterval: config.PollInterval,
		batchSize:    config.BatchSize,
		portalURL:    config.PortalURL,
	}
}

// Start begins the worker loop. It blocks until the context is cancelled.
func (w *Worker) Start(ctx context.Context) {
	slog.Info("Coupon notice worker started",
		"poll_interval", w.pollInterval,
		"batch_size", w.batchSize,
	)

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.deliverDue(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Coupon notice worker shutting down")
			return
		case <-ticker.C:
			w.deliverDue(ctx)
		}
	}
}

// ProcessNow delivers the notices due now without waiting for the next tick.
func (w *Worker) ProcessNow(ctx context.Context) {
	w.deliverDue(ctx)
}

func (w *Worker) deliverDue(ctx context.Context) {
	notices, err := w.notices.FindDue(ctx, time.Now().UTC(), w.batchSize)
	if err != nil {
		slog.Error("Failed to list due coupon notices", "error", err)
		return
	}

	for _, notice := range notices {
		if ctx.Err() != nil {
			return
		}
		w.deliver(ctx, notice)
	}
}

func (w *Worker) deliver(ctx context.Context, notice *entity.CouponNotice) {
	logger := slog.With(
		"notice_id", notice.ID,
		"payment_id", notice.PaymentID,
		"echeance_id", notice.EcheanceID,
	)

	notice.MarkSending()
	if err := w.notices.Update(ctx, notice); err != nil {
		logger.Error("Failed to claim coupon notice", "error", err)
		return
	}

	html, text, err := w.renderer.RenderCouponPaid(notice, w.portalURL)
	if err != nil {
		logger.Error("Failed to render coupon notice", "error", err)
		w.fail(ctx, logger, notice, domainerror.NewEmailError(
			domainerror.ErrCodeNoticeRenderFailed,
			"failed to render coupon notice",
			fmt.Errorf("%w: %w", domainerror.ErrNoticeRenderFailed, err),
		), true)
		return
	}

	result, err := w.sender.Send(ctx, adapter.SendEmailInput{
		To:      notice.RecipientEmail,
		Name:    notice.RecipientName,
		Subject: notice.Subject(),
		HTML:    html,
		Text:    text,
		Tags: map[string]string{
			"notice":     templates.CouponPaid,
			"payment_id": notice.PaymentID.String(),
		},
	})
	if err != nil {
		var emailErr *domainerror.EmailError
		permanent := errors.As(err, &emailErr) && emailErr.Code == domainerror.ErrCodePermanentEmailFailure
		logger.Error("Failed to send coupon notice", "error", err, "permanent", permanent)
		w.fail(ctx, logger, notice, err, permanent)
		return
	}

	notice.MarkSent(result.ProviderID)
	if err := w.notices.Update(ctx, notice); err != nil {
		logger.Error("Failed to mark coupon notice as sent", "error", err)
		return
	}

	logger.Info("Coupon notice sent", "provider_id", result.ProviderID)
}

func (w *Worker) fail(ctx context.Context, logger *slog.Logger, notice *entity.CouponNotice, err error, permanent bool) {
	notice.MarkFailed(err, permanent)

	if updateErr := w.notices.Update(ctx, notice); updateErr != nil {
		logger.Error("Failed to record coupon notice failure", "error", updateErr)
		return
	}

	if notice.Status == entity.NoticeStatusFailed {
		logger.Warn("Coupon notice abandoned", "attempts", notice.Attempts, "last_error", notice.LastError)
		return
	}
	logger.Info("Coupon notice scheduled for retry", "attempts", notice.Attempts, "scheduled_at", notice.ScheduledAt)
}
