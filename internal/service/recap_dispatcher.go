package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"runpool/internal/config"
	"runpool/internal/metrics"
	"runpool/internal/models"
)

const dispatchConcurrency = 8

// EmailSender delivers a rendered message and returns the provider id
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// DeliveryFailure records one (recap, recipient) pair that was not delivered
type DeliveryFailure struct {
	GroupID     string `json:"group_id"`
	ChallengeID string `json:"challenge_id"`
	Recipient   string `json:"recipient"`
	Error       string `json:"error"`
}

// DeliveryReport summarizes a recap dispatch
type DeliveryReport struct {
	Successful int               `json:"successful"`
	Failed     int               `json:"failed"`
	MessageIDs []string          `json:"messageIds"`
	Failures   []DeliveryFailure `json:"failures,omitempty"`
}

// Err returns a *PartialDeliveryFailure when any delivery failed
func (r *DeliveryReport) Err() error {
	if r.Failed == 0 {
		return nil
	}
	return &PartialDeliveryFailure{Report: r}
}

// PartialDeliveryFailure reports that some recap emails were not delivered.
// It is attached to an otherwise successful result.
type PartialDeliveryFailure struct {
	Report *DeliveryReport
}

func (e *PartialDeliveryFailure) Error() string {
	return fmt.Sprintf("%d of %d recap emails failed", e.Report.Failed, e.Report.Failed+e.Report.Successful)
}

// switchable is implemented by senders that configuration can turn off
type switchable interface {
	IsEnabled() bool
}

// RecapDispatcher emails recaps to a list of recipients
type RecapDispatcher struct {
	sender     EmailSender
	appBaseURL string
	logger     *zap.Logger
}

// NewRecapDispatcher creates a new recap dispatcher
func NewRecapDispatcher(sender EmailSender, appBaseURL string, logger *zap.Logger) *RecapDispatcher {
	return &RecapDispatcher{
		sender:     sender,
		appBaseURL: appBaseURL,
		logger:     logger,
	}
}

type deliveryResult struct {
	messageID string
	err       error
}

// DispatchRecapEmails sends every recap to every recipient. Each delivery is
// attempted independently and exactly once; failures are collected in the
// report rather than returned. The error is non-nil only when the sender is
// not configured or a recap could not be rendered.
func (d *RecapDispatcher) DispatchRecapEmails(ctx context.Context, recaps []models.Recap, recipients []string) (*DeliveryReport, error) {
	if s, ok := d.sender.(switchable); ok && !s.IsEnabled() {
		return nil, &config.ConfigurationError{Setting: "SES_FROM_EMAIL"}
	}

	report := &DeliveryReport{MessageIDs: []string{}}
	if len(recaps) == 0 || len(recipients) == 0 {
		return report, nil
	}

	messages := make([]EmailMessage, len(recaps))
	for i, recap := range recaps {
		msg, err := RenderRecapEmail(recap, d.appBaseURL)
		if err != nil {
			return nil, err
		}
		messages[i] = msg
	}

	results := make([]deliveryResult, len(recaps)*len(recipients))

	// Workers never return an error so one failed send cannot cancel the rest.
	var g errgroup.Group
	g.SetLimit(dispatchConcurrency)
	for i := range recaps {
		for j, to := range recipients {
			slot := i*len(recipients) + j
			msg := messages[i]
			msg.To = to
			g.Go(func() error {
				id, err := d.sender.Send(ctx, msg)
				results[slot] = deliveryResult{messageID: id, err: err}
				return nil
			})
		}
	}
	_ = g.Wait()

	for i, recap := range recaps {
		for j, to := range recipients {
			res := results[i*len(recipients)+j]
			if res.err != nil {
				report.Failed++
				report.Failures = append(report.Failures, DeliveryFailure{
					GroupID:     recap.Group.ID,
					ChallengeID: recap.Challenge.ID,
					Recipient:   to,
					Error:       res.err.Error(),
				})
				d.logger.Warn("recap email failed",
					zap.String("challenge_id", recap.Challenge.ID),
					zap.String("recipient", to),
					zap.Error(res.err))
				continue
			}
			report.Successful++
			report.MessageIDs = append(report.MessageIDs, res.messageID)
		}
	}

	metrics.RecapEmails.WithLabelValues("sent").Add(float64(report.Successful))
	metrics.RecapEmails.WithLabelValues("failed").Add(float64(report.Failed))

	d.logger.Info("recap dispatch finished",
		zap.Int("recaps", len(recaps)),
		zap.Int("recipients", len(recipients)),
		zap.Int("successful", report.Successful),
		zap.Int("failed", report.Failed))
	return report, nil
}
