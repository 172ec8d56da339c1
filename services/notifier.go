package services

import (
	"context"

	utils "github.com/palette/art-club-go/utils"
)

// Notifier delivers outbound mail. Implementations are invoked after the
// primary write has committed; a failed send is logged by the caller and never
// affects the operation's result.
type Notifier interface {
	Send(ctx context.Context, to, toName, subject, htmlBody string) error
}

// EmailNotifier sends through the ZeptoMail HTTP API.
type EmailNotifier struct{}

func (EmailNotifier) Send(ctx context.Context, to, toName, subject, htmlBody string) error {
	return utils.SendEmail(ctx, to, toName, subject, htmlBody)
}

// NopNotifier drops every message. Used when mail is not configured.
type NopNotifier struct{}

func (NopNotifier) Send(ctx context.Context, to, toName, subject, htmlBody string) error {
	return nil
}

// BlobReleaser removes a stored image by URL. Release failures are best-effort
// everywhere: logged, never surfaced.
type BlobReleaser func(imageURL string) error
