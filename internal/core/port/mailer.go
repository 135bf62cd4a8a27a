package port

import "context"

// Mailer delivers transactional mail. Delivery is external to the engine;
// the stub implementation logs instead of sending.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
