package booking

import (
	"context"

	"aadhaarqms/internal/model"
)

// nextToken issues the next sequential display token for date. Cancelled
// appointments keep their token reserved, so the scan ignores status.
//
// A failed scan aborts the booking instead of substituting a random token:
// a random token can collide and silently break per-date uniqueness. The
// caller sees a retryable store error.
func (e *Engine) nextToken(ctx context.Context, date string) (string, error) {
	seq, err := e.store.MaxTokenSeq(ctx, date)
	if err != nil {
		e.met.TokenSequencerFailures.Inc()
		e.log.Errorw("token sequence scan failed", "date", date, "error", err)
		return "", storeErr("token sequence scan", err)
	}
	return model.FormatToken(seq + 1), nil
}
