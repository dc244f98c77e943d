package regulations

import (
	"context"
	"time"
)

// Citation points at a source passage that grounded part of an answer.
type Citation struct {
	Source  string `json:"source"`
	Excerpt string `json:"excerpt"`
}

// Answer is a generated regulations answer with its supporting citations.
type Answer struct {
	Text      string        `json:"text"`
	Citations []Citation    `json:"citations"`
	Attempts  int           `json:"attempts"`
	Latency   time.Duration `json:"latency"`
	Settings  Settings      `json:"settings"`
}

// Answerer produces grounded answers to regulation questions. Implemented by
// the remote retrieve-and-generate client and the local knowledge base.
type Answerer interface {
	Answer(ctx context.Context, question string) (*Answer, error)
}
