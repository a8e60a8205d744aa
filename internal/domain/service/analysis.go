package service

import (
	"context"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
)

// Analyzer produces an AI verdict for a token. Analysis runs outside the
// filtering engine and never blocks a cycle.
type Analyzer interface {
	Analyze(ctx context.Context, token models.Token) (models.TokenAnalysis, error)
}

// Notifier forwards escalated alerts to an external chat channel.
type Notifier interface {
	Notify(ctx context.Context, text string) error
}
