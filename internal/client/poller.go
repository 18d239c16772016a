package client

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/classqa/internal/app/models/dto"
)

// DefaultPollInterval is how often a Poller refreshes when no interval is set
const DefaultPollInterval = 5 * time.Second

// Poller refreshes a lecture's question list on a fixed interval. Failed
// fetches are skipped without notifying the caller; the next tick tries again.
type Poller struct {
	client   *Client
	session  *Session
	query    QuestionQuery
	interval time.Duration
	logger   zerolog.Logger
}

// NewPoller creates a poller for the questions matching query. A non-positive
// interval means DefaultPollInterval.
func NewPoller(c *Client, s *Session, query QuestionQuery, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		client:   c,
		session:  s,
		query:    query,
		interval: interval,
		logger:   c.logger,
	}
}

// Run fetches immediately and then on every tick, handing each successful
// result to onUpdate. It returns when ctx is cancelled.
func (p *Poller) Run(ctx context.Context, onUpdate func([]dto.QuestionResponse)) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.refresh(ctx, onUpdate)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) refresh(ctx context.Context, onUpdate func([]dto.QuestionResponse)) {
	questions, err := p.client.ListQuestions(ctx, p.session, p.query)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.Debug().Err(err).Int64("lectureID", p.query.LectureID).Msg("Question refresh failed")
		}
		return
	}
	onUpdate(questions)
}
