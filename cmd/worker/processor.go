package main

import (
	"context"

	"github.com/martinmanurung/cinevault/internal/platform/mailer"
	"github.com/martinmanurung/cinevault/internal/platform/queue"
	zlog "github.com/rs/zerolog/log"
)

// JobProcessor drains the mail queue and hands each job to the SMTP
// mailer. Delivery is best-effort: a failed send is logged and the job
// dropped.
type JobProcessor struct {
	queueService queue.QueueService
	mailService  *mailer.Mailer
}

func NewJobProcessor(queueService queue.QueueService, mailService *mailer.Mailer) *JobProcessor {
	return &JobProcessor{
		queueService: queueService,
		mailService:  mailService,
	}
}

// Start begins processing jobs from the queue until the context is
// cancelled.
func (p *JobProcessor) Start(ctx context.Context) error {
	zlog.Info().Msg("Job processor started, waiting for mail jobs...")

	for {
		select {
		case <-ctx.Done():
			zlog.Info().Msg("Job processor stopped")
			return ctx.Err()
		default:
			// Consume job from queue (blocking call with timeout)
			job, err := p.queueService.ConsumeMailJob(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				zlog.Error().Err(err).Msg("Error consuming mail job")
				continue
			}

			if job == nil {
				// No job available (timeout), continue
				continue
			}

			if err := p.mailService.Send(job.To, job.Subject, job.HTMLBody); err != nil {
				zlog.Error().Err(err).Str("to", job.To).Str("subject", job.Subject).Msg("Mail delivery failed")
				continue
			}
			zlog.Info().Str("to", job.To).Str("subject", job.Subject).Msg("Mail delivered")
		}
	}
}
