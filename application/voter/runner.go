package voter

import (
	"context"
	"time"

	"vote_automation/domain/entities"

	"github.com/sirupsen/logrus"
)

// Runner votes for each task in turn with a fresh browser per task
type Runner struct {
	voter  *Voter
	logger *logrus.Logger
	delay  time.Duration
	pause  PauseFunc
}

// NewRunner - creates runner; delay is the pause between attempts, waited
// with pause (voter.Sleep when nil)
func NewRunner(v *Voter, logger *logrus.Logger, delay time.Duration, pause PauseFunc) *Runner {
	if pause == nil {
		pause = Sleep
	}
	return &Runner{
		voter:  v,
		logger: logger,
		delay:  delay,
		pause:  pause,
	}
}

// Run - runs every task, carrying on past failed attempts. It stops early
// only when ctx is done; tasks not started are not reported.
func (r *Runner) Run(ctx context.Context, tasks []entities.VoteTask) []entities.Attempt {
	attempts := make([]entities.Attempt, 0, len(tasks))

	for i, task := range tasks {
		if ctx.Err() != nil {
			r.logger.Warnf("Stopping early: %v", ctx.Err())
			break
		}
		if i > 0 && r.delay > 0 {
			if err := r.pause(ctx, r.delay); err != nil {
				r.logger.Warnf("Stopping early: %v", err)
				break
			}
		}

		fields := logrus.Fields{"name": task.Name, "attempt": i + 1, "of": len(tasks)}
		if task.Proxy != nil {
			fields["proxy"] = task.Proxy.String()
		}
		log := r.logger.WithFields(fields)
		log.Info("Starting vote")

		start := time.Now()
		err := r.voter.Vote(ctx, task)
		attempt := entities.Attempt{Task: task, Err: err, Duration: time.Since(start)}
		attempts = append(attempts, attempt)

		if err != nil {
			log.Errorf("Voting process failed: %v", err)
			continue
		}
		log.Info("Voting process completed successfully!")
	}

	return attempts
}

// Failed - counts failed attempts
func Failed(attempts []entities.Attempt) int {
	n := 0
	for _, a := range attempts {
		if !a.Succeeded() {
			n++
		}
	}
	return n
}
