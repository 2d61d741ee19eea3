package terminal

import (
	"context"
	"io"
	"os"
	"time"

	"vote_automation/application/voter"

	"github.com/briandowns/spinner"
)

// spinnerPause - waits like voter.Sleep while showing a spinner labelled
// with suffix on w. Nothing is drawn unless w is a terminal.
func spinnerPause(w io.Writer, suffix string) voter.PauseFunc {
	f, ok := w.(*os.File)
	if !ok {
		return voter.Sleep
	}
	return func(ctx context.Context, d time.Duration) error {
		if d <= 0 {
			return nil
		}
		s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(f))
		s.Suffix = suffix
		s.Start()
		defer s.Stop()

		return voter.Sleep(ctx, d)
	}
}
