// Package probe runs startup reachability checks against the services
// the application depends on, so a misconfigured endpoint fails loudly
// at launch instead of on the first map interaction.
package probe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const checkTimeout = 5 * time.Second

// Check is a single startup check. Critical failures abort startup;
// non-critical ones are logged and the application runs degraded.
type Check struct {
	Name     string
	Run      func(ctx context.Context) error
	Critical bool
}

// RunAll executes the checks in order, each under its own timeout, and
// returns the joined errors of failed critical checks.
func RunAll(ctx context.Context, checks []Check) error {
	var critical []error

	for _, c := range checks {
		start := time.Now()
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := c.Run(checkCtx)
		cancel()
		elapsed := time.Since(start).Round(time.Millisecond)

		if err != nil {
			slog.Error(fmt.Sprintf("[FAIL] %-20s (%v)", c.Name, elapsed), "error", err)
			if c.Critical {
				critical = append(critical, fmt.Errorf("%s: %w", c.Name, err))
			}
			continue
		}
		slog.Info(fmt.Sprintf("[PASS] %-20s (%v)", c.Name, elapsed))
	}

	return errors.Join(critical...)
}
