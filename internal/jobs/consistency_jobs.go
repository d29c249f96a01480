package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"memberhub-backend/internal/logger"
)

const sweepTimeout = 10 * time.Minute

// ConsistencySweep audits the denormalized status mirrors of every user
// against the application tables. Drift is logged and reported to the
// configured admin address; nothing is repaired.
func (jr *JobRunner) ConsistencySweep() {
	jr.runWithRecovery("consistency-sweep", func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()

		reports, err := jr.services.Consistency.CheckAll(ctx)
		if err != nil {
			logger.Error("Consistency sweep failed", "error", err)
			return
		}

		var drifted []string
		for _, report := range reports {
			if report.Consistent {
				continue
			}
			for _, d := range report.Discrepancies {
				logger.Warn("Status mirror drift detected",
					"user_id", report.UserID,
					"field", d.Field,
					"user_value", d.UserValue,
					"application_value", d.ApplicationValue,
				)
			}
			drifted = append(drifted, fmt.Sprintf("user %d: %d discrepancies", report.UserID, len(report.Discrepancies)))
		}

		logger.Info("Consistency sweep finished", "users_checked", len(reports), "users_drifted", len(drifted))

		if len(drifted) > 0 && jr.config.Email.AdminEmail != "" {
			subject := fmt.Sprintf("Membership status drift: %d users affected", len(drifted))
			message := "The nightly consistency sweep found status mirror drift:\n\n" + strings.Join(drifted, "\n")
			if err := jr.services.Email.SendAdminAlert(ctx, jr.config.Email.AdminEmail, subject, message); err != nil {
				logger.Error("Failed to send drift alert", "error", err)
			}
		}
	})
}
