package app

import (
	"fmt"
	"strings"
	"time"

	"ddns_update_client/internal/domain/ddns"
	domainNotify "ddns_update_client/internal/domain/notify"
)

const (
	subjectSuccess       = "DDNS update succeeded"
	subjectPartial       = "DDNS update finished with failures"
	subjectResolveFailed = "Public IP detection failed"
)

// buildReport renders the single aggregated notification a cycle produces.
func buildReport(result *ddns.CycleResult, now time.Time) domainNotify.Message {
	var b strings.Builder

	if result.AllSuccess() {
		b.WriteString("DDNS update completed successfully!\n\n")
	} else {
		b.WriteString("DDNS update finished, but not every account succeeded.\n\n")
	}
	fmt.Fprintf(&b, "New IP address: %s\n", result.NewIP)
	fmt.Fprintf(&b, "Previous IP address: %s\n", result.PreviousIP)
	fmt.Fprintf(&b, "Update time: %s\n", now.Format("2006-01-02 15:04:05"))

	if len(result.Succeeded) > 0 {
		fmt.Fprintf(&b, "\n✅ Updated accounts (%d):\n", len(result.Succeeded))
		for _, username := range result.Succeeded {
			fmt.Fprintf(&b, "  - %s\n", username)
		}
	}
	if len(result.Failed) > 0 {
		fmt.Fprintf(&b, "\n❌ Failed accounts (%d):\n", len(result.Failed))
		for _, failure := range result.Failed {
			fmt.Fprintf(&b, "  - %s: %s\n", failure.Username, failure.Reason)
		}
	}
	if result.SkippedCount > 0 {
		fmt.Fprintf(&b, "\n⚠️ Skipped accounts with incomplete credentials: %d\n", result.SkippedCount)
	}

	subject := subjectPartial
	if result.AllSuccess() {
		subject = subjectSuccess
	}
	return domainNotify.Message{Subject: subject, Body: strings.TrimRight(b.String(), "\n")}
}
