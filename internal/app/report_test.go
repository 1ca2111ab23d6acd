package app

import (
	"testing"
	"time"

	"ddns_update_client/internal/domain/ddns"

	"github.com/stretchr/testify/assert"
)

var reportTime = time.Date(2026, 8, 22, 10, 30, 0, 0, time.UTC)

func TestBuildReportSuccess(t *testing.T) {
	msg := buildReport(&ddns.CycleResult{
		PreviousIP: "203.0.113.7",
		NewIP:      "198.51.100.2",
		Succeeded:  []string{"alice", "bob"},
	}, reportTime)

	assert.Equal(t, subjectSuccess, msg.Subject)
	assert.Contains(t, msg.Body, "New IP address: 198.51.100.2")
	assert.Contains(t, msg.Body, "Previous IP address: 203.0.113.7")
	assert.Contains(t, msg.Body, "Update time: 2026-08-22 10:30:00")
	assert.Contains(t, msg.Body, "✅ Updated accounts (2):")
	assert.Contains(t, msg.Body, "- alice")
	assert.Contains(t, msg.Body, "- bob")
	assert.NotContains(t, msg.Body, "❌")
	assert.NotContains(t, msg.Body, "⚠️")
}

func TestBuildReportPartialFailure(t *testing.T) {
	msg := buildReport(&ddns.CycleResult{
		PreviousIP: "203.0.113.7",
		NewIP:      "198.51.100.2",
		Succeeded:  []string{"alice"},
		Failed: []ddns.UpdateFailure{
			{Username: "bob", Reason: "authentication failed, check username and password"},
		},
		SkippedCount: 1,
	}, reportTime)

	assert.Equal(t, subjectPartial, msg.Subject)
	assert.Contains(t, msg.Body, "❌ Failed accounts (1):")
	assert.Contains(t, msg.Body, "- bob: authentication failed, check username and password")
	assert.Contains(t, msg.Body, "✅ Updated accounts (1):")
	assert.Contains(t, msg.Body, "⚠️ Skipped accounts with incomplete credentials: 1")
}

func TestBuildReportEverythingSkipped(t *testing.T) {
	msg := buildReport(&ddns.CycleResult{
		PreviousIP:   "203.0.113.7",
		NewIP:        "198.51.100.2",
		SkippedCount: 2,
	}, reportTime)

	assert.Equal(t, subjectPartial, msg.Subject, "a cycle that attempted nothing is not a success")
	assert.NotContains(t, msg.Body, "✅")
	assert.Contains(t, msg.Body, "⚠️ Skipped accounts with incomplete credentials: 2")
}
