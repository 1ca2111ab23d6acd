package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ddns_update_client/internal/domain/ddns"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalConfig = `ddns:
  server: ddns.example.com
  port: 8245
  users:
    - username: alice
      password: s3cret
`

const fullConfig = `ddns:
  server: ddns.example.com
  port: 8245
  protocol: https
  path: /nic/update
  schedule: "*/10 * * * *"
  last_ip: 1.2.3.4
  users:
    - username: alice
      password: s3cret
    - username: bob
      password: hunter2
smtp:
  server: smtp.example.com
  port: 587
  username: mailer
  password: mailpass
  sender: ddns@example.com
  receiver: ops@example.com
  use_tls: false
telegram:
  token: "123456:ABC-DEF"
  chat_id: 4242
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newTestStore(t *testing.T, path string) (*FileStore, *logrustest.Hook) {
	t.Helper()
	log, hook := logrustest.NewNullLogger()
	return NewFileStore(path, log.WithField("component", "store")), hook
}

func hasLogEntry(hook *logrustest.Hook, level logrus.Level, substr string) bool {
	for _, entry := range hook.AllEntries() {
		if entry.Level == level && strings.Contains(entry.Message, substr) {
			return true
		}
	}
	return false
}

func TestLoadAppliesDefaults(t *testing.T) {
	s, hook := newTestStore(t, writeConfig(t, minimalConfig))

	doc, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultProtocol, doc.DDNS.Protocol)
	assert.Equal(t, DefaultPath, doc.DDNS.Path)
	assert.Equal(t, DefaultSchedule, doc.DDNS.Schedule)
	assert.Equal(t, ddns.SentinelIP, doc.DDNS.LastIP)
	assert.Equal(t, "http://ddns.example.com:8245/nic/update", doc.DDNS.UpdateURL())
	assert.True(t, hasLogEntry(hook, logrus.WarnLevel, "no schedule configured"))
	assert.Nil(t, doc.SMTP)
	assert.Nil(t, doc.Telegram)
}

func TestLoadFullDocument(t *testing.T) {
	s, _ := newTestStore(t, writeConfig(t, fullConfig))

	doc, err := s.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://ddns.example.com:8245/nic/update", doc.DDNS.UpdateURL())
	assert.Equal(t, "1.2.3.4", doc.DDNS.LastIP)
	require.Len(t, doc.DDNS.Users, 2)
	assert.Equal(t, ddns.Account{Username: "alice", Password: "s3cret"}, doc.DDNS.Users[0])

	require.NotNil(t, doc.SMTP)
	assert.True(t, doc.SMTP.Complete())
	assert.False(t, doc.SMTP.TLSEnabled(), "use_tls: false must be honored")

	require.NotNil(t, doc.Telegram)
	assert.Equal(t, int64(4242), doc.Telegram.ChatID)
}

func TestLoadMissingFile(t *testing.T) {
	s, _ := newTestStore(t, filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := s.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfigNotFound)
}

func TestLoadMalformedYAML(t *testing.T) {
	s, _ := newTestStore(t, writeConfig(t, "ddns: [unclosed"))

	_, err := s.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing configuration")
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"empty file",
			"",
			"empty or has no ddns section",
		},
		{
			"no users",
			"ddns:\n  server: ddns.example.com\n  port: 8245\n",
			"no accounts configured",
		},
		{
			"no complete account",
			"ddns:\n  server: ddns.example.com\n  port: 8245\n  users:\n    - username: alice\n",
			"username and a password",
		},
		{
			"missing server",
			"ddns:\n  port: 8245\n  users:\n    - username: alice\n      password: p\n",
			"ddns.server is required",
		},
		{
			"missing port",
			"ddns:\n  server: ddns.example.com\n  users:\n    - username: alice\n      password: p\n",
			"ddns.port is required",
		},
		{
			"malformed schedule",
			"ddns:\n  server: ddns.example.com\n  port: 8245\n  schedule: not-a-cron\n  users:\n    - username: alice\n      password: p\n",
			"invalid cron schedule",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s, _ := newTestStore(t, writeConfig(t, tc.content))
			_, err := s.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadWarnsAboutIncompleteAccounts(t *testing.T) {
	content := `ddns:
  server: ddns.example.com
  port: 8245
  users:
    - username: alice
      password: s3cret
    - username: bob
`
	s, hook := newTestStore(t, writeConfig(t, content))

	doc, err := s.Load()
	require.NoError(t, err, "one complete account is enough to start")
	assert.Len(t, doc.DDNS.Users, 2, "incomplete accounts stay in the document")
	assert.True(t, hasLogEntry(hook, logrus.WarnLevel, "bob"))
}

func TestLoadWarnsAboutSubMinuteSchedule(t *testing.T) {
	content := `ddns:
  server: ddns.example.com
  port: 8245
  schedule: "@every 30s"
  users:
    - username: alice
      password: s3cret
`
	s, hook := newTestStore(t, writeConfig(t, content))

	_, err := s.Load()
	require.NoError(t, err, "a tight schedule is a warning, not an error")
	assert.True(t, hasLogEntry(hook, logrus.WarnLevel, "more often"))
}

func TestLoadEveryMinuteScheduleIsQuiet(t *testing.T) {
	content := `ddns:
  server: ddns.example.com
  port: 8245
  schedule: "* * * * *"
  users:
    - username: alice
      password: s3cret
`
	s, hook := newTestStore(t, writeConfig(t, content))

	_, err := s.Load()
	require.NoError(t, err)
	assert.False(t, hasLogEntry(hook, logrus.WarnLevel, "more often"), "one-minute gaps are the allowed minimum")
}

func TestLoadCoercesInvalidCachedIP(t *testing.T) {
	content := `ddns:
  server: ddns.example.com
  port: 8245
  last_ip: not-an-ip
  users:
    - username: alice
      password: s3cret
`
	path := writeConfig(t, content)
	s, hook := newTestStore(t, path)

	doc, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, ddns.SentinelIP, doc.DDNS.LastIP)
	assert.True(t, hasLogEntry(hook, logrus.WarnLevel, "not a valid IPv4"))

	// The reset must be durable, not just in memory.
	fresh, _ := newTestStore(t, path)
	reloaded, err := fresh.Load()
	require.NoError(t, err)
	assert.Equal(t, ddns.SentinelIP, reloaded.DDNS.LastIP)
}

func TestSaveLastIPRoundTrip(t *testing.T) {
	path := writeConfig(t, fullConfig)
	s, _ := newTestStore(t, path)

	_, err := s.Load()
	require.NoError(t, err)
	require.NoError(t, s.SaveLastIP("5.6.7.8"))

	fresh, _ := newTestStore(t, path)
	doc, err := fresh.Load()
	require.NoError(t, err)

	assert.Equal(t, "5.6.7.8", doc.DDNS.LastIP)
	require.Len(t, doc.DDNS.Users, 2, "accounts must survive a baseline update")
	assert.Equal(t, "bob", doc.DDNS.Users[1].Username)
	require.NotNil(t, doc.SMTP, "smtp section must survive a baseline update")
	assert.False(t, doc.SMTP.TLSEnabled())
	require.NotNil(t, doc.Telegram, "telegram section must survive a baseline update")
	assert.Equal(t, "123456:ABC-DEF", doc.Telegram.Token)
}

func TestSaveKeepsCanonicalFileOnFailure(t *testing.T) {
	path := writeConfig(t, fullConfig)
	s, _ := newTestStore(t, path)
	_, err := s.Load()
	require.NoError(t, err)

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	// A directory occupying the staging path makes the staging write fail.
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	err = s.SaveLastIP("5.6.7.8")
	require.Error(t, err)

	after, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, before, after, "a failed save must leave the canonical file byte-for-byte intact")
}

func TestSaveLastIPBeforeLoad(t *testing.T) {
	s, _ := newTestStore(t, filepath.Join(t.TempDir(), "config.yaml"))
	assert.ErrorIs(t, s.SaveLastIP("5.6.7.8"), ErrNotLoaded)
}

func TestSMTPSettingsComplete(t *testing.T) {
	var nilSection *SMTPSettings
	assert.False(t, nilSection.Complete())
	assert.True(t, nilSection.TLSEnabled(), "missing section defaults to TLS on")

	partial := &SMTPSettings{Server: "smtp.example.com", Port: 587}
	assert.False(t, partial.Complete())

	full := &SMTPSettings{
		Server: "smtp.example.com", Port: 587,
		Username: "u", Password: "p",
		Sender: "a@example.com", Receiver: "b@example.com",
	}
	assert.True(t, full.Complete())
	assert.True(t, full.TLSEnabled(), "absent use_tls defaults to on")

	off := false
	full.UseTLS = &off
	assert.False(t, full.TLSEnabled())
}
