// internal/infra/store/store.go
package store

import (
	"fmt"
	"os"
	"time"

	"ddns_update_client/internal/domain/ddns"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Defaults applied to optional fields that operators usually leave out.
const (
	DefaultProtocol = "http"
	DefaultPath     = "/nic/update"
	DefaultSchedule = "*/5 * * * *"
)

// minCronInterval is the shortest sensible gap between reconciliations.
// Tighter schedules only hammer the detection services, so they are
// warned about but still honored.
const minCronInterval = time.Minute

// Custom errors specific to the configuration store
var ErrConfigNotFound = fmt.Errorf("configuration file not found")
var ErrNotLoaded = fmt.Errorf("no configuration document loaded")

// Document is the full durable configuration record. The smtp and telegram
// sections are optional; they stay nil when absent so a load followed by a
// save round-trips what the operator wrote.
type Document struct {
	DDNS     DDNSSettings      `yaml:"ddns"`
	SMTP     *SMTPSettings     `yaml:"smtp,omitempty"`
	Telegram *TelegramSettings `yaml:"telegram,omitempty"`
}

// DDNSSettings describes the provider endpoint, the update schedule, the
// accounts to reconcile and the confirmed-address baseline.
type DDNSSettings struct {
	Server   string         `yaml:"server"`
	Port     int            `yaml:"port"`
	Protocol string         `yaml:"protocol"`
	Path     string         `yaml:"path"`
	Schedule string         `yaml:"schedule"`
	LastIP   string         `yaml:"last_ip"`
	Users    []ddns.Account `yaml:"users"`
}

// UpdateURL builds the provider update endpoint from its parts.
func (d DDNSSettings) UpdateURL() string {
	return fmt.Sprintf("%s://%s:%d%s", d.Protocol, d.Server, d.Port, d.Path)
}

// SMTPSettings configures the email notification relay.
type SMTPSettings struct {
	Server   string `yaml:"server"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Sender   string `yaml:"sender"`
	Receiver string `yaml:"receiver"`
	UseTLS   *bool  `yaml:"use_tls,omitempty"` // absent means enabled
}

// Complete reports whether every field needed to actually send mail is set.
// Safe to call on a nil section.
func (s *SMTPSettings) Complete() bool {
	if s == nil {
		return false
	}
	return s.Server != "" && s.Port > 0 && s.Username != "" &&
		s.Password != "" && s.Sender != "" && s.Receiver != ""
}

// TLSEnabled reports whether STARTTLS should be attempted on non-465 ports.
func (s *SMTPSettings) TLSEnabled() bool {
	return s == nil || s.UseTLS == nil || *s.UseTLS
}

// TelegramSettings configures the optional Telegram notification channel.
type TelegramSettings struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

// FileStore loads, validates and persists the configuration document. The
// document is owned by this single process, so writes are serialized by
// construction and protected on disk by atomic replacement.
type FileStore struct {
	path string
	log  *logrus.Entry
	doc  *Document
}

func NewFileStore(path string, log *logrus.Entry) *FileStore {
	return &FileStore{path: path, log: log}
}

// Load reads the document from disk, applies defaults and validates it.
// A missing file is an error: this client never provisions its own
// configuration.
func (s *FileStore) Load() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, s.path)
		}
		return nil, fmt.Errorf("error reading configuration file: %w", err)
	}

	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("error parsing configuration file: %w", err)
	}

	s.applyDefaults(doc)
	if err := s.validate(doc); err != nil {
		return nil, err
	}
	s.doc = doc

	// An unusable cached address must never suppress or corrupt an update,
	// so it is reset to the sentinel and the reset is written back.
	if doc.DDNS.LastIP != "" && !ddns.IsValidIPv4(doc.DDNS.LastIP) {
		s.log.Warnf("cached IP %q is not a valid IPv4 address, resetting to %s", doc.DDNS.LastIP, ddns.SentinelIP)
		doc.DDNS.LastIP = ddns.SentinelIP
		if err := s.save(); err != nil {
			s.log.Errorf("could not persist cached IP reset: %v", err)
		}
	}
	if doc.DDNS.LastIP == "" {
		doc.DDNS.LastIP = ddns.SentinelIP
	}

	return doc, nil
}

func (s *FileStore) applyDefaults(doc *Document) {
	if doc.DDNS.Protocol == "" {
		doc.DDNS.Protocol = DefaultProtocol
	}
	if doc.DDNS.Path == "" {
		doc.DDNS.Path = DefaultPath
	}
	if doc.DDNS.Schedule == "" {
		s.log.Warnf("no schedule configured, using default %q", DefaultSchedule)
		doc.DDNS.Schedule = DefaultSchedule
	}
}

func (s *FileStore) validate(doc *Document) error {
	if doc.DDNS.Server == "" && len(doc.DDNS.Users) == 0 {
		return fmt.Errorf("configuration file is empty or has no ddns section")
	}
	if len(doc.DDNS.Users) == 0 {
		return fmt.Errorf("no accounts configured under ddns.users")
	}

	complete := 0
	for _, account := range doc.DDNS.Users {
		if account.Complete() {
			complete++
			continue
		}
		s.log.Warnf("account %q is missing a username or password and will be skipped", account.Username)
	}
	if complete == 0 {
		return fmt.Errorf("no account has both a username and a password")
	}

	if doc.DDNS.Server == "" {
		return fmt.Errorf("ddns.server is required")
	}
	if doc.DDNS.Port <= 0 {
		return fmt.Errorf("ddns.port is required")
	}

	schedule, err := cron.ParseStandard(doc.DDNS.Schedule)
	if err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", doc.DDNS.Schedule, err)
	}
	first := schedule.Next(time.Now())
	if second := schedule.Next(first); second.Sub(first) < minCronInterval {
		s.log.Warnf("schedule %q triggers more often than once per minute", doc.DDNS.Schedule)
	}

	return nil
}

// SaveLastIP records ip as the new confirmed baseline and persists the whole
// document. The in-memory document keeps the new value even when persistence
// fails; the caller decides how loudly to complain.
func (s *FileStore) SaveLastIP(ip string) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.DDNS.LastIP = ip
	return s.save()
}

// save writes the document to a staging file and renames it over the
// canonical path, so a crash mid-write can never truncate the real file.
func (s *FileStore) save() error {
	data, err := yaml.Marshal(s.doc)
	if err != nil {
		return fmt.Errorf("error serializing configuration: %w", err)
	}

	staging := s.path + ".tmp"
	if err := os.WriteFile(staging, data, 0o600); err != nil {
		os.Remove(staging)
		return fmt.Errorf("error writing staging file: %w", err)
	}
	if err := os.Rename(staging, s.path); err != nil {
		os.Remove(staging)
		return fmt.Errorf("error replacing configuration file: %w", err)
	}
	return nil
}
