package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ddns_update_client/internal/app"
	domainNotify "ddns_update_client/internal/domain/notify"
	"ddns_update_client/internal/infra/config"
	"ddns_update_client/internal/infra/health"
	"ddns_update_client/internal/infra/ipcheck"
	"ddns_update_client/internal/infra/logger"
	infraNotify "ddns_update_client/internal/infra/notify"
	"ddns_update_client/internal/infra/provider"
	"ddns_update_client/internal/infra/scheduler"
	"ddns_update_client/internal/infra/store"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func main() {
	notifyTest := flag.Bool("notify-test", false, "send a test notification through the configured channels and exit")
	flag.Parse()

	fmt.Println("DDNS update client starting...")

	cfg := config.Load()
	logger.Init(cfg)
	log := logger.Log.WithField("component", "main")

	fileStore := store.NewFileStore(cfg.ConfigFile, logger.Log.WithField("component", "store"))
	doc, err := fileStore.Load()
	if err != nil {
		log.Fatalf("could not load configuration from %s: %v", cfg.ConfigFile, err)
	}
	log.Infof("configuration loaded from %s: %d account(s), schedule %q, endpoint %s",
		cfg.ConfigFile, len(doc.DDNS.Users), doc.DDNS.Schedule, doc.DDNS.UpdateURL())

	resolver := ipcheck.NewWebResolver(nil, logger.Log.WithField("component", "ipcheck"))
	updater := provider.NewClient(doc.DDNS.UpdateURL(), logger.Log.WithField("component", "provider"))

	var channels []domainNotify.Notifier
	if doc.SMTP.Complete() {
		channels = append(channels, infraNotify.NewEmailNotifier(doc.SMTP, logger.Log.WithField("component", "notify")))
		log.Info("email notification channel enabled")
	} else {
		log.Warn("smtp settings are missing or incomplete, email notifications disabled")
	}
	if doc.Telegram != nil && doc.Telegram.Token != "" {
		bot, err := telebot.NewBot(telebot.Settings{Token: doc.Telegram.Token})
		if err != nil {
			log.Errorf("could not create the Telegram bot, channel disabled: %v", err)
		} else {
			channels = append(channels, infraNotify.NewTelegramNotifier(bot, doc.Telegram.ChatID))
			log.Info("telegram notification channel enabled")
		}
	}
	notifier := infraNotify.NewMulti(logger.Log.WithField("component", "notify"), channels...)

	if *notifyTest {
		runNotifyTest(notifier, cfg.ConfigFile, log)
		return
	}

	marker := health.NewMarker(cfg.HealthFile, logger.Log.WithField("component", "health"))
	service := app.NewReconcileServiceImpl(
		resolver, updater, notifier, fileStore, marker,
		doc.DDNS.Users, logger.Log.WithField("component", "reconciler"),
	)
	state := &app.State{CachedIP: doc.DDNS.LastIP}

	cycles, err := scheduler.NewCycleScheduler(doc.DDNS.Schedule, logger.Log.WithField("component", "scheduler"))
	if err != nil {
		log.Fatalf("could not build the scheduler: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		log.Infof("received signal %s, shutting down...", sig)
		cancel()
	}()

	log.Info("setup complete, entering the reconciliation loop")
	cycles.Run(ctx, func(ctx context.Context) {
		service.RunCycle(ctx, state)
	})

	log.Info("shut down gracefully")
}

// runNotifyTest pushes one message through every configured channel so
// operators can verify credentials before leaving the daemon unattended.
func runNotifyTest(notifier domainNotify.Notifier, configFile string, log *logrus.Entry) {
	msg := domainNotify.Message{
		Subject: "DDNS notification test",
		Body: fmt.Sprintf("This is a test notification.\n\nConfiguration file: %s\nSent at: %s",
			configFile, time.Now().Format("2006-01-02 15:04:05")),
	}
	if err := notifier.Send(context.Background(), msg); err != nil {
		log.Fatalf("test notification failed: %v", err)
	}
	log.Info("test notification sent successfully")
}
