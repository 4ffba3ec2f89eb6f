package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	quizzo "github.com/TheAlpha16/quizzo-go"
	log "github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := quizzo.LoadConfig(*configPath)
	if err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}
	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid configuration")
	}

	logger := cfg.NewLogger()
	if err := run(cfg, logger); err != nil {
		logger.WithError(err).Fatal("quizzo stopped")
	}
}

// run serves until interrupted. Every resource it opens is released before
// it returns, including on error.
func run(cfg quizzo.Config, logger *log.Logger) error {
	opts := append(cfg.Options(logger), quizzo.WithOnError(func(ctx context.Context, msg quizzo.Message, err error) {
		fields := log.Fields{}
		if msg != nil {
			fields["channel"] = msg.ChannelID()
			fields["message"] = msg.ID()
		}
		logger.WithFields(fields).WithError(err).Debug("error reported")
	}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := quizzo.NewValkeyClient(cfg.ValkeyAddress)
	if err != nil {
		return err
	}
	defer client.Close()

	registry := quizzo.NewDefaultRegistry(quizzo.NewValkeyScoreboard(client, cfg.LeaderboardKey))

	var transports []quizzo.Transport
	if cfg.DiscordToken != "" {
		session, err := quizzo.NewDiscordSession(cfg.DiscordToken)
		if err != nil {
			return err
		}
		transports = append(transports, quizzo.NewDiscordTransport(session, opts...))
	}
	if cfg.RelayChannel != "" {
		// The relay transport closes its client, so it gets its own.
		relayClient, err := quizzo.NewValkeyClient(cfg.ValkeyAddress)
		if err != nil {
			return err
		}
		transports = append(transports, quizzo.NewValkeyTransport(relayClient, cfg.RelayChannel, opts...))
	}

	// Shutdown closes a started bot's transport; Close covers the rest.
	// Both are no-ops when repeated.
	defer func() {
		for _, transport := range transports {
			transport.Close()
		}
	}()

	var bots []quizzo.Bot
	defer func() {
		for _, bot := range bots {
			if err := bot.Shutdown(); err != nil {
				logger.WithError(err).Warn("shutdown error")
			}
		}
	}()

	for _, transport := range transports {
		bot := quizzo.NewBot(registry, transport, opts...)
		if err := bot.Start(ctx); err != nil {
			return fmt.Errorf("start bot: %w", err)
		}
		bots = append(bots, bot)
	}
	logger.WithField("transports", len(bots)).Info("quizzo is running")

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}
