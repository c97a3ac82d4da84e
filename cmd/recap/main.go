package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"runpool/internal/config"
	"runpool/internal/database"
	"runpool/internal/logging"
	"runpool/internal/models"
	"runpool/internal/ranking"
	"runpool/internal/repository"
	"runpool/internal/service"
	"runpool/internal/validation"
)

func main() {
	// Define subcommands
	previewCmd := flag.NewFlagSet("preview", flag.ExitOnError)
	sendCmd := flag.NewFlagSet("send", flag.ExitOnError)

	// Preview flags
	previewLimit := previewCmd.Int("limit", 0, "Number of closed challenges to recap (default: RECAP_DEFAULT_LIMIT)")
	previewGroup := previewCmd.String("group", "", "Only recap the latest closed challenge of this group")

	// Send flags
	sendLimit := sendCmd.Int("limit", 0, "Number of closed challenges to recap (default: RECAP_DEFAULT_LIMIT)")
	sendGroup := sendCmd.String("group", "", "Only recap the latest closed challenge of this group")
	sendTo := sendCmd.String("to", "", "Comma separated recipients (default: RECAP_TEST_RECIPIENTS)")

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Load configuration
	cfg := config.Load()

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "preview":
		previewCmd.Parse(os.Args[2:])
		recaps, err := computeRecaps(ctx, cfg, logger, *previewLimit, *previewGroup)
		if err != nil {
			logger.Fatal("failed to compute recaps", zap.Error(err))
		}
		printJSON(recaps)

	case "send":
		sendCmd.Parse(os.Args[2:])
		recipients := cfg.RecapTestRecipients
		if *sendTo != "" {
			recipients = config.SplitList(*sendTo)
		}
		if len(recipients) == 0 {
			fmt.Println("Error: -to flag or RECAP_TEST_RECIPIENTS is required")
			sendCmd.PrintDefaults()
			os.Exit(1)
		}
		if err := validation.ValidateRecipients(recipients); err != nil {
			logger.Fatal("invalid recipients", zap.Error(err))
		}
		handleSend(ctx, cfg, logger, *sendLimit, *sendGroup, recipients)

	default:
		printUsage()
		os.Exit(1)
	}
}

func computeRecaps(ctx context.Context, cfg *config.Config, logger *zap.Logger, limit int, groupID string) ([]models.Recap, error) {
	db, err := database.InitializeWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	policy, err := ranking.ParsePolicy(cfg.ResubmissionPolicy)
	if err != nil {
		return nil, err
	}

	challenges := repository.NewChallengeRepository(db)
	groups := repository.NewGroupRepository(db)
	leaderboards := service.NewLeaderboardService(
		repository.NewProofRepository(db),
		challenges,
		groups,
		repository.NewSnapshotRepository(db),
		policy,
		cfg.StreakWindow,
		logger,
	)
	recaps := service.NewRecapService(challenges, groups, leaderboards, cfg.RecapDefaultLimit, logger)
	return recaps.ComputeRecap(ctx, limit, groupID)
}

func handleSend(ctx context.Context, cfg *config.Config, logger *zap.Logger, limit int, groupID string, recipients []string) {
	email, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL, cfg.EmailDebug, logger)
	if err != nil {
		logger.Fatal("failed to initialize email service", zap.Error(err))
	}
	if !email.IsEnabled() {
		logger.Fatal("email is not configured", zap.Error(&config.ConfigurationError{Setting: "SES_FROM_EMAIL"}))
	}

	recaps, err := computeRecaps(ctx, cfg, logger, limit, groupID)
	if err != nil {
		logger.Fatal("failed to compute recaps", zap.Error(err))
	}
	if len(recaps) == 0 {
		logger.Info("no closed challenges to recap")
		return
	}

	dispatcher := service.NewRecapDispatcher(email, cfg.AppBaseURL, logger)
	report, err := dispatcher.DispatchRecapEmails(ctx, recaps, recipients)
	if report != nil {
		printJSON(report)
	}
	if err != nil {
		logger.Fatal("recap delivery failed", zap.Error(err))
	}
	logger.Info("recap delivery complete", zap.Int("successful", report.Successful))
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode output: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("RunPool Recap Tool")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  recap preview [-limit N] [-group ID]")
	fmt.Println("  recap send [-limit N] [-group ID] [-to a@example.com,b@example.com]")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  recap preview -limit 3")
	fmt.Println("  recap send -group 9c1d... -to coach@example.com")
}
