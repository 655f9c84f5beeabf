package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"civicstrainer/internal/audio"
	"civicstrainer/internal/config"
	"civicstrainer/internal/handlers"
	"civicstrainer/internal/repository"
	"civicstrainer/internal/service"
	"civicstrainer/internal/utils"
)

const loadTimeout = 30 * time.Second

func main() {
	// Load configuration
	cfg := config.Load()

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	logger := utils.NewLogger(os.Stderr, level, cfg.LogFormat)
	slog.SetDefault(logger)

	ctx := context.Background()

	// Open the progress store (sqlite, postgres, mysql or redis)
	store, err := repository.OpenStateStore(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open state store", "type", cfg.DatabaseType, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Debug("State store ready", utils.LogFieldStore, cfg.DatabaseType)

	questions := repository.NewQuestionRepository(cfg.QASource, cfg.MCQSource, logger)

	command := ""
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	switch command {
	case "report":
		err = runReport(ctx, cfg, store, questions, logger, os.Args[2:])
	case "clear-audio":
		var removed int
		removed, err = audio.NewTTSService(cfg.AudioDir).ClearCache()
		if err == nil {
			fmt.Printf("Removed %d cached audio files from %s\n", removed, cfg.AudioDir)
		}
	case "":
		err = runTrainer(ctx, cfg, store, questions, logger)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command %q. Usage: trainer [report [-to addr] [-dry-run] | clear-audio]\n", command)
		os.Exit(2)
	}
	if err != nil {
		logger.Error("Command failed", "command", command, "error", err)
		os.Exit(1)
	}
}

// runTrainer starts an interactive session on the terminal. Progress is saved
// after every change, so interrupting the process loses nothing.
func runTrainer(ctx context.Context, cfg *config.Config, store repository.StateStore, questions *repository.QuestionRepository, logger *slog.Logger) error {
	snapshot := service.RestoreState(ctx, store, logger)

	loop := service.NewEventLoop(16)
	trainer := service.NewTrainer(service.TrainerOptions{
		Loader:   questions,
		Store:    store,
		Loop:     loop,
		Delay:    cfg.AutoAdvanceDelay,
		Logger:   logger,
		Snapshot: snapshot,
	})
	tts := audio.NewTTSService(cfg.AudioDir)
	handler := handlers.NewStudyHandler(trainer, loop, tts, os.Stdout, logger)

	loopCtx, cancelLoop := context.WithCancel(ctx)
	defer func() {
		cancelLoop()
		<-loop.Done()
	}()
	go loop.Run(loopCtx)

	loadCtx, cancelLoad := context.WithTimeout(ctx, loadTimeout)
	defer cancelLoad()
	trainer.StartLoading(loadCtx)

	return handler.Run(ctx, os.Stdin)
}

// runReport emails (or prints) a progress summary over both banks
func runReport(ctx context.Context, cfg *config.Config, store repository.StateStore, questions *repository.QuestionRepository, logger *slog.Logger, args []string) error {
	reportCmd := flag.NewFlagSet("report", flag.ExitOnError)
	to := reportCmd.String("to", cfg.ReportToEmail, "Recipient address (default: REPORT_TO_EMAIL)")
	dryRun := reportCmd.Bool("dry-run", false, "Print the report instead of sending it")
	reportCmd.Parse(args)

	loadCtx, cancel := context.WithTimeout(ctx, loadTimeout)
	defer cancel()
	banks := questions.Load(loadCtx)
	if banks.Failed() {
		return fmt.Errorf("failed to load questions: %w", banks.QAErr)
	}

	snapshot := service.RestoreState(ctx, store, logger)
	report := service.BuildProgressReport(banks, service.NewLedger(snapshot.Results), time.Now())

	if *dryRun || *to == "" {
		fmt.Print(service.ReportText(report))
		return nil
	}

	emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, logger)
	if err != nil {
		return err
	}
	if !emailService.IsEnabled() {
		fmt.Print(service.ReportText(report))
		return nil
	}
	return emailService.SendProgressReport(ctx, *to, report)
}
