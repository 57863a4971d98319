package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talentpulse/internal/ai"
	"github.com/spigell/talentpulse/internal/storage"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions about the last saved candidate matching",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return chat(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chat(ctx context.Context) error {
	cfg, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	client, err := newGeminiClient(ctx, cfg, log)
	if err != nil {
		return err
	}
	assistant, err := newAssistant(client, cfg, log)
	if err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Storage.Driver, err)
	}
	defer store.Close()

	prompt := promptui.Prompt{
		Label: "Question (exit to quit)",
	}

	for {
		question, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading question: %w", err)
		}

		question = strings.TrimSpace(question)
		switch strings.ToLower(question) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		answer, err := answerFromStore(ctx, assistant, store, question)
		if err != nil {
			log.Error("answering question", zap.Error(err))
			continue
		}
		fmt.Println(answer)
	}
}

func answerFromStore(ctx context.Context, assistant *ai.Assistant, store storage.Store, question string) (string, error) {
	rec, err := store.Latest(ctx)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return "", err
	}
	return assistant.Answer(ctx, question, string(rec))
}
