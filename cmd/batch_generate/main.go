package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"

	"quizforge/internal/app"
	"quizforge/internal/config"
	"quizforge/internal/dto"
	"quizforge/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	topicsFile := flag.String("topics", "", "file with one topic per line (default: remaining arguments)")
	difficulty := flag.String("difficulty", "medium", "difficulty for every quiz")
	count := flag.Int("count", 10, "questions per quiz")
	workers := flag.Int("workers", 2, "concurrent generation requests")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	topics, err := readTopics(*topicsFile, flag.Args())
	if err != nil {
		log.Fatal("Failed to read topics", zap.Error(err))
	}
	if len(topics) == 0 {
		log.Fatal("No topics given")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize application", zap.Error(err))
	}
	defer container.Close()

	log.Info("Batch generation starting", zap.Int("topics", len(topics)), zap.Int("workers", *workers))

	var created, failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(*workers, 1))
	for _, topic := range topics {
		g.Go(func() error {
			req := &dto.GenerateQuizRequest{Mode: dto.ModeTopic, Topic: topic, Difficulty: *difficulty, Count: *count}
			if errs := container.Validator.ValidateGenerateQuizRequest(req); len(errs) > 0 {
				failed.Add(1)
				log.Warn("Skipping invalid topic", zap.String("topic", topic), zap.Error(errs))
				return nil
			}
			quiz, err := container.Quizzes.GenerateQuiz(gctx, req)
			if err != nil {
				// One topic failing does not stop the batch.
				failed.Add(1)
				log.Error("Failed to generate quiz", zap.String("topic", topic), zap.Error(err))
				return nil
			}
			created.Add(1)
			log.Info("Quiz generated", zap.String("topic", topic), zap.String("quiz_id", quiz.ID), zap.Int("questions", len(quiz.Questions)))
			return nil
		})
	}
	_ = g.Wait()

	log.Info("Batch generation finished", zap.Int32("created", created.Load()), zap.Int32("failed", failed.Load()))
	if failed.Load() > 0 {
		os.Exit(1)
	}
}

func readTopics(path string, args []string) ([]string, error) {
	if path == "" {
		return args, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var topics []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		topics = append(topics, line)
	}
	return topics, sc.Err()
}
