// Command ragcore-demo answers a single question against a configured
// ragcore.Engine and prints the resulting envelope. It is a wiring demo,
// not a server - this engine has no HTTP surface by design.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/huskyrag/ragcore"
)

func main() {
	if err := run(); err != nil {
		slog.Error("ragcore-demo failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	question := flag.String("question", "", "question text to answer")
	mode := flag.String("mode", "fast", "retrieval mode: ultrafast, fast, balanced, comprehensive")
	deadline := flag.Duration("deadline", 5*time.Second, "soft deadline for the answer")
	flag.Parse()

	if *question == "" {
		return fmt.Errorf("ragcore-demo: -question is required")
	}

	engine, mgr, err := ragcore.NewFromEnv()
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	defer engine.Close()

	slog.Info("engine configured", "reload_count", mgr.Status().ReloadCount)

	ctx, cancel := context.WithTimeout(context.Background(), *deadline+time.Second)
	defer cancel()

	if err := engine.Healthcheck(ctx); err != nil {
		slog.Warn("healthcheck failed, answering anyway", "error", err)
	}

	envelope, err := engine.Answer(ctx, ragcore.Question{
		Text:     *question,
		Mode:     ragcore.Mode(*mode),
		Deadline: time.Now().Add(*deadline),
	})
	if err != nil {
		return fmt.Errorf("answer: %w", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(envelope)
}
