package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"voice-whisper/cmd/a2t/cmd"
	apperrors "voice-whisper/internal/app/errors"
	"voice-whisper/internal/config"
)

func main() {
	// Variables already set in the process win over .env values.
	if _, err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes the command line and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if err := cmd.Execute(ctx, args, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return 0
}

func exitCode(err error) int {
	kind, ok := apperrors.KindOf(err)
	if !ok {
		return 1
	}
	switch kind {
	case apperrors.KindConfiguration:
		return 2
	case apperrors.KindDecode:
		return 3
	case apperrors.KindIO:
		return 4
	case apperrors.KindTranscription:
		return 5
	case apperrors.KindReply:
		return 6
	default:
		return 1
	}
}
