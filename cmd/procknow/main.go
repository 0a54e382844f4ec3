// Package main implements the procknow command: a terminal flashcard trainer
// whose cards are produced by generators, with a local HTTP API over the same
// study engine.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
)

const usage = `usage: procknow [--config file] <command> [flags]

commands:
  study     study a topic in the terminal
  serve     run the HTTP API
  stats     print a folder's statistics
  topics    list folders and their topics
  migrate   run SQL store migrations (up, down, status, version, reset)
`

// errUsage is returned when the command line cannot be understood.
var errUsage = errors.New("invalid usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "procknow: %v\n", err)
		}
		os.Exit(1)
	}
}

// run parses the global flags, then dispatches to the named command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	global := flag.NewFlagSet("procknow", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	configPath := global.String("config", "", "path to a YAML configuration file")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return errUsage
	}

	rest := global.Args()
	if len(rest) == 0 {
		global.Usage()
		return errUsage
	}

	cmd, cmdArgs := rest[0], rest[1:]
	switch cmd {
	case "study":
		return runStudy(ctx, *configPath, cmdArgs, stderr)
	case "serve":
		return runServe(ctx, *configPath, cmdArgs, stderr)
	case "stats":
		return runStats(ctx, *configPath, cmdArgs, stdout, stderr)
	case "topics":
		return runTopics(ctx, *configPath, cmdArgs, stdout, stderr)
	case "migrate":
		return runMigrate(ctx, *configPath, cmdArgs, stderr)
	case "help":
		global.Usage()
		return nil
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		global.Usage()
		return errUsage
	}
}
