// Command kbchat drives the chat backend API from a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"kbchat/internal/api"
	"kbchat/internal/apiclient"
	"kbchat/internal/config"
	"kbchat/internal/credential"
)

const usage = `usage: kbchat [-v] <command> [args]

commands:
  chat [-history file.json] [-top-k n] <prompt>
  upload [-check] <file>
  prompt get
  prompt set <text>
  token set <value>
  token clear
  token show
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, config.Load(), os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	api    *api.API
	store  *credential.Store
	stdout io.Writer
	stderr io.Writer
}

func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("kbchat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { fmt.Fprint(stderr, usage) }
	verbose := fs.Bool("v", false, "log every request and response")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	store, closeStore, err := credential.Open(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stderr, "✗ credential store: %v\n", err)
		return 1
	}
	defer closeStore()

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(stderr, "", log.LstdFlags)
	}

	client := apiclient.New(cfg.APIBaseURL, store,
		apiclient.WithTimeout(cfg.APITimeout),
		apiclient.WithLogger(logger),
	)
	a := &app{api: api.New(client), store: store, stdout: stdout, stderr: stderr}

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "chat":
		err = a.chat(ctx, rest)
	case "upload":
		err = a.upload(ctx, rest)
	case "prompt":
		err = a.prompt(ctx, rest)
	case "token":
		err = a.token(ctx, rest)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n", cmd)
		fs.Usage()
		return 2
	}

	if err != nil {
		fmt.Fprintf(stderr, "✗ %v\n", err)
		return 1
	}
	return 0
}
