package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"kbchat/internal/api"
	"kbchat/internal/credential"
	"kbchat/internal/knowledge"
	"kbchat/internal/models"
)

var errUsage = errors.New("invalid arguments, run kbchat without arguments for usage")

func (a *app) chat(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	historyPath := fs.String("history", "", "JSON file with prior messages")
	topK := fs.Int("top-k", 0, "number of knowledge chunks to retrieve (backend default when 0)")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	req := models.ChatRequest{Prompt: strings.Join(fs.Args(), " "), TopK: *topK}
	if *historyPath != "" {
		history, err := loadHistory(*historyPath)
		if err != nil {
			return err
		}
		req.History = history
	}

	env, err := a.api.Chat.SendMessage(ctx, req)
	if err != nil {
		return err
	}

	if answer, err := api.AnswerText(env); err == nil {
		fmt.Fprintln(a.stdout, answer)
		return nil
	}
	fmt.Fprintln(a.stdout, string(env.Data))
	return nil
}

func loadHistory(path string) ([]models.ChatMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}
	var history []models.ChatMessage
	if err := json.Unmarshal(b, &history); err != nil {
		return nil, fmt.Errorf("failed to parse history %s: %w", path, err)
	}
	return history, nil
}

func (a *app) upload(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("upload", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	check := fs.Bool("check", false, "inspect the PDF before uploading")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() != 1 {
		return errUsage
	}
	path := fs.Arg(0)

	if *check {
		a.preflight(path)
	}

	file, err := api.OpenFile(path)
	if err != nil {
		return err
	}

	env, err := a.api.Upload.UploadKnowledge(ctx, file, api.UploadOptions{
		OnProgress: func(percent int) {
			fmt.Fprintf(a.stderr, "\ruploading %s %3d%%", file.Name, percent)
		},
	})
	fmt.Fprintln(a.stderr)
	if err != nil {
		return err
	}

	var result models.UploadResult
	if err := env.Decode(&result); err == nil && result.Filename != "" {
		fmt.Fprintf(a.stdout, "✓ uploaded %s\n", result.Filename)
	} else {
		fmt.Fprintf(a.stdout, "✓ uploaded %s\n", file.Name)
	}
	return nil
}

func (a *app) preflight(path string) {
	report, err := knowledge.Inspect(path)
	if errors.Is(err, knowledge.ErrNotPDF) {
		fmt.Fprintf(a.stderr, "⚠ %s is not a readable PDF; the backend may not index it\n", path)
		return
	}
	if err != nil {
		fmt.Fprintf(a.stderr, "⚠ inspect %s: %v\n", path, err)
		return
	}
	fmt.Fprintf(a.stderr, "%s: %d pages, %d characters of text\n", path, report.Pages, report.Chars)
	for _, w := range report.Warnings {
		fmt.Fprintf(a.stderr, "⚠ %s\n", w)
	}
}

func (a *app) prompt(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "get":
		prompt, err := a.api.SystemPrompt.Current(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, prompt)
		return nil

	case "set":
		text := strings.TrimSpace(strings.Join(args[1:], " "))
		if text == "" {
			return errUsage
		}
		if _, err := a.api.SystemPrompt.SavePrompt(ctx, text); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "✓ system prompt saved")
		return nil
	}
	return errUsage
}

func (a *app) token(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	switch args[0] {
	case "set":
		if len(args) != 2 {
			return errUsage
		}
		if err := a.store.SetToken(ctx, args[1]); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "✓ token stored")
		return nil

	case "clear":
		if err := a.store.Clear(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "✓ token cleared")
		return nil

	case "show":
		token, err := a.store.Token(ctx)
		if err != nil {
			return err
		}
		if token == "" {
			fmt.Fprintln(a.stdout, "no token stored")
			return nil
		}
		a.describeToken(token)
		return nil
	}
	return errUsage
}

func (a *app) describeToken(token string) {
	fmt.Fprintf(a.stdout, "token: %s\n", mask(token))

	claims, err := credential.Inspect(token)
	if err != nil {
		fmt.Fprintln(a.stdout, "format: opaque")
		return
	}
	fmt.Fprintln(a.stdout, "format: JWT")
	if claims.Subject != "" {
		fmt.Fprintf(a.stdout, "subject: %s\n", claims.Subject)
	}
	if claims.ExpiresAt != nil {
		state := "valid"
		if claims.Expired(time.Now()) {
			state = "expired"
		}
		fmt.Fprintf(a.stdout, "expires: %s (%s)\n", claims.ExpiresAt.Format(time.RFC3339), state)
	}
}

// mask keeps only the ends of a token visible.
func mask(token string) string {
	if len(token) <= 12 {
		return strings.Repeat("*", len(token))
	}
	return token[:6] + "…" + token[len(token)-4:]
}
