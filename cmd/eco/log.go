package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/cli"
	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/config"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/service"
	"github.com/spf13/cobra"
)

// maxClarifications bounds the follow-up questions for one description.
const maxClarifications = 3

func logCmd() *cobra.Command {
	var (
		noPrompt bool
		file     string
	)

	cmd := &cobra.Command{
		Use:   `log "<description>"`,
		Short: "Log an activity described in plain language",
		Long: `Describe an activity in your own words and eco works out the category,
quantity and unit. Nothing is guessed: when the description leaves something
out, you are asked for it.

With --file, every non-blank line of the file (or of stdin for "-") is logged
as its own activity. Lines that cannot be logged without asking are reported
and skipped.

  eco log "drove 15 km to the office"
  eco log "had a vegan day"
  eco log --file week.txt`,
		Args: func(cmd *cobra.Command, args []string) error {
			if file != "" {
				return cobra.NoArgs(cmd, args)
			}
			return cobra.MinimumNArgs(1)(cmd, args)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			ws, err := openWorkspace(ctx, "", true)
			if err != nil {
				return err
			}
			defer ws.Close()

			extractor, err := newExtractor(ws.ledger.Factors())
			if err != nil {
				return err
			}

			if file != "" {
				return logBatch(cmd, ws, extractor, file)
			}

			interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
			ctx = interrupts.HandleInterrupts(ctx, "Nothing was logged.")

			var prompter *cli.Prompter
			if !noPrompt {
				prompter = cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
			}

			text := strings.TrimSpace(strings.Join(args, " "))
			rec, err := logDescription(ctx, ws, extractor, prompter, text)
			if err != nil {
				return err
			}
			return cli.RenderRecord(cmd.OutOrStdout(), rec)
		},
	}

	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "fail instead of asking for missing details")
	cmd.Flags().StringVar(&file, "file", "", `log one activity per line of a file ("-" for stdin)`)

	return cmd
}

// logDescription extracts one description and records it.
func logDescription(ctx context.Context, ws *workspace, extractor service.ActivityExtractor, prompter *cli.Prompter, text string) (model.ActivityRecord, error) {
	extraction, err := extractor.ExtractActivity(ctx, text)
	if err != nil {
		return model.ActivityRecord{}, common.NewUserError("Could not read that activity", err)
	}
	if extraction.Description == "" {
		extraction.Description = text
	}

	rec, err := logExtraction(ctx, ws, prompter, extraction)
	if err != nil {
		return model.ActivityRecord{}, explain(err)
	}
	return rec, nil
}

// logBatch logs every description in path through one extractor, so repeated
// lines are answered from its cache and requests share its rate limit.
func logBatch(cmd *cobra.Command, ws *workspace, extractor service.ActivityExtractor, path string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	descriptions, err := readDescriptions(ctx, cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	if len(descriptions) == 0 {
		_, err := fmt.Fprintln(out, cli.FormatInfo("No activities to log."))
		return err
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx = interrupts.HandleInterrupts(ctx, "Activities logged so far are saved.")

	progress := cli.NewPrompter(cmd.InOrStdin(), out)
	progress.StartImport(len(descriptions))

	var rejected []string
	for _, d := range descriptions {
		if ctx.Err() != nil {
			break
		}

		_, err := logDescription(ctx, ws, extractor, nil, d.text)
		if err != nil {
			rejected = append(rejected, fmt.Sprintf("line %d: %v", d.line, err))
			common.LogDebug("description rejected", common.Fields{"line": d.line, "error": err.Error()})
		}
		progress.RecordImport(err)
	}

	progress.FinishImport()

	for _, msg := range rejected {
		if _, err := fmt.Fprintln(out, cli.FormatWarning(msg)); err != nil {
			return err
		}
	}

	if interrupts.WasInterrupted() {
		return ctx.Err()
	}
	return nil
}

type description struct {
	text string
	line int
}

// readDescriptions returns the non-blank lines of path, skipping # comments.
func readDescriptions(ctx context.Context, stdin io.Reader, path string) ([]description, error) {
	r := stdin
	if path != "-" {
		full := config.ExpandPath(path)
		f, err := os.Open(full) // #nosec G304
		if err != nil {
			return nil, common.NewUserError(fmt.Sprintf("Cannot read %s", full), err)
		}
		defer func() { _ = f.Close() }()
		r = f
	}

	reader := cli.NewLineReader(r)
	var descriptions []description
	for line := 1; ; line++ {
		text, err := reader.ReadLine(ctx)
		if errors.Is(err, io.EOF) {
			return descriptions, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read descriptions: %w", err)
		}
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		descriptions = append(descriptions, description{text: text, line: line})
	}
}

// logExtraction validates an extraction through the ledger, asking the user
// for missing fields or a variant when a prompter is available.
func logExtraction(ctx context.Context, ws *workspace, prompter *cli.Prompter, extraction footprint.Extraction) (model.ActivityRecord, error) {
	for attempt := 0; ; attempt++ {
		entry, err := extraction.Entry()
		if err == nil {
			rec, recErr := ws.record(ctx, entry)
			if recErr == nil {
				return rec, nil
			}
			err = recErr
		}
		if prompter == nil || attempt >= maxClarifications {
			return model.ActivityRecord{}, err
		}

		var incomplete *footprint.IncompleteActivityError
		switch {
		case errors.As(err, &incomplete):
			extraction, err = prompter.Clarify(ctx, extraction, incomplete)
		case errors.Is(err, footprint.ErrUnknownFactor):
			variants := ws.ledger.Factors().Variants(entry.Category, entry.Unit)
			if len(variants) == 0 {
				return model.ActivityRecord{}, err
			}
			extraction.Variant, err = prompter.ChooseVariant(ctx, entry.Category, entry.Unit, variants)
		case errors.Is(err, footprint.ErrInvalidUnit):
			extraction, err = prompter.Clarify(ctx, extraction, &footprint.IncompleteActivityError{
				Text:    extraction.Description,
				Missing: []string{"unit"},
			})
		case errors.Is(err, footprint.ErrUnknownCategory):
			extraction, err = prompter.Clarify(ctx, extraction, &footprint.IncompleteActivityError{
				Text:    extraction.Description,
				Missing: []string{"category"},
			})
		default:
			return model.ActivityRecord{}, err
		}
		if err != nil {
			return model.ActivityRecord{}, fmt.Errorf("clarification failed: %w", err)
		}
	}
}
