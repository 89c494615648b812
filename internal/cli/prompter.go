package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/service"
	"github.com/schollz/progressbar/v3"
)

// ErrInputTerminated is returned when input ends before a prompt is answered.
var ErrInputTerminated = errors.New("input terminated")

// Prompter asks the user for the details an extraction left out and reports
// progress for bulk imports.
type Prompter struct {
	startTime   time.Time
	writer      io.Writer
	reader      *LineReader
	progressBar *progressbar.ProgressBar
	stats       service.ImportStats
	statsMutex  sync.RWMutex
}

// NewPrompter creates a new prompter with the given reader and writer.
func NewPrompter(reader io.Reader, writer io.Writer) *Prompter {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	return &Prompter{
		reader:    NewLineReader(reader),
		writer:    writer,
		startTime: time.Now(),
	}
}

// Clarify asks for every field the extraction is missing and returns a
// completed copy. When the extraction carried no usable field list, all
// three core fields are asked for. Invalid answers are re-asked.
func (p *Prompter) Clarify(ctx context.Context, ext footprint.Extraction, incomplete *footprint.IncompleteActivityError) (footprint.Extraction, error) {
	needAll := incomplete == nil || len(incomplete.Missing) == 0
	needs := func(field string) bool {
		return needAll || incomplete.Needs(field)
	}

	content := fmt.Sprintf("%s I couldn't log that yet.\n", RobotIcon)
	if ext.Description != "" {
		content += fmt.Sprintf("  Activity: %s\n", ext.Description)
	}
	if !needAll {
		content += fmt.Sprintf("  Missing: %s", strings.Join(incomplete.Missing, ", "))
	} else {
		content += "  Please describe it step by step."
	}
	if _, err := fmt.Fprintln(p.writer, RenderBox("Need a little more detail", content)); err != nil {
		return footprint.Extraction{}, fmt.Errorf("failed to write clarification box: %w", err)
	}

	out := ext
	out.Insufficient = false
	out.Missing = nil

	category, err := model.ParseCategory(ext.Category)
	if needs("category") || err != nil {
		category, err = p.promptCategory(ctx)
		if err != nil {
			return footprint.Extraction{}, err
		}
	}
	out.Category = string(category)

	if needs("quantity") || ext.Quantity == nil {
		quantity, err := p.promptQuantity(ctx)
		if err != nil {
			return footprint.Extraction{}, err
		}
		out.Quantity = &quantity
	}

	unit, err := model.ParseUnit(ext.Unit)
	if needs("unit") || err != nil || !category.Accepts(unit) {
		unit, err = p.promptUnit(ctx, category)
		if err != nil {
			return footprint.Extraction{}, err
		}
	}
	out.Unit = string(unit)

	return out, nil
}

// ChooseVariant lets the user pick one of the configured variants.
func (p *Prompter) ChooseVariant(ctx context.Context, category model.Category, unit model.Unit, variants []string) (string, error) {
	if len(variants) == 0 {
		return "", fmt.Errorf("no variants configured for %s/%s", category, unit)
	}

	if _, err := fmt.Fprintln(p.writer, FormatPrompt(fmt.Sprintf("Which kind of %s?", category))); err != nil {
		return "", fmt.Errorf("failed to write variant header: %w", err)
	}

	choices := make([]string, 0, len(variants))
	for i, v := range variants {
		key := strconv.Itoa(i + 1)
		choices = append(choices, key)
		if _, err := fmt.Fprintf(p.writer, "  [%s] %s\n", key, v); err != nil {
			return "", fmt.Errorf("failed to write variant option: %w", err)
		}
	}

	choice, err := p.promptChoice(ctx, "Choice", choices)
	if err != nil {
		return "", err
	}
	idx, _ := strconv.Atoi(choice)
	return variants[idx-1], nil
}

func (p *Prompter) promptCategory(ctx context.Context) (model.Category, error) {
	if _, err := fmt.Fprintln(p.writer, FormatPrompt("Category options:")); err != nil {
		return "", fmt.Errorf("failed to write category options: %w", err)
	}

	choices := make([]string, 0, 2*len(model.Categories))
	for i, c := range model.Categories {
		key := strconv.Itoa(i + 1)
		choices = append(choices, key, string(c))
		if _, err := fmt.Fprintf(p.writer, "  [%s] %s\n", key, c.Title()); err != nil {
			return "", fmt.Errorf("failed to write category option: %w", err)
		}
	}

	choice, err := p.promptChoice(ctx, "Category", choices)
	if err != nil {
		return "", err
	}
	if idx, convErr := strconv.Atoi(choice); convErr == nil {
		return model.Categories[idx-1], nil
	}
	return model.Category(choice), nil
}

func (p *Prompter) promptQuantity(ctx context.Context) (float64, error) {
	for {
		input, err := p.ask(ctx, "How much")
		if err != nil {
			return 0, err
		}

		quantity, err := strconv.ParseFloat(input, 64)
		if err != nil || math.IsNaN(quantity) || math.IsInf(quantity, 0) || quantity < 0 {
			p.complain("Please enter a non-negative number.")
			continue
		}
		return quantity, nil
	}
}

func (p *Prompter) promptUnit(ctx context.Context, category model.Category) (model.Unit, error) {
	units := category.Units()
	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, string(u))
	}
	prompt := fmt.Sprintf("Unit (%s)", strings.Join(names, ", "))

	for {
		input, err := p.ask(ctx, prompt)
		if err != nil {
			return "", err
		}

		unit, err := model.ParseUnit(input)
		if err != nil || !category.Accepts(unit) {
			p.complain(fmt.Sprintf("%s is measured in %s.", category.Title(), strings.Join(names, " or ")))
			continue
		}
		return unit, nil
	}
}

func (p *Prompter) promptChoice(ctx context.Context, prompt string, validChoices []string) (string, error) {
	for {
		input, err := p.ask(ctx, prompt)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		for _, valid := range validChoices {
			if choice == valid {
				return choice, nil
			}
		}

		p.complain("Invalid choice. Please try again.")
	}
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}

	input, err := p.reader.ReadLine(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return "", ErrInputTerminated
		}
		return "", err
	}
	return input, nil
}

func (p *Prompter) complain(message string) {
	if _, err := fmt.Fprintln(p.writer, FormatError(message)); err != nil {
		slog.Warn("Failed to write error message", "error", err)
	}
}

// StartImport resets the import statistics and shows a progress bar for total rows.
func (p *Prompter) StartImport(total int) {
	p.statsMutex.Lock()
	p.stats = service.ImportStats{Total: total}
	p.startTime = time.Now()
	p.statsMutex.Unlock()

	p.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[green][bold]Importing activities...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// RecordImport counts one imported row; a non-nil err marks it rejected.
func (p *Prompter) RecordImport(err error) {
	p.statsMutex.Lock()
	if err != nil {
		p.stats.Rejected++
	} else {
		p.stats.Added++
	}
	p.statsMutex.Unlock()

	if p.progressBar != nil {
		if barErr := p.progressBar.Add(1); barErr != nil {
			slog.Warn("Failed to update progress bar", "error", barErr)
		}
	}
}

// ImportStats returns the statistics of the current import.
func (p *Prompter) ImportStats() service.ImportStats {
	p.statsMutex.RLock()
	defer p.statsMutex.RUnlock()

	stats := p.stats
	stats.Duration = time.Since(p.startTime)
	return stats
}

// FinishImport closes the progress bar and shows the import summary.
func (p *Prompter) FinishImport() {
	if p.progressBar != nil {
		if err := p.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	stats := p.ImportStats()
	summary := fmt.Sprintf("%s Import Summary:\n", ChartIcon) +
		fmt.Sprintf("  • Rows read: %d\n", stats.Total) +
		fmt.Sprintf("  • Added: %d\n", stats.Added) +
		fmt.Sprintf("  • Rejected: %d\n", stats.Rejected) +
		fmt.Sprintf("  • Time taken: %s", stats.Duration.Round(time.Millisecond))

	if _, err := fmt.Fprintln(p.writer, RenderBox("Import Complete", summary)); err != nil {
		slog.Warn("Failed to write import summary", "error", err)
	}
}
