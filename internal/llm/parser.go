package llm

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
)

// cleanMarkdownWrapper strips a ```json fence and any prose around the
// outermost JSON object.
func cleanMarkdownWrapper(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if nl := strings.IndexByte(content, '\n'); nl >= 0 {
			content = content[nl+1:]
		}
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	}

	start := strings.IndexByte(content, '{')
	end := strings.LastIndexByte(content, '}')
	if start >= 0 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}

// extractionReply is the JSON object the extraction prompt asks for.
// Any emission figure the model volunteers is not part of it and is dropped.
type extractionReply struct {
	Quantity     json.RawMessage `json:"quantity"`
	Unit         *string         `json:"unit"`
	Category     string          `json:"category"`
	Variant      string          `json:"variant"`
	Missing      []string        `json:"missing"`
	Insufficient bool            `json:"insufficient"`
}

// parseExtraction converts a model reply into an untrusted extraction.
// Shape errors are reported; semantic validation is left to the ledger.
func parseExtraction(content, text string) (footprint.Extraction, error) {
	var reply extractionReply
	if err := json.Unmarshal([]byte(cleanMarkdownWrapper(content)), &reply); err != nil {
		return footprint.Extraction{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	quantity, err := parseQuantity(reply.Quantity)
	if err != nil {
		return footprint.Extraction{}, err
	}

	extraction := footprint.Extraction{
		Quantity:     quantity,
		Category:     strings.TrimSpace(reply.Category),
		Variant:      strings.TrimSpace(reply.Variant),
		Description:  strings.TrimSpace(text),
		Missing:      reply.Missing,
		Insufficient: reply.Insufficient,
	}
	if reply.Unit != nil {
		extraction.Unit = strings.TrimSpace(*reply.Unit)
	}

	return extraction, nil
}

// parseQuantity accepts a JSON number, a numeric string, or null.
func parseQuantity(raw json.RawMessage) (*float64, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return &number, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return nil, fmt.Errorf("quantity is neither a number nor a string: %s", trimmed)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	number, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(number) || math.IsInf(number, 0) {
		return nil, fmt.Errorf("quantity %q is not a finite number", text)
	}
	return &number, nil
}

// parseTips parses `Suggestion|Impact|Category` lines. Malformed lines are
// skipped and unknown categories become other.
func parseTips(content string) []model.EcoTip {
	var tips []model.EcoTip

	for _, line := range strings.Split(content, "\n") {
		line = trimListMarker(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		parts := strings.Split(line, "|")
		if len(parts) != 3 {
			continue
		}

		title := strings.TrimSpace(parts[0])
		if title == "" || strings.EqualFold(title, "suggestion") {
			continue
		}

		impact, ok := parseTipImpact(parts[1])
		if !ok {
			continue
		}

		category, err := model.ParseCategory(parts[2])
		if err != nil {
			category = model.CategoryOther
		}

		tips = append(tips, model.EcoTip{
			Title:    title,
			Impact:   impact,
			Category: category,
		})
	}

	return tips
}

func parseTipImpact(s string) (model.TipImpact, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "high"):
		return model.TipImpactHigh, true
	case strings.HasPrefix(s, "med"), strings.HasPrefix(s, "moderate"):
		return model.TipImpactMedium, true
	case strings.HasPrefix(s, "low"):
		return model.TipImpactLow, true
	default:
		return "", false
	}
}

// trimListMarker drops a leading "-", "*" or "1." style marker.
func trimListMarker(line string) string {
	line = strings.TrimLeft(line, "-*• ")
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 {
		if _, err := strconv.Atoi(line[:i]); err == nil {
			line = strings.TrimSpace(line[i+1:])
		}
	}
	return line
}
