package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

//go:embed factors.yaml
var defaultProfileYAML []byte

// DefaultPeriod is the tier profile used when none is configured.
const DefaultPeriod = "daily"

var validate = validator.New()

// FactorSpec is one emission factor as written in a profile file.
type FactorSpec struct {
	KgPerUnit *float64 `yaml:"kg_per_unit" validate:"required,gte=0"`
	Category  string   `yaml:"category" validate:"required"`
	Unit      string   `yaml:"unit" validate:"required"`
	Variant   string   `yaml:"variant,omitempty"`
}

// TierSpec holds the lower bounds of the moderate and high tiers.
type TierSpec struct {
	Moderate float64 `yaml:"moderate" validate:"gt=0"`
	High     float64 `yaml:"high" validate:"gtefield=Moderate"`
}

// Profile is the externally configured source of truth for emission factors
// and tier thresholds.
type Profile struct {
	Tiers   map[string]TierSpec `yaml:"tiers" validate:"required,min=1,dive"`
	Factors []FactorSpec        `yaml:"factors" validate:"required,min=1,dive"`
}

// DefaultProfile returns the factors and tiers shipped with the binary.
func DefaultProfile() (*Profile, error) {
	return ParseProfile(bytes.NewReader(defaultProfileYAML))
}

// LoadProfile reads a profile file. An empty path selects the shipped defaults.
func LoadProfile(path string) (*Profile, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultProfile()
	}

	f, err := os.Open(ExpandPath(path)) // #nosec G304
	if err != nil {
		return nil, fmt.Errorf("failed to open factor profile: %w", err)
	}
	defer func() { _ = f.Close() }()

	profile, err := ParseProfile(f)
	if err != nil {
		return nil, fmt.Errorf("factor profile %s: %w", path, err)
	}
	return profile, nil
}

// ParseProfile decodes and validates a YAML profile. Unknown keys are rejected.
func ParseProfile(r io.Reader) (*Profile, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var p Profile
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty factor profile", common.ErrInvalidConfig)
		}
		return nil, fmt.Errorf("%w: failed to parse factor profile: %w", common.ErrInvalidConfig, err)
	}

	if err := validate.Struct(&p); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrInvalidConfig, formatValidationError(err))
	}

	// Periods are looked up case-insensitively
	tiers := make(map[string]TierSpec, len(p.Tiers))
	for name, ts := range p.Tiers {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, dup := tiers[key]; dup {
			return nil, fmt.Errorf("%w: tier period %q is defined twice", common.ErrInvalidConfig, key)
		}
		tiers[key] = ts
	}
	p.Tiers = tiers

	return &p, nil
}

// FactorTable converts the profile's factors into a validated table.
func (p *Profile) FactorTable() (*footprint.FactorTable, error) {
	factors := make([]footprint.Factor, 0, len(p.Factors))
	for i, fs := range p.Factors {
		category, err := model.ParseCategory(fs.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: factor %d: %w", common.ErrInvalidConfig, i, err)
		}
		unit, err := model.ParseUnit(fs.Unit)
		if err != nil {
			return nil, fmt.Errorf("%w: factor %d: %w", common.ErrInvalidConfig, i, err)
		}
		factors = append(factors, footprint.Factor{
			Key:       footprint.FactorKey{Category: category, Unit: unit, Variant: fs.Variant},
			KgPerUnit: *fs.KgPerUnit,
		})
	}

	table, err := footprint.NewFactorTable(factors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return table, nil
}

// Thresholds returns the tier bands for a reporting period.
func (p *Profile) Thresholds(period string) (footprint.Thresholds, error) {
	if period == "" {
		period = DefaultPeriod
	}
	ts, ok := p.Tiers[strings.ToLower(period)]
	if !ok {
		return footprint.Thresholds{}, fmt.Errorf("%w: no tier profile for period %q (have %s)",
			common.ErrInvalidConfig, period, strings.Join(p.Periods(), ", "))
	}

	th := footprint.Thresholds{Moderate: ts.Moderate, High: ts.High}
	if err := th.Validate(); err != nil {
		return footprint.Thresholds{}, fmt.Errorf("%w: period %s: %w", common.ErrInvalidConfig, period, err)
	}
	return th, nil
}

// Periods lists the configured tier periods in sorted order.
func (p *Profile) Periods() []string {
	periods := make([]string, 0, len(p.Tiers))
	for k := range p.Tiers {
		periods = append(periods, k)
	}
	sort.Strings(periods)
	return periods
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err.Error()
	}

	msgs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Namespace()
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must have at least %s entries", field, e.Param()))
		case "gte", "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be %s %s", field, map[string]string{"gte": ">=", "gt": ">"}[e.Tag()], e.Param()))
		case "gtefield":
			msgs = append(msgs, fmt.Sprintf("%s must not be below %s", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}
