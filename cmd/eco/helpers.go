package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/eco-ledger/internal/common"
	"github.com/Veraticus/eco-ledger/internal/config"
	"github.com/Veraticus/eco-ledger/internal/footprint"
	"github.com/Veraticus/eco-ledger/internal/model"
	"github.com/Veraticus/eco-ledger/internal/service"
	"github.com/Veraticus/eco-ledger/internal/storage"
	"github.com/spf13/viper"
)

const defaultSessionName = "default"

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := config.ResolvePath(viper.GetString("database.path"), config.DefaultDatabasePath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// sessionName returns the configured session, falling back to the default one.
func sessionName() string {
	name := strings.TrimSpace(viper.GetString("session.name"))
	if name == "" {
		return defaultSessionName
	}
	return name
}

// loadProfile reads the configured factor profile or the shipped defaults.
func loadProfile() (*config.Profile, error) {
	profile, err := config.LoadProfile(viper.GetString("footprint.factors_file"))
	if err != nil {
		return nil, common.NewUserError("Could not load the emission factor profile", err)
	}
	return profile, nil
}

// resolvePeriod picks the tier period from the flag value, the config or the default.
func resolvePeriod(flagValue string) string {
	if p := strings.TrimSpace(flagValue); p != "" {
		return strings.ToLower(p)
	}
	if p := strings.TrimSpace(viper.GetString("footprint.period")); p != "" {
		return strings.ToLower(p)
	}
	return config.DefaultPeriod
}

// resolveThresholds returns the profile's bands for period, with any
// tiers.<period>.moderate/high config values taking precedence.
func resolveThresholds(profile *config.Profile, period string) (footprint.Thresholds, error) {
	th, err := profile.Thresholds(period)
	if err != nil {
		if !viper.IsSet("tiers." + period + ".moderate") {
			return footprint.Thresholds{}, err
		}
		th = footprint.Thresholds{}
	}

	if key := "tiers." + period + ".moderate"; viper.IsSet(key) {
		th.Moderate = viper.GetFloat64(key)
	}
	if key := "tiers." + period + ".high"; viper.IsSet(key) {
		th.High = viper.GetFloat64(key)
	}

	if err := th.Validate(); err != nil {
		return footprint.Thresholds{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return th, nil
}

// workspace is an open session: its journal, its replayed ledger and the
// profile the ledger was priced with.
type workspace struct {
	store   service.Storage
	session *model.Session
	ledger  *footprint.Ledger
	profile *config.Profile
	period  string
}

// openWorkspace opens the configured session and replays its journal into a
// fresh ledger. With create set, a missing session is started on the fly.
func openWorkspace(ctx context.Context, period string, create bool) (*workspace, error) {
	profile, err := loadProfile()
	if err != nil {
		return nil, err
	}
	factors, err := profile.FactorTable()
	if err != nil {
		return nil, common.NewUserError("The emission factor table is invalid", err)
	}
	period = resolvePeriod(period)
	thresholds, err := resolveThresholds(profile, period)
	if err != nil {
		return nil, common.NewUserError("The impact tier thresholds are invalid", err)
	}

	store, err := initStorage(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	ws, err := loadSession(ctx, store, sessionName(), create)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	ws.profile = profile
	ws.period = period

	ws.ledger, err = footprint.NewLedger(factors, thresholds)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	records, err := store.ListActivities(ctx, ws.session.ID)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}
	if err := ws.ledger.Replay(records); err != nil {
		_ = store.Close()
		return nil, common.NewUserError(
			fmt.Sprintf("Session %q has activities the current factor table cannot price", ws.session.Name), err)
	}

	slog.Debug("session loaded", "session", ws.session.Name, "activities", ws.ledger.Len(), "period", period)
	return ws, nil
}

func loadSession(ctx context.Context, store service.Storage, name string, create bool) (*workspace, error) {
	session, err := store.GetSession(ctx, name)
	if errors.Is(err, storage.ErrSessionMissing) && create {
		session, err = store.CreateSession(ctx, name)
		if err == nil {
			common.LogInfo("session started", common.Fields{"session": name})
		}
	}
	if errors.Is(err, storage.ErrSessionMissing) {
		return nil, common.NewUserError(fmt.Sprintf("No session named %q. Start one with: eco session start %s", name, name), err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open session %q: %w", name, err)
	}
	return &workspace{store: store, session: session}, nil
}

// record prices entry and journals it. A journal failure rolls the in-memory
// ledger back to its persisted state.
func (w *workspace) record(ctx context.Context, entry model.ActivityEntry) (model.ActivityRecord, error) {
	rec, err := w.ledger.AddActivity(entry)
	if err != nil {
		return model.ActivityRecord{}, err
	}
	if err := w.store.AppendActivity(ctx, w.session.ID, rec); err != nil {
		w.rollback(rec)
		return model.ActivityRecord{}, fmt.Errorf("failed to save activity: %w", err)
	}
	return rec, nil
}

func (w *workspace) rollback(rec model.ActivityRecord) {
	records := w.ledger.Records()
	kept := records[:0]
	for _, r := range records {
		if r.ID != rec.ID {
			kept = append(kept, r)
		}
	}
	w.ledger.Reset()
	if err := w.ledger.Replay(kept); err != nil {
		common.LogError(err, "failed to restore ledger", common.Fields{"session": w.session.Name})
	}
}

func (w *workspace) Close() {
	if err := w.store.Close(); err != nil {
		slog.Warn("failed to close storage", "error", err)
	}
}

// explain turns ledger validation errors into user facing messages.
func explain(err error) error {
	var incomplete *footprint.IncompleteActivityError
	switch {
	case errors.As(err, &incomplete):
		return common.NewUserError("Not enough detail to log that activity", err)
	case errors.Is(err, footprint.ErrInvalidUnit):
		return common.NewUserError("That unit doesn't fit the category", err)
	case errors.Is(err, footprint.ErrUnknownFactor):
		return common.NewUserError("No emission factor is configured for that activity", err)
	case errors.Is(err, footprint.ErrInvalidQuantity):
		return common.NewUserError("Quantities must be finite, non-negative numbers", err)
	case errors.Is(err, footprint.ErrUnknownCategory):
		return common.NewUserError("Unknown category", err)
	default:
		return err
	}
}
