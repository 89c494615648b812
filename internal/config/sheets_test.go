package config

import (
	"path/filepath"
	"testing"

	"github.com/Veraticus/eco-ledger/internal/sheets"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func clearSheetsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_SHEETS_SERVICE_ACCOUNT_PATH",
		"GOOGLE_SHEETS_CLIENT_ID",
		"GOOGLE_SHEETS_CLIENT_SECRET",
		"GOOGLE_SHEETS_REFRESH_TOKEN",
		"GOOGLE_SHEETS_SPREADSHEET_ID",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSheetsConfig_ViperWins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "from-env")

	viper.Set("sheets.service_account_path", "/keys/sa.json")
	viper.Set("sheets.spreadsheet_id", "from-viper")
	viper.Set("sheets.formatting", false)

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "/keys/sa.json", cfg.ServiceAccountPath)
	assert.Equal(t, "from-viper", cfg.SpreadsheetID)
	assert.False(t, cfg.EnableFormatting)
}

func TestLoadSheetsConfig_EnvFallback(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)
	t.Setenv("GOOGLE_SHEETS_CLIENT_ID", "id")
	t.Setenv("GOOGLE_SHEETS_CLIENT_SECRET", "secret")
	t.Setenv("GOOGLE_SHEETS_REFRESH_TOKEN", "refresh")

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.True(t, cfg.HasOAuth())
	assert.Equal(t, sheets.DefaultSpreadsheetName, cfg.SpreadsheetName)
}

func TestLoadSheetsConfig_SavedToken(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	tokenFile := filepath.Join(t.TempDir(), "token.json")
	require.NoError(t, sheets.SaveToken(tokenFile, &oauth2.Token{RefreshToken: "saved"}))

	viper.Set("sheets.client_id", "id")
	viper.Set("sheets.client_secret", "secret")
	viper.Set("sheets.token_file", tokenFile)

	cfg, err := LoadSheetsConfig()
	require.NoError(t, err)
	assert.Equal(t, "saved", cfg.RefreshToken)
}

func TestLoadSheetsConfig_NoAuth(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	clearSheetsEnv(t)

	_, err := LoadSheetsConfig()
	require.Error(t, err)
}
