package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cierre.yaml")
	want := Default("Acme SA")
	want.Empresa.CUIT = "30-12345678-9"
	want.Cierre.MinLotAmount = "100"
	require.NoError(t, Save(path, want))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cierre.yaml")
	doc := "empresa:\n  name: Acme SA\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Acme SA", got.Empresa.Name)
	// Unset tolerance still resolves to the default.
	assert.True(t, got.Cierre.Tolerance().Equal(decimal.RequireFromString("0.011")))
	assert.True(t, got.Cierre.MinLot().IsZero())
}

func TestTolerance(t *testing.T) {
	assert.True(t, CierreConfig{PlugTolerance: "0.05"}.Tolerance().Equal(decimal.RequireFromString("0.05")))
	assert.True(t, CierreConfig{PlugTolerance: "-1"}.Tolerance().Equal(decimal.RequireFromString("0.011")))
	assert.True(t, CierreConfig{PlugTolerance: "mucho"}.Tolerance().Equal(decimal.RequireFromString("0.011")))
}

func TestMinLot(t *testing.T) {
	assert.True(t, CierreConfig{MinLotAmount: "250.50"}.MinLot().Equal(decimal.RequireFromString("250.50")))
	assert.True(t, CierreConfig{MinLotAmount: "-5"}.MinLot().IsZero())
	assert.True(t, CierreConfig{}.MinLot().IsZero())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.Error(t, err)
}
