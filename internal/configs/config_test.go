package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"zillow-parser-service/internal/constants"
	"zillow-parser-service/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadSearchConfig_MissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadSearchConfig(filepath.Join(t.TempDir(), "absent.json"))
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.Interval)
	assert.Equal(t, constants.DefaultSearchOptions(), cfg.Options)
	assert.Equal(t, constants.CapeCodBounds, cfg.Bounds)
	assert.Equal(t, []domain.RegionSelection{constants.CapeCodRegion}, cfg.Regions)
}

func TestLoadSearchConfig_JSONOverridesOnlyGivenFields(t *testing.T) {
	path := writeFile(t, "config.json", `{
  "INTERVAL": 1.5,
  "price": {"min": 500000},
  "isRecentlySold": true,
  "IsForSaleByAgent": true
}`)

	cfg, err := LoadSearchConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.Interval)
	assert.Equal(t, 500000, cfg.Options.Price.Min)
	assert.Equal(t, constants.DefaultPriceMax, cfg.Options.Price.Max)
	assert.Equal(t, constants.DefaultMonthlyPaymentMin, cfg.Options.MonthlyPayment.Min)
	assert.True(t, cfg.Options.IsRecentlySold)
	assert.True(t, cfg.Options.IsForSaleByAgent)
	assert.False(t, cfg.Options.IsAuction)
}

func TestLoadSearchConfig_YAMLRegion(t *testing.T) {
	path := writeFile(t, "config.yaml", `
INTERVAL: 0
mapBounds:
  west: -71.2
  east: -70.9
  south: 42.2
  north: 42.4
regionSelection:
  - regionId: 44269
    regionType: 6
`)

	cfg, err := LoadSearchConfig(path)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), cfg.Interval)
	assert.Equal(t, domain.MapBounds{West: -71.2, East: -70.9, South: 42.2, North: 42.4}, cfg.Bounds)
	assert.Equal(t, []domain.RegionSelection{{RegionID: 44269, RegionType: 6}}, cfg.Regions)
}

func TestLoadSearchConfig_PartialMapBoundsKeepsDefaults(t *testing.T) {
	path := writeFile(t, "config.json", `{"mapBounds": {"west": -71.0}}`)

	cfg, err := LoadSearchConfig(path)
	require.NoError(t, err)

	want := constants.CapeCodBounds
	want.West = -71.0
	assert.Equal(t, want, cfg.Bounds)
}

func TestLoadSearchConfig_Errors(t *testing.T) {
	_, err := LoadSearchConfig(writeFile(t, "bad.yaml", "INTERVAL: [1, 2"))
	assert.Error(t, err)

	_, err = LoadSearchConfig(writeFile(t, "neg.yaml", "INTERVAL: -1"))
	assert.Error(t, err)
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("SEARCH_CONFIG_PATH", writeFile(t, "config.json", `{"INTERVAL": 2}`))
	t.Setenv("OUTPUT_PATH", "out/listings.csv")
	t.Setenv("OUTPUT_OVERWRITE", "Never")
	t.Setenv("SEARCH_TERM", "Boston, MA")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "zillow-parser-service", cfg.AppName)
	assert.Equal(t, constants.SearchPageStateURL, cfg.Zillow.SearchURL)
	assert.Equal(t, "Boston, MA", cfg.Zillow.SearchTerm)
	assert.Equal(t, "out/listings.csv", cfg.Output.Path)
	assert.Equal(t, OverwriteNever, cfg.Output.OverwriteMode)
	assert.Equal(t, 2*time.Second, cfg.Search.Interval)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoadConfig_Validation(t *testing.T) {
	t.Setenv("SEARCH_CONFIG_PATH", "")

	t.Run("bad overwrite mode", func(t *testing.T) {
		t.Setenv("OUTPUT_OVERWRITE", "sometimes")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("postgres without url", func(t *testing.T) {
		t.Setenv("POSTGRES_ENABLED", "true")
		t.Setenv("DATABASE_URL", "")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})

	t.Run("rabbitmq without url", func(t *testing.T) {
		t.Setenv("RABBITMQ_ENABLED", "true")
		t.Setenv("RABBITMQ_URL", "")
		_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.env"))
		assert.Error(t, err)
	})
}
