package configs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"zillow-parser-service/internal/constants"
	"zillow-parser-service/internal/core/domain"

	"gopkg.in/yaml.v2"
)

// SearchConfig - интервал между страницами и фильтры поиска
type SearchConfig struct {
	Interval time.Duration
	Options  domain.SearchOptions
	Bounds   domain.MapBounds
	Regions  []domain.RegionSelection
}

// searchFile - структура файла настроек. Указатели нужны, чтобы отличить
// отсутствующее поле от нулевого значения.
type searchFile struct {
	Interval *float64 `yaml:"INTERVAL"`

	Price *struct {
		Min *int `yaml:"min"`
		Max *int `yaml:"max"`
	} `yaml:"price"`
	MonthlyPayment *struct {
		Min *int `yaml:"min"`
	} `yaml:"monthlyPayment"`

	IsForSaleByAgent     *bool `yaml:"isForSaleByAgent"`
	IsForSaleByOwner     *bool `yaml:"isForSaleByOwner"`
	IsNewConstruction    *bool `yaml:"isNewConstruction"`
	IsForSaleForeclosure *bool `yaml:"isForSaleForeclosure"`
	IsComingSoon         *bool `yaml:"isComingSoon"`
	IsAuction            *bool `yaml:"isAuction"`
	IsRecentlySold       *bool `yaml:"isRecentlySold"`
	IsAllHomes           *bool `yaml:"isAllHomes"`

	// старые конфиги писали этот ключ с заглавной буквы
	LegacyIsForSaleByAgent *bool `yaml:"IsForSaleByAgent"`

	// каждая граница необязательна, пропущенные берутся по умолчанию
	MapBounds *struct {
		West  *float64 `yaml:"west"`
		East  *float64 `yaml:"east"`
		South *float64 `yaml:"south"`
		North *float64 `yaml:"north"`
	} `yaml:"mapBounds"`
	RegionSelection []domain.RegionSelection `yaml:"regionSelection"`
}

// DefaultSearchConfig возвращает настройки поиска, которые действуют без файла
func DefaultSearchConfig() *SearchConfig {
	return &SearchConfig{
		Interval: constants.DefaultIntervalSeconds * time.Second,
		Options:  constants.DefaultSearchOptions(),
		Bounds:   constants.CapeCodBounds,
		Regions:  []domain.RegionSelection{constants.CapeCodRegion},
	}
}

// LoadSearchConfig читает файл настроек поиска (YAML или JSON).
// Если файла нет, возвращаются значения по умолчанию; отсутствующие поля тоже берутся из умолчаний.
func LoadSearchConfig(path string) (*SearchConfig, error) {
	cfg := DefaultSearchConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read search config %s: %w", path, err)
	}

	var file searchFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse search config %s: %w", path, err)
	}

	if file.Interval != nil {
		if *file.Interval < 0 {
			return nil, fmt.Errorf("search config %s: INTERVAL cannot be negative: %v", path, *file.Interval)
		}
		cfg.Interval = time.Duration(*file.Interval * float64(time.Second))
	}

	opts := &cfg.Options
	if file.Price != nil {
		setInt(&opts.Price.Min, file.Price.Min)
		setInt(&opts.Price.Max, file.Price.Max)
	}
	if file.MonthlyPayment != nil {
		setInt(&opts.MonthlyPayment.Min, file.MonthlyPayment.Min)
	}

	setBool(&opts.IsForSaleByAgent, file.LegacyIsForSaleByAgent)
	setBool(&opts.IsForSaleByAgent, file.IsForSaleByAgent)
	setBool(&opts.IsForSaleByOwner, file.IsForSaleByOwner)
	setBool(&opts.IsNewConstruction, file.IsNewConstruction)
	setBool(&opts.IsForSaleForeclosure, file.IsForSaleForeclosure)
	setBool(&opts.IsComingSoon, file.IsComingSoon)
	setBool(&opts.IsAuction, file.IsAuction)
	setBool(&opts.IsRecentlySold, file.IsRecentlySold)
	setBool(&opts.IsAllHomes, file.IsAllHomes)

	if file.MapBounds != nil {
		setFloat(&cfg.Bounds.West, file.MapBounds.West)
		setFloat(&cfg.Bounds.East, file.MapBounds.East)
		setFloat(&cfg.Bounds.South, file.MapBounds.South)
		setFloat(&cfg.Bounds.North, file.MapBounds.North)
	}
	if len(file.RegionSelection) > 0 {
		cfg.Regions = file.RegionSelection
	}

	return cfg, nil
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}
