package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"zillow-parser-service/internal/contextkeys"
	"zillow-parser-service/internal/core/domain"
	"zillow-parser-service/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// dbExecutor - часть *pgxpool.Pool, которая нужна репозиторию
type dbExecutor interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const createListingsTableSQL = `
CREATE TABLE IF NOT EXISTS zillow_listings (
    zpid            TEXT PRIMARY KEY,
    status_type     TEXT,
    price           BIGINT,
    address_street  TEXT,
    address_city    TEXT,
    address_state   TEXT,
    address_zipcode TEXT,
    beds            DOUBLE PRECISION,
    baths           DOUBLE PRECISION,
    living_area     DOUBLE PRECISION,
    lot_area_value  DOUBLE PRECISION,
    lot_area_unit   TEXT,
    latitude        DOUBLE PRECISION,
    longitude       DOUBLE PRECISION,
    geohash         TEXT,
    raw             JSONB NOT NULL,
    first_seen_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS zillow_listings_geohash_idx ON zillow_listings (geohash);`

const upsertListingSQL = `
INSERT INTO zillow_listings (
    zpid, status_type, price, address_street, address_city, address_state, address_zipcode,
    beds, baths, living_area, lot_area_value, lot_area_unit, latitude, longitude, geohash, raw
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
ON CONFLICT (zpid) DO UPDATE SET
    status_type     = EXCLUDED.status_type,
    price           = EXCLUDED.price,
    address_street  = EXCLUDED.address_street,
    address_city    = EXCLUDED.address_city,
    address_state   = EXCLUDED.address_state,
    address_zipcode = EXCLUDED.address_zipcode,
    beds            = EXCLUDED.beds,
    baths           = EXCLUDED.baths,
    living_area     = EXCLUDED.living_area,
    lot_area_value  = EXCLUDED.lot_area_value,
    lot_area_unit   = EXCLUDED.lot_area_unit,
    latitude        = EXCLUDED.latitude,
    longitude       = EXCLUDED.longitude,
    geohash         = EXCLUDED.geohash,
    raw             = EXCLUDED.raw,
    updated_at      = now()`

// PostgresListingRepository сохраняет записи поиска в таблицу zillow_listings (upsert по zpid)
type PostgresListingRepository struct {
	db dbExecutor
}

// NewPostgresListingRepository создает новый экземпляр PostgresListingRepository
func NewPostgresListingRepository(db dbExecutor) (*PostgresListingRepository, error) {
	if db == nil {
		return nil, fmt.Errorf("postgres listing repository: db cannot be nil")
	}
	return &PostgresListingRepository{db: db}, nil
}

// EnsureSchema создает таблицу и индекс, если их нет
func (r *PostgresListingRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createListingsTableSQL); err != nil {
		return fmt.Errorf("postgres listing repository: failed to create schema: %w", err)
	}
	return nil
}

// Save отправляет upsert всех записей страницы одним батчем
func (r *PostgresListingRepository) Save(ctx context.Context, listings []domain.ListingRecord) error {
	repoLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PostgresListingRepository",
		"method":    "Save",
	})

	batch := &pgx.Batch{}
	skipped := 0
	for _, listing := range listings {
		args, err := upsertArgs(listing)
		if err != nil {
			skipped++
			repoLogger.Warn("Skipping listing", port.Fields{"reason": err.Error()})
			continue
		}
		batch.Queue(upsertListingSQL, args...)
	}

	if batch.Len() == 0 {
		return nil
	}

	results := r.db.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			return fmt.Errorf("postgres listing repository: upsert %d of %d failed: %w", i+1, batch.Len(), err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("postgres listing repository: failed to close batch: %w", err)
	}

	repoLogger.Debug("Listings upserted", port.Fields{"count": batch.Len(), "skipped": skipped})
	return nil
}

// upsertArgs раскладывает запись по колонкам upsertListingSQL
func upsertArgs(listing domain.ListingRecord) ([]any, error) {
	zpid := stringValue(listing["zpid"])
	if zpid == nil {
		return nil, fmt.Errorf("listing has no zpid")
	}

	raw, err := json.Marshal(listing)
	if err != nil {
		return nil, fmt.Errorf("listing %s cannot be encoded: %w", *zpid, err)
	}

	var status, city, state *string
	if s := stringValue(listing["statusType"]); s != nil {
		v := normalizeCode(*s)
		status = &v
	}
	if s := stringValue(listing["addressCity"]); s != nil {
		v := normalizeCity(*s)
		city = &v
	}
	if s := stringValue(listing["addressState"]); s != nil {
		v := normalizeCode(*s)
		state = &v
	}

	lat, lon := coordinates(listing["latLong"])

	return []any{
		*zpid,
		status,
		intValue(listing["unformattedPrice"]),
		stringValue(listing["addressStreet"]),
		city,
		state,
		stringValue(listing["addressZipcode"]),
		floatValue(listing["beds"]),
		floatValue(listing["baths"]),
		floatValue(listing[domain.FieldLivingArea]),
		floatValue(listing[domain.FieldLotAreaValue]),
		stringValue(listing[domain.FieldLotAreaUnit]),
		lat,
		lon,
		geohashFor(lat, lon),
		raw,
	}, nil
}
