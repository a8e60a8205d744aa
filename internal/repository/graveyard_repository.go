package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/Vitek192/sola-sub000/internal/domain/models"
	"github.com/Vitek192/sola-sub000/internal/domain/repository"
)

// GraveyardSchema creates the removed-token archive table.
var GraveyardSchema = []string{
	`CREATE TABLE IF NOT EXISTS token_graveyard (
		deleted_at      DateTime,
		address         String,
		symbol          String,
		name            String,
		created_at      DateTime,
		deletion_reason String,
		last_price      Float64,
		last_liquidity  Float64,
		last_mcap       Float64,
		is_owned        UInt8,
		snapshot        String
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(deleted_at)
	ORDER BY (deleted_at, address)
	TTL deleted_at + INTERVAL 90 DAY`,
}

// ClickHouseGraveyard implements GraveyardStore for ClickHouse.
type ClickHouseGraveyard struct {
	db    *sql.DB
	table string
}

// NewClickHouseGraveyard creates the ClickHouse-backed archive.
func NewClickHouseGraveyard(db *sql.DB, table string) repository.GraveyardStore {
	if table == "" {
		table = "token_graveyard"
	}
	return &ClickHouseGraveyard{db: db, table: table}
}

func (s *ClickHouseGraveyard) Init(ctx context.Context) error {
	for _, stmt := range GraveyardSchema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("graveyard schema: %w", err)
		}
	}
	return nil
}

func (s *ClickHouseGraveyard) Archive(ctx context.Context, dead []models.DeletedToken) error {
	if len(dead) == 0 {
		return nil
	}

	values := make([]string, 0, len(dead))
	args := make([]interface{}, 0, len(dead)*11)
	for i := range dead {
		d := &dead[i]
		if d.Address == "" {
			continue
		}
		snapshot, err := json.Marshal(d.Token)
		if err != nil {
			return fmt.Errorf("marshal token %s: %w", d.Address, err)
		}
		latest := d.Latest()
		owned := uint8(0)
		if d.IsOwned {
			owned = 1
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			d.DeletedAt,
			d.Address,
			d.Symbol,
			d.Name,
			d.CreatedAt,
			d.DeletionReason,
			latest.Price,
			latest.Liquidity,
			latest.MarketCap,
			owned,
			string(snapshot),
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (deleted_at, address, symbol, name, created_at, deletion_reason, last_price, last_liquidity, last_mcap, is_owned, snapshot) VALUES %s",
		s.table, strings.Join(values, ","))
	_, err := s.db.ExecContext(ctx, q, args...)
	return err
}

func (s *ClickHouseGraveyard) Recent(ctx context.Context, limit int) ([]models.DeletedToken, error) {
	if limit <= 0 {
		limit = 100
	}
	q := fmt.Sprintf("SELECT deleted_at, deletion_reason, snapshot FROM %s ORDER BY deleted_at DESC LIMIT ?", s.table)
	rows, err := s.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.DeletedToken
	for rows.Next() {
		var (
			deletedAt time.Time
			reason    string
			snapshot  string
		)
		if err := rows.Scan(&deletedAt, &reason, &snapshot); err != nil {
			return nil, err
		}
		var tok models.Token
		if err := json.Unmarshal([]byte(snapshot), &tok); err != nil {
			// old rows with unreadable snapshots are skipped, not fatal
			continue
		}
		out = append(out, models.DeletedToken{
			Token:          tok,
			DeletedAt:      deletedAt,
			DeletionReason: reason,
		})
	}
	return out, rows.Err()
}

func (s *ClickHouseGraveyard) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseGraveyard) Close() error {
	return nil // connection owned by pkg client
}
