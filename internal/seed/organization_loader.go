package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// LoadOrganizations ingests an organization catalog CSV with the header
// name,code,location,phone,email. Rows whose code already exists are skipped.
// A missing file is not an error. The catalog loads in one transaction, and a
// failed insert rolls back the whole file.
func LoadOrganizations(ctx context.Context, db *sqlx.DB, csvPath string, log *zap.Logger) (int, error) {
	file, err := os.Open(csvPath)
	if errors.Is(err, os.ErrNotExist) {
		log.Info("organization catalog not found, skipping seed", zap.String("path", csvPath))
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("open organization catalog: %w", err)
	}
	defer file.Close()
	return loadOrganizations(ctx, db, file, log)
}

func loadOrganizations(ctx context.Context, db *sqlx.DB, r io.Reader, log *zap.Logger) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	// Skip header
	if _, err := reader.Read(); err != nil {
		return 0, fmt.Errorf("read organization header: %w", err)
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("start organization transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`INSERT INTO organization (name, code, location, phone, email, created_at, updated_at)
                VALUES (?, ?, ?, ?, ?, ?, ?) ON CONFLICT (code) DO NOTHING`))
	if err != nil {
		return 0, fmt.Errorf("prepare organization insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	rows := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Warn("unable to read organization row", zap.Error(err))
			continue
		}
		if len(record) < 2 {
			continue
		}
		name := strings.TrimSpace(record[0])
		code := strings.TrimSpace(record[1])
		if name == "" || code == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, name, code, field(record, 2), field(record, 3), field(record, 4), now, now)
		if err != nil {
			return 0, fmt.Errorf("insert organization %q: %w", code, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			rows++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit organization seed: %w", err)
	}
	log.Info("seeded organization catalog", zap.Int("rows", rows))
	return rows, nil
}

func field(record []string, i int) *string {
	if i >= len(record) {
		return nil
	}
	v := strings.TrimSpace(record[i])
	if v == "" {
		return nil
	}
	return &v
}
