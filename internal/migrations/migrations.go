package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

// Column types differ between sqlite and postgres; the schema below is
// written with placeholders that Statements fills in per dialect.
var dialects = map[string]*strings.Replacer{
	"sqlite": strings.NewReplacer(
		"{{pk}}", "INTEGER PRIMARY KEY AUTOINCREMENT",
		"{{ts}}", "DATETIME",
		"{{real}}", "REAL",
		"{{fk}}", "INTEGER",
	),
	"postgres": strings.NewReplacer(
		"{{pk}}", "BIGSERIAL PRIMARY KEY",
		"{{ts}}", "TIMESTAMPTZ",
		"{{real}}", "DOUBLE PRECISION",
		"{{fk}}", "BIGINT",
	),
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS organization (
            id {{pk}},
            name TEXT NOT NULL,
            code TEXT UNIQUE,
            location TEXT,
            phone TEXT,
            email TEXT,
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS users (
            id {{pk}},
            username TEXT NOT NULL UNIQUE,
            email TEXT NOT NULL UNIQUE,
            password TEXT NOT NULL,
            full_name TEXT NOT NULL,
            created_at {{ts}} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS patients (
            id {{pk}},
            first_name TEXT NOT NULL,
            last_name TEXT NOT NULL,
            email TEXT UNIQUE,
            phone TEXT,
            date_of_birth TEXT,
            gender TEXT,
            location TEXT,
            org_id {{fk}} REFERENCES organization(id),
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        )`,
	`CREATE INDEX IF NOT EXISTS ix_patients_last_name ON patients (last_name)`,
	`CREATE INDEX IF NOT EXISTS ix_patients_phone ON patients (phone)`,
	`CREATE TABLE IF NOT EXISTS cases (
            id {{pk}},
            patient_id {{fk}} NOT NULL REFERENCES patients(id),
            title TEXT NOT NULL,
            description TEXT,
            status TEXT NOT NULL,
            critical BOOLEAN NOT NULL DEFAULT FALSE,
            primary_diagnosis TEXT,
            created_by {{fk}} REFERENCES users(id),
            created_at {{ts}} NOT NULL,
            updated_at {{ts}} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS wound_records (
            id {{pk}},
            case_id {{fk}} NOT NULL REFERENCES cases(id),
            description TEXT,
            severity TEXT,
            created_at {{ts}} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS visits (
            id {{pk}},
            case_id {{fk}} NOT NULL REFERENCES cases(id),
            patient_id {{fk}} NOT NULL REFERENCES patients(id),
            scheduled_time {{ts}} NOT NULL,
            notes TEXT,
            recorded_by {{fk}} REFERENCES users(id),
            created_at {{ts}} NOT NULL
        )`,
	`CREATE INDEX IF NOT EXISTS ix_visits_scheduled_time ON visits (scheduled_time)`,
	`CREATE TABLE IF NOT EXISTS vitals (
            id {{pk}},
            visit_id {{fk}} NOT NULL REFERENCES visits(id),
            patient_id {{fk}} REFERENCES patients(id),
            temperature {{real}},
            pulse INTEGER,
            blood_pressure TEXT,
            respiratory_rate INTEGER,
            spo2 INTEGER,
            measured_at {{ts}} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS nurse_activity_logs (
            id {{pk}},
            visit_id {{fk}} NOT NULL REFERENCES visits(id),
            case_id {{fk}} NOT NULL REFERENCES cases(id),
            nurse_id {{fk}} REFERENCES users(id),
            activity TEXT,
            logged_at {{ts}} NOT NULL
        )`,
	`CREATE TABLE IF NOT EXISTS invoices (
            id {{pk}},
            patient_id {{fk}} NOT NULL REFERENCES patients(id),
            case_id {{fk}} REFERENCES cases(id),
            org_id {{fk}} REFERENCES organization(id),
            items TEXT NOT NULL DEFAULT '[]',
            subtotal {{real}},
            tax {{real}} NOT NULL DEFAULT 0,
            total {{real}},
            paid_amount {{real}} NOT NULL DEFAULT 0,
            status TEXT NOT NULL,
            invoice_date {{ts}} NOT NULL,
            created_by {{fk}} REFERENCES users(id),
            created_at {{ts}} NOT NULL
        )`,
	`CREATE INDEX IF NOT EXISTS ix_invoices_status ON invoices (status)`,
	`CREATE TABLE IF NOT EXISTS payments (
            id {{pk}},
            invoice_id {{fk}} NOT NULL REFERENCES invoices(id),
            amount {{real}} NOT NULL,
            method TEXT,
            reference TEXT,
            paid_at {{ts}} NOT NULL,
            created_by {{fk}} REFERENCES users(id),
            created_at {{ts}} NOT NULL
        )`,
}

// Statements returns the schema rendered for the given driver.
func Statements(driver string) ([]string, error) {
	r, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("no schema for driver %q", driver)
	}
	out := make([]string, len(schema))
	for i, stmt := range schema {
		out[i] = r.Replace(stmt)
	}
	return out, nil
}

// Run creates the database schema required by the clinic backend. It is
// idempotent.
func Run(ctx context.Context, db *sqlx.DB) error {
	stmts, err := Statements(db.DriverName())
	if err != nil {
		return err
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
