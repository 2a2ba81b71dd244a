package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type migrationStep struct {
	Name string
	SQL  string
}

// The steps replay the schema history in order: the base tables as they were
// first created (dni still unique and required), the columns later
// requirements introduced, and finally the removal of the dni uniqueness,
// which was reversed mid-project and must stay removed.
//
// Every step is idempotent so the full sequence can be re-applied against an
// already-migrated database.
var steps = []migrationStep{
	{
		Name: "create_table_patients",
		SQL: `CREATE TABLE IF NOT EXISTS patients (
  id        SERIAL PRIMARY KEY,
  name      TEXT NOT NULL,
  dni       TEXT UNIQUE NOT NULL,
  birthdate TEXT,
  gender    TEXT,
  phone     TEXT
);`,
	},
	{
		Name: "create_table_medical_records",
		SQL: `CREATE TABLE IF NOT EXISTS medical_records (
  id                 SERIAL PRIMARY KEY,
  patient_id         INTEGER NOT NULL REFERENCES patients(id) ON DELETE CASCADE,
  date               TEXT NOT NULL,
  diagnosis          TEXT NOT NULL,
  treatment          TEXT,
  antecedentes       TEXT,
  motivo_consulta    TEXT,
  examen_clinico     TEXT,
  examen_laboratorio TEXT
);`,
	},
	{
		Name: "create_table_files",
		SQL: `CREATE TABLE IF NOT EXISTS files (
  id        SERIAL PRIMARY KEY,
  record_id INTEGER NOT NULL REFERENCES medical_records(id) ON DELETE CASCADE,
  filename  TEXT,
  filepath  TEXT
);`,
	},
	{
		Name: "add_column_patients_edad",
		SQL:  `ALTER TABLE patients ADD COLUMN IF NOT EXISTS edad INTEGER;`,
	},
	{
		Name: "add_column_patients_domicilio",
		SQL:  `ALTER TABLE patients ADD COLUMN IF NOT EXISTS domicilio TEXT;`,
	},
	{
		Name: "add_column_records_weight",
		SQL:  `ALTER TABLE medical_records ADD COLUMN IF NOT EXISTS weight REAL;`,
	},
	{
		Name: "add_column_records_temperatura",
		SQL:  `ALTER TABLE medical_records ADD COLUMN IF NOT EXISTS temperatura REAL;`,
	},
	{
		Name: "add_column_records_frecuencia_respiratoria",
		SQL:  `ALTER TABLE medical_records ADD COLUMN IF NOT EXISTS frecuencia_respiratoria INTEGER;`,
	},
	{
		Name: "add_column_records_pulso",
		SQL:  `ALTER TABLE medical_records ADD COLUMN IF NOT EXISTS pulso INTEGER;`,
	},
	{
		Name: "add_column_records_spo2",
		SQL:  `ALTER TABLE medical_records ADD COLUMN IF NOT EXISTS spo2 INTEGER;`,
	},
	{
		// dni started out unique and required; both constraints were later
		// dropped on purpose. Rows and ids are untouched by either statement.
		Name: "drop_unique_patients_dni",
		SQL:  `ALTER TABLE patients DROP CONSTRAINT IF EXISTS patients_dni_key;`,
	},
	{
		Name: "drop_not_null_patients_dni",
		SQL:  `ALTER TABLE patients ALTER COLUMN dni DROP NOT NULL;`,
	},
	{
		Name: "create_index_records_patient_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_medical_records_patient_id ON medical_records (patient_id);`,
	},
	{
		Name: "create_index_records_date",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_medical_records_date ON medical_records (date);`,
	},
	{
		Name: "create_index_files_record_id",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_files_record_id ON files (record_id);`,
	},
}

// Apply runs the full migration sequence in order. "Already exists" errors
// are swallowed and logged as skips; any other step failure is logged and
// reported without stopping the remaining steps, so one broken step does not
// keep the server from starting.
func Apply(ctx context.Context, db *sql.DB) error {
	start := time.Now()

	logJSON(map[string]any{
		"component": "database",
		"event":     "db_migration_start",
		"status":    "in_progress",
		"steps":     len(steps),
	})

	var failed []string
	for _, step := range steps {
		stepStart := time.Now()
		_, err := db.ExecContext(ctx, step.SQL)
		if err != nil {
			if isAlreadyExists(err) {
				logJSON(map[string]any{
					"component":      "database",
					"event":          "db_migration_skip",
					"status":         "success",
					"migration_step": step.Name,
					"msg":            "object already exists, skipping",
				})
				continue
			}
			failed = append(failed, step.Name)
			logJSON(map[string]any{
				"component":        "database",
				"event":            "db_migration_step_failed",
				"status":           "error",
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			continue
		}

		logJSON(map[string]any{
			"component":        "database",
			"event":            "db_migration_step",
			"status":           "success",
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	if len(failed) > 0 {
		logJSON(map[string]any{
			"component":    "database",
			"event":        "db_migration_done_with_errors",
			"status":       "error",
			"failed_steps": failed,
			"duration_ms":  time.Since(start).Milliseconds(),
		})
		return errors.New("migration steps failed: " + strings.Join(failed, ", "))
	}

	logJSON(map[string]any{
		"component":   "database",
		"event":       "db_migration_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})
	return nil
}

// isAlreadyExists reports whether err only says the table, column, index or
// constraint is already in place, which re-running the sequence can produce
// for statements without an IF NOT EXISTS guard.
func isAlreadyExists(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "42701", // duplicate_column
			"42P07", // duplicate_table
			"42710": // duplicate_object
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate column")
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
