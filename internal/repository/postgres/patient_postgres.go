package postgres

import (
	"context"
	"database/sql"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// PatientPostgres is a PostgreSQL implementation of repository.PatientRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PatientPostgres struct {
	db *sql.DB
}

// NewPatientPostgres creates a new PatientPostgres repository.
func NewPatientPostgres(db *sql.DB) *PatientPostgres {
	return &PatientPostgres{db: db}
}

var _ repository.PatientRepository = (*PatientPostgres)(nil)

const patientColumns = "id, name, dni, birthdate, gender, phone, edad, domicilio"

func scanPatient(row interface{ Scan(...any) error }) (*model.Patient, error) {
	var p model.Patient
	if err := row.Scan(
		&p.ID,
		&p.Name,
		&p.DNI,
		&p.Birthdate,
		&p.Gender,
		&p.Phone,
		&p.Edad,
		&p.Domicilio,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns all patient rows.
func (r *PatientPostgres) List(ctx context.Context) ([]model.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Patient, 0)
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single patient by its id.
func (r *PatientPostgres) FindByID(ctx context.Context, id int) (*model.Patient, error) {
	const q = `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`
	return scanPatient(r.db.QueryRowContext(ctx, q, id))
}

// Exists reports whether the patient row is present.
func (r *PatientPostgres) Exists(ctx context.Context, id int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new patient row and returns the generated id.
func (r *PatientPostgres) Create(ctx context.Context, p *model.Patient) (int, error) {
	const q = `
		INSERT INTO patients (name, dni, birthdate, gender, phone, edad, domicilio)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`
	var id int
	err := r.db.QueryRowContext(ctx, q,
		p.Name,
		p.DNI,
		p.Birthdate,
		p.Gender,
		p.Phone,
		p.Edad,
		p.Domicilio,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites every mutable column of the row; absent fields become NULL.
func (r *PatientPostgres) Update(ctx context.Context, id int, p *model.Patient) error {
	const q = `
		UPDATE patients
		SET name = $1, dni = $2, birthdate = $3, gender = $4, phone = $5, edad = $6, domicilio = $7
		WHERE id = $8
	`
	res, err := r.db.ExecContext(ctx, q,
		p.Name,
		p.DNI,
		p.Birthdate,
		p.Gender,
		p.Phone,
		p.Edad,
		p.Domicilio,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the patient row; dependent rows cascade at the store level.
func (r *PatientPostgres) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM patients WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
