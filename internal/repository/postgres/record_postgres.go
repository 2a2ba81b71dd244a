package postgres

import (
	"context"
	"database/sql"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
)

// RecordPostgres is a PostgreSQL implementation of repository.RecordRepository.
type RecordPostgres struct {
	db *sql.DB
}

// NewRecordPostgres creates a new RecordPostgres repository.
func NewRecordPostgres(db *sql.DB) *RecordPostgres {
	return &RecordPostgres{db: db}
}

var _ repository.RecordRepository = (*RecordPostgres)(nil)

const recordColumns = `id, patient_id, date, weight, diagnosis, treatment,
		antecedentes, motivo_consulta, examen_clinico, examen_laboratorio,
		temperatura, frecuencia_respiratoria, pulso, spo2`

func scanRecord(row interface{ Scan(...any) error }) (*model.MedicalRecord, error) {
	var rec model.MedicalRecord
	if err := row.Scan(
		&rec.ID,
		&rec.PatientID,
		&rec.Date,
		&rec.Weight,
		&rec.Diagnosis,
		&rec.Treatment,
		&rec.Antecedentes,
		&rec.MotivoConsulta,
		&rec.ExamenClinico,
		&rec.ExamenLaboratorio,
		&rec.Temperatura,
		&rec.FrecuenciaRespiratoria,
		&rec.Pulso,
		&rec.Spo2,
	); err != nil {
		return nil, err
	}
	return &rec, nil
}

// List returns every record joined with the patient name, newest visit first.
func (r *RecordPostgres) List(ctx context.Context) ([]model.MedicalRecord, error) {
	const q = `
		SELECT mr.id, mr.patient_id, p.name AS patient_name, mr.date, mr.weight,
			mr.diagnosis, mr.treatment, mr.antecedentes, mr.motivo_consulta,
			mr.examen_clinico, mr.examen_laboratorio, mr.temperatura,
			mr.frecuencia_respiratoria, mr.pulso, mr.spo2
		FROM medical_records mr
		JOIN patients p ON mr.patient_id = p.id
		ORDER BY mr.date DESC
	`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MedicalRecord, 0)
	for rows.Next() {
		var rec model.MedicalRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.PatientID,
			&rec.PatientName,
			&rec.Date,
			&rec.Weight,
			&rec.Diagnosis,
			&rec.Treatment,
			&rec.Antecedentes,
			&rec.MotivoConsulta,
			&rec.ExamenClinico,
			&rec.ExamenLaboratorio,
			&rec.Temperatura,
			&rec.FrecuenciaRespiratoria,
			&rec.Pulso,
			&rec.Spo2,
		); err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByPatient returns one patient's records, newest visit first.
func (r *RecordPostgres) ListByPatient(ctx context.Context, patientID int) ([]model.MedicalRecord, error) {
	const q = `
		SELECT ` + recordColumns + `
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY date DESC
	`
	rows, err := r.db.QueryContext(ctx, q, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.MedicalRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single record by its id.
func (r *RecordPostgres) FindByID(ctx context.Context, id int) (*model.MedicalRecord, error) {
	const q = `SELECT ` + recordColumns + ` FROM medical_records WHERE id = $1`
	return scanRecord(r.db.QueryRowContext(ctx, q, id))
}

// Exists reports whether the record row is present.
func (r *RecordPostgres) Exists(ctx context.Context, id int) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM medical_records WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new record row and returns the generated id.
func (r *RecordPostgres) Create(ctx context.Context, rec *model.MedicalRecord) (int, error) {
	const q = `
		INSERT INTO medical_records (
			patient_id, date, weight, diagnosis, treatment,
			antecedentes, motivo_consulta, examen_clinico, examen_laboratorio,
			temperatura, frecuencia_respiratoria, pulso, spo2
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id
	`
	var id int
	err := r.db.QueryRowContext(ctx, q,
		rec.PatientID,
		rec.Date,
		rec.Weight,
		rec.Diagnosis,
		rec.Treatment,
		rec.Antecedentes,
		rec.MotivoConsulta,
		rec.ExamenClinico,
		rec.ExamenLaboratorio,
		rec.Temperatura,
		rec.FrecuenciaRespiratoria,
		rec.Pulso,
		rec.Spo2,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Update overwrites every mutable column of the row; absent fields become NULL.
func (r *RecordPostgres) Update(ctx context.Context, id int, rec *model.MedicalRecord) error {
	const q = `
		UPDATE medical_records
		SET patient_id = $1, date = $2, weight = $3, diagnosis = $4, treatment = $5,
			antecedentes = $6, motivo_consulta = $7, examen_clinico = $8, examen_laboratorio = $9,
			temperatura = $10, frecuencia_respiratoria = $11, pulso = $12, spo2 = $13
		WHERE id = $14
	`
	res, err := r.db.ExecContext(ctx, q,
		rec.PatientID,
		rec.Date,
		rec.Weight,
		rec.Diagnosis,
		rec.Treatment,
		rec.Antecedentes,
		rec.MotivoConsulta,
		rec.ExamenClinico,
		rec.ExamenLaboratorio,
		rec.Temperatura,
		rec.FrecuenciaRespiratoria,
		rec.Pulso,
		rec.Spo2,
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

// Delete removes the record row; file rows cascade at the store level.
func (r *RecordPostgres) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM medical_records WHERE id = $1`
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

// CreateFile inserts an attachment metadata row and returns the generated id.
func (r *RecordPostgres) CreateFile(ctx context.Context, f *model.FileAttachment) (int, error) {
	const q = `
		INSERT INTO files (record_id, filename, filepath)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var id int
	if err := r.db.QueryRowContext(ctx, q, f.RecordID, f.Filename, f.Filepath).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// ListFiles returns the attachment metadata rows for one record.
func (r *RecordPostgres) ListFiles(ctx context.Context, recordID int) ([]model.FileAttachment, error) {
	const q = `SELECT id, record_id, filename, filepath FROM files WHERE record_id = $1 ORDER BY id`
	return r.queryFiles(ctx, q, recordID)
}

// ListFilesByPatient returns the attachment rows across all records of one patient.
func (r *RecordPostgres) ListFilesByPatient(ctx context.Context, patientID int) ([]model.FileAttachment, error) {
	const q = `
		SELECT f.id, f.record_id, f.filename, f.filepath
		FROM files f
		JOIN medical_records mr ON f.record_id = mr.id
		WHERE mr.patient_id = $1
		ORDER BY f.id
	`
	return r.queryFiles(ctx, q, patientID)
}

func (r *RecordPostgres) queryFiles(ctx context.Context, q string, arg any) ([]model.FileAttachment, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.FileAttachment, 0)
	for rows.Next() {
		var f model.FileAttachment
		if err := rows.Scan(&f.ID, &f.RecordID, &f.Filename, &f.Filepath); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindFileByStoredName resolves an attachment row from its generated stored name.
func (r *RecordPostgres) FindFileByStoredName(ctx context.Context, storedName string) (*model.FileAttachment, error) {
	const q = `SELECT id, record_id, filename, filepath FROM files WHERE filepath = $1`
	var f model.FileAttachment
	if err := r.db.QueryRowContext(ctx, q, storedName).Scan(&f.ID, &f.RecordID, &f.Filename, &f.Filepath); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListStoredNames returns every stored object name referenced by a metadata row.
func (r *RecordPostgres) ListStoredNames(ctx context.Context) ([]string, error) {
	const q = `SELECT filepath FROM files`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return names, nil
}
