package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"clinicapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatp(f float64) *float64 { return &f }

var recordCols = []string{
	"id", "patient_id", "date", "weight", "diagnosis", "treatment",
	"antecedentes", "motivo_consulta", "examen_clinico", "examen_laboratorio",
	"temperatura", "frecuencia_respiratoria", "pulso", "spo2",
}

var joinedCols = []string{
	"id", "patient_id", "patient_name", "date", "weight", "diagnosis", "treatment",
	"antecedentes", "motivo_consulta", "examen_clinico", "examen_laboratorio",
	"temperatura", "frecuencia_respiratoria", "pulso", "spo2",
}

func TestRecordPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)

	// the query itself carries the newest-first contract
	rows := sqlmock.NewRows(joinedCols).
		AddRow(2, 1, "Ana Ruiz", "2024-06-15", nil, "Gripe", nil, nil, nil, nil, nil, nil, nil, nil, nil).
		AddRow(1, 1, "Ana Ruiz", "2024-01-01", 72.5, "Control", "Reposo", nil, nil, nil, nil, 36.8, 18, 80, 98).
		AddRow(3, 2, "Luis Soto", "2023-12-31", nil, "Angina", nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM medical_records mr\s+JOIN patients p ON mr.patient_id = p.id\s+ORDER BY mr.date DESC`).
		WillReturnRows(rows)

	items, err := repo.List(context.Background())
	assert.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []string{"2024-06-15", "2024-01-01", "2023-12-31"},
		[]string{items[0].Date, items[1].Date, items[2].Date})
	assert.Equal(t, "Ana Ruiz", items[0].PatientName)
	assert.Equal(t, 72.5, *items[1].Weight)
	assert.Equal(t, 18, *items[1].FrecuenciaRespiratoria)
	assert.Nil(t, items[0].Weight)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_ListByPatient(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)

	rows := sqlmock.NewRows(recordCols).
		AddRow(2, 5, "2024-06-15", nil, "Gripe", nil, nil, nil, nil, nil, nil, nil, nil, nil).
		AddRow(1, 5, "2024-01-01", nil, "Control", nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT (.+) FROM medical_records\s+WHERE patient_id = (.+)\s+ORDER BY date DESC`).
		WithArgs(5).
		WillReturnRows(rows)

	items, err := repo.ListByPatient(context.Background(), 5)
	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "2024-06-15", items[0].Date)
	assert.Empty(t, items[0].PatientName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		rows := sqlmock.NewRows(recordCols).
			AddRow(4, 1, "2024-03-01", nil, "Gripe", nil, nil, nil, nil, nil, nil, nil, nil, nil)

		mock.ExpectQuery("SELECT (.+) FROM medical_records WHERE id = ?").
			WithArgs(4).
			WillReturnRows(rows)

		rec, err := repo.FindByID(ctx, 4)
		assert.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, "Gripe", rec.Diagnosis)
		assert.Nil(t, rec.Temperatura)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM medical_records WHERE id = ?").
			WithArgs(99).
			WillReturnError(sql.ErrNoRows)

		rec, err := repo.FindByID(ctx, 99)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, rec)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)

	rec := &model.MedicalRecord{
		PatientID: 1,
		Date:      "2024-03-01",
		Diagnosis: "Gripe",
		Weight:    floatp(70),
	}

	mock.ExpectQuery("INSERT INTO medical_records").
		WithArgs(1, "2024-03-01", rec.Weight, "Gripe", nil, nil, nil, nil, nil, nil, nil, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	id, err := repo.Create(context.Background(), rec)
	assert.NoError(t, err)
	assert.Equal(t, 11, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)
	ctx := context.Background()

	rec := &model.MedicalRecord{PatientID: 1, Date: "2024-03-02", Diagnosis: "Gripe"}

	t.Run("row matched", func(t *testing.T) {
		mock.ExpectExec("UPDATE medical_records").
			WithArgs(1, "2024-03-02", nil, "Gripe", nil, nil, nil, nil, nil, nil, nil, nil, nil, 4).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Update(ctx, 4, rec))
	})

	t.Run("no row matched", func(t *testing.T) {
		mock.ExpectExec("UPDATE medical_records").
			WithArgs(1, "2024-03-02", nil, "Gripe", nil, nil, nil, nil, nil, nil, nil, nil, nil, 99).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.True(t, errors.Is(repo.Update(ctx, 99, rec), sql.ErrNoRows))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM medical_records").
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM medical_records").
		WithArgs(99).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.Delete(ctx, 4))
	assert.True(t, errors.Is(repo.Delete(ctx, 99), sql.ErrNoRows))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordPostgres_Files(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRecordPostgres(db)
	ctx := context.Background()

	t.Run("create file", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO files").
			WithArgs(4, "radiografia.png", "1709300000000-abc-radiografia.png").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))

		id, err := repo.CreateFile(ctx, &model.FileAttachment{
			RecordID: 4,
			Filename: "radiografia.png",
			Filepath: "1709300000000-abc-radiografia.png",
		})
		assert.NoError(t, err)
		assert.Equal(t, 1, id)
	})

	t.Run("list files", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "record_id", "filename", "filepath"}).
			AddRow(1, 4, "radiografia.png", "1709300000000-abc-radiografia.png")

		mock.ExpectQuery("SELECT (.+) FROM files WHERE record_id = ?").
			WithArgs(4).
			WillReturnRows(rows)

		files, err := repo.ListFiles(ctx, 4)
		assert.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "radiografia.png", files[0].Filename)
	})

	t.Run("list files by patient", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "record_id", "filename", "filepath"}).
			AddRow(1, 4, "radiografia.png", "1709300000000-abc-radiografia.png").
			AddRow(2, 6, "analisis.pdf", "1709300001111-def-analisis.pdf")

		mock.ExpectQuery(`SELECT (.+) FROM files f\s+JOIN medical_records mr ON f.record_id = mr.id\s+WHERE mr.patient_id = (.+)`).
			WithArgs(1).
			WillReturnRows(rows)

		files, err := repo.ListFilesByPatient(ctx, 1)
		assert.NoError(t, err)
		assert.Len(t, files, 2)
	})

	t.Run("find file by stored name", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "record_id", "filename", "filepath"}).
			AddRow(1, 4, "radiografia.png", "1709300000000-abc-radiografia.png")

		mock.ExpectQuery("SELECT (.+) FROM files WHERE filepath = ?").
			WithArgs("1709300000000-abc-radiografia.png").
			WillReturnRows(rows)

		f, err := repo.FindFileByStoredName(ctx, "1709300000000-abc-radiografia.png")
		assert.NoError(t, err)
		require.NotNil(t, f)
		assert.Equal(t, "radiografia.png", f.Filename)
	})

	t.Run("find file missing", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM files WHERE filepath = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		f, err := repo.FindFileByStoredName(ctx, "missing")
		assert.True(t, errors.Is(err, sql.ErrNoRows))
		assert.Nil(t, f)
	})

	t.Run("list stored names", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"filepath"}).
			AddRow("1709300000000-abc-radiografia.png").
			AddRow("1709300001111-def-analisis.pdf")

		mock.ExpectQuery("SELECT filepath FROM files").
			WillReturnRows(rows)

		names, err := repo.ListStoredNames(ctx)
		assert.NoError(t, err)
		assert.Len(t, names, 2)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
