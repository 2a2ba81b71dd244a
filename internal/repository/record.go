package repository

import (
	"context"

	"clinicapi/internal/model"
)

// RecordRepository defines data access for medical records and their file
// attachment metadata rows. Same contract as PatientRepository: sql.ErrNoRows
// marks a missing row, nothing else is interpreted here.
type RecordRepository interface {
	// List returns every record joined with the owning patient's name,
	// newest visit first.
	List(ctx context.Context) ([]model.MedicalRecord, error)

	// ListByPatient returns one patient's records, newest visit first.
	ListByPatient(ctx context.Context, patientID int) ([]model.MedicalRecord, error)

	// FindByID returns one record by id.
	FindByID(ctx context.Context, id int) (*model.MedicalRecord, error)

	// Exists reports whether a record row with this id is present.
	Exists(ctx context.Context, id int) (bool, error)

	// Create inserts a new record and returns the assigned id.
	Create(ctx context.Context, rec *model.MedicalRecord) (int, error)

	// Update replaces every mutable column of the row in full.
	Update(ctx context.Context, id int, rec *model.MedicalRecord) error

	// Delete removes the row outright; file rows cascade.
	Delete(ctx context.Context, id int) error

	// CreateFile inserts an attachment metadata row and returns its id.
	CreateFile(ctx context.Context, f *model.FileAttachment) (int, error)

	// ListFiles returns the attachment metadata rows for one record.
	ListFiles(ctx context.Context, recordID int) ([]model.FileAttachment, error)

	// ListFilesByPatient returns the attachment rows across all of one
	// patient's records.
	ListFilesByPatient(ctx context.Context, patientID int) ([]model.FileAttachment, error)

	// FindFileByStoredName resolves an attachment row from its generated
	// stored name.
	FindFileByStoredName(ctx context.Context, storedName string) (*model.FileAttachment, error)

	// ListStoredNames returns every stored object name referenced by a
	// metadata row, for reconciling the uploads area.
	ListStoredNames(ctx context.Context) ([]string, error)
}
