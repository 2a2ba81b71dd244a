package repository

import (
	"context"

	"clinicapi/internal/model"
)

// PatientRepository defines data access for patients using SQL queries only.
// No business logic here — strictly persistence operations.
//
// FindByID surfaces sql.ErrNoRows untranslated; Update and Delete return
// sql.ErrNoRows when no row matched so the service layer can map NOT_FOUND.
type PatientRepository interface {
	// List returns every patient. Ordering beyond id is left to callers.
	List(ctx context.Context) ([]model.Patient, error)

	// FindByID returns one patient by id.
	FindByID(ctx context.Context, id int) (*model.Patient, error)

	// Exists reports whether a patient row with this id is present.
	Exists(ctx context.Context, id int) (bool, error)

	// Create inserts a new patient and returns the assigned id.
	Create(ctx context.Context, p *model.Patient) (int, error)

	// Update replaces every mutable column of the row in full.
	Update(ctx context.Context, id int, p *model.Patient) error

	// Delete removes the row outright. Dependent medical records and their
	// file rows go with it via the declared cascades.
	Delete(ctx context.Context, id int) error
}
