package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
	"clinicapi/internal/storage"
)

// PatientService defines the use cases for handling patients.
type PatientService interface {
	// List returns every patient.
	List(ctx context.Context) ([]model.Patient, error)

	// Get returns a single patient by id, or ErrPatientNotFound.
	Get(ctx context.Context, id int) (*model.Patient, error)

	// Create validates and inserts a new patient, returning the assigned id.
	// Name must be non-empty; edad, when supplied, must be positive.
	Create(ctx context.Context, p *model.Patient) (int, error)

	// Update replaces every mutable field of the patient in full.
	Update(ctx context.Context, id int, p *model.Patient) error

	// Delete hard-deletes the patient. Records and file metadata cascade at
	// the store level; stored attachment blobs are removed here first.
	Delete(ctx context.Context, id int) error
}

// patientService is a concrete implementation of PatientService.
type patientService struct {
	repo    repository.PatientRepository
	records repository.RecordRepository
	store   storage.Storage
}

// NewPatientService constructs a new PatientService.
func NewPatientService(repo repository.PatientRepository, records repository.RecordRepository, store storage.Storage) PatientService {
	return &patientService{repo: repo, records: records, store: store}
}

func (s *patientService) List(ctx context.Context) ([]model.Patient, error) {
	return s.repo.List(ctx)
}

func (s *patientService) Get(ctx context.Context, id int) (*model.Patient, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *patientService) Create(ctx context.Context, p *model.Patient) (int, error) {
	if strings.TrimSpace(p.Name) == "" {
		return 0, validationError("Nombre es obligatorio.")
	}
	// edad is only checked on creation; update keeps the historical
	// full-replace behavior without revalidating it
	if p.Edad != nil && *p.Edad <= 0 {
		return 0, validationError("La edad no puede ser menor o igual a cero.")
	}
	return s.repo.Create(ctx, p)
}

func (s *patientService) Update(ctx context.Context, id int, p *model.Patient) error {
	if err := s.repo.Update(ctx, id, p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPatientNotFound
		}
		return err
	}
	return nil
}

func (s *patientService) Delete(ctx context.Context, id int) error {
	// collect the stored blobs of every record of this patient before the
	// rows cascade away with the delete
	files, err := s.records.ListFilesByPatient(ctx, id)
	if err != nil {
		return fmt.Errorf("list patient files: %w", err)
	}
	for _, f := range files {
		if err := s.store.Delete(ctx, path.Join(uploadPrefix, f.Filepath)); err != nil {
			return fmt.Errorf("delete stored file %s: %w", f.Filepath, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPatientNotFound
		}
		return err
	}
	return nil
}
