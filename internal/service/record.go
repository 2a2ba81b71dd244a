package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"clinicapi/internal/model"
	"clinicapi/internal/repository"
	"clinicapi/internal/storage"
)

// uploadPrefix is the key prefix of the attachment area in the object store.
const uploadPrefix = "uploads"

// RecordService defines the use cases for medical records and their file
// attachments.
type RecordService interface {
	// List returns every record joined with the patient name, newest first.
	List(ctx context.Context) ([]model.MedicalRecord, error)

	// ListForPatient returns one patient's records, newest first.
	ListForPatient(ctx context.Context, patientID int) ([]model.MedicalRecord, error)

	// Get returns a single record by id, or ErrRecordNotFound.
	Get(ctx context.Context, id int) (*model.MedicalRecord, error)

	// Create validates and inserts a new record, returning the assigned id.
	// patient_id, date and diagnosis are required and the referenced patient
	// must exist.
	Create(ctx context.Context, rec *model.MedicalRecord) (int, error)

	// Update replaces every mutable field of the record in full, with the
	// same validation as Create.
	Update(ctx context.Context, id int, rec *model.MedicalRecord) error

	// Delete hard-deletes the record after removing its stored attachment
	// blobs; metadata rows cascade at the store level.
	Delete(ctx context.Context, id int) error

	// AttachFile streams the upload into the object store under a generated
	// collision-resistant name, then inserts the metadata row. The object is
	// rolled back if the metadata insert fails.
	AttachFile(ctx context.Context, recordID int, r io.Reader, originalName string, contentType string, size int64) (*model.FileAttachment, error)

	// ListFiles returns the attachment metadata rows for one record.
	ListFiles(ctx context.Context, recordID int) ([]model.FileAttachment, error)

	// OpenFile resolves a stored name to its metadata row and a streaming
	// reader over the blob, for raw download.
	OpenFile(ctx context.Context, storedName string) (io.ReadCloser, *model.FileAttachment, error)

	// SweepOrphans deletes stored objects in the uploads area that no
	// metadata row references, and reports how many were removed. Such
	// objects can be left behind if the process dies between the storage
	// write and the metadata insert.
	SweepOrphans(ctx context.Context) (int, error)
}

// recordService is a concrete implementation of RecordService.
type recordService struct {
	repo     repository.RecordRepository
	patients repository.PatientRepository
	store    storage.Storage
}

// NewRecordService constructs a new RecordService.
func NewRecordService(repo repository.RecordRepository, patients repository.PatientRepository, store storage.Storage) RecordService {
	return &recordService{repo: repo, patients: patients, store: store}
}

func (s *recordService) List(ctx context.Context) ([]model.MedicalRecord, error) {
	return s.repo.List(ctx)
}

func (s *recordService) ListForPatient(ctx context.Context, patientID int) ([]model.MedicalRecord, error) {
	return s.repo.ListByPatient(ctx, patientID)
}

func (s *recordService) Get(ctx context.Context, id int) (*model.MedicalRecord, error) {
	rec, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return rec, nil
}

func (s *recordService) validate(ctx context.Context, rec *model.MedicalRecord) error {
	if rec.PatientID == 0 || strings.TrimSpace(rec.Date) == "" || strings.TrimSpace(rec.Diagnosis) == "" {
		return validationError("patient_id, date y diagnosis son obligatorios")
	}
	ok, err := s.patients.Exists(ctx, rec.PatientID)
	if err != nil {
		return fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return validationError("El paciente referenciado no existe")
	}
	return nil
}

func (s *recordService) Create(ctx context.Context, rec *model.MedicalRecord) (int, error) {
	if err := s.validate(ctx, rec); err != nil {
		return 0, err
	}
	return s.repo.Create(ctx, rec)
}

func (s *recordService) Update(ctx context.Context, id int, rec *model.MedicalRecord) error {
	if err := s.validate(ctx, rec); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, rec); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

func (s *recordService) Delete(ctx context.Context, id int) error {
	files, err := s.repo.ListFiles(ctx, id)
	if err != nil {
		return fmt.Errorf("list record files: %w", err)
	}
	for _, f := range files {
		if err := s.store.Delete(ctx, path.Join(uploadPrefix, f.Filepath)); err != nil {
			return fmt.Errorf("delete stored file %s: %w", f.Filepath, err)
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrRecordNotFound
		}
		return err
	}
	return nil
}

// storedName builds the collision-resistant object name: millisecond
// timestamp, random suffix, then the caller-supplied display name so the
// original remains readable in the uploads area.
func storedName(originalName string) string {
	return fmt.Sprintf("%d-%s-%s", time.Now().UnixMilli(), uuid.NewString(), originalName)
}

func (s *recordService) AttachFile(ctx context.Context, recordID int, r io.Reader, originalName string, contentType string, size int64) (*model.FileAttachment, error) {
	if r == nil {
		return nil, validationError("No se subió ningún archivo")
	}
	ok, err := s.repo.Exists(ctx, recordID)
	if err != nil {
		return nil, fmt.Errorf("check record: %w", err)
	}
	if !ok {
		return nil, ErrRecordNotFound
	}

	name := storedName(originalName)
	key := path.Join(uploadPrefix, name)

	if _, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
		Metadata: map[string]string{
			"original-filename": originalName,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	f := &model.FileAttachment{
		RecordID: recordID,
		Filename: originalName,
		Filepath: name,
	}
	id, err := s.repo.CreateFile(ctx, f)
	if err != nil {
		// Rollback: the blob must not outlive a failed metadata insert
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("db save failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("db save failed: %w", err)
	}
	f.ID = id
	return f, nil
}

func (s *recordService) ListFiles(ctx context.Context, recordID int) ([]model.FileAttachment, error) {
	return s.repo.ListFiles(ctx, recordID)
}

func (s *recordService) OpenFile(ctx context.Context, storedName string) (io.ReadCloser, *model.FileAttachment, error) {
	f, err := s.repo.FindFileByStoredName(ctx, storedName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, err
	}

	rc, _, err := s.store.Get(ctx, path.Join(uploadPrefix, f.Filepath))
	if err != nil {
		if errors.Is(err, storage.ErrNotExist) {
			return nil, nil, ErrFileNotFound
		}
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return rc, f, nil
}

func (s *recordService) SweepOrphans(ctx context.Context) (int, error) {
	names, err := s.repo.ListStoredNames(ctx)
	if err != nil {
		return 0, fmt.Errorf("list stored names: %w", err)
	}
	known := make(map[string]struct{}, len(names))
	for _, n := range names {
		known[n] = struct{}{}
	}

	objects, err := s.store.List(ctx, uploadPrefix+"/")
	if err != nil {
		return 0, fmt.Errorf("list uploads area: %w", err)
	}

	removed := 0
	for _, obj := range objects {
		base := strings.TrimPrefix(obj.Key, uploadPrefix+"/")
		if _, ok := known[base]; ok {
			continue
		}
		if err := s.store.Delete(ctx, obj.Key); err != nil {
			return removed, fmt.Errorf("delete orphan %s: %w", obj.Key, err)
		}
		removed++
	}
	return removed, nil
}
