package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"testing"

	"clinicapi/internal/model"
	repoMocks "clinicapi/internal/repository/mocks"
	"clinicapi/internal/storage"
	storeMocks "clinicapi/internal/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRecordService() (RecordService, *repoMocks.MockRecordRepository, *repoMocks.MockPatientRepository, *storeMocks.MockStorage) {
	mRepo := new(repoMocks.MockRecordRepository)
	mPatients := new(repoMocks.MockPatientRepository)
	mStore := new(storeMocks.MockStorage)
	return NewRecordService(mRepo, mPatients, mStore), mRepo, mPatients, mStore
}

func TestRecordService_Create(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name       string
		record     *model.MedicalRecord
		setupMocks func(mRepo *repoMocks.MockRecordRepository, mPatients *repoMocks.MockPatientRepository)
		wantID     int
		wantValMsg string
	}{
		{
			name:   "required fields only succeeds",
			record: &model.MedicalRecord{PatientID: 1, Date: "2024-03-01", Diagnosis: "Gripe"},
			setupMocks: func(mRepo *repoMocks.MockRecordRepository, mPatients *repoMocks.MockPatientRepository) {
				mPatients.On("Exists", ctx, 1).Return(true, nil)
				mRepo.On("Create", ctx, mock.Anything).Return(9, nil)
			},
			wantID: 9,
		},
		{
			name:       "missing patient_id rejected",
			record:     &model.MedicalRecord{Date: "2024-03-01", Diagnosis: "Gripe"},
			wantValMsg: "patient_id, date y diagnosis son obligatorios",
		},
		{
			name:       "missing date rejected",
			record:     &model.MedicalRecord{PatientID: 1, Diagnosis: "Gripe"},
			wantValMsg: "patient_id, date y diagnosis son obligatorios",
		},
		{
			name:       "missing diagnosis rejected",
			record:     &model.MedicalRecord{PatientID: 1, Date: "2024-03-01"},
			wantValMsg: "patient_id, date y diagnosis son obligatorios",
		},
		{
			name:   "nonexistent patient rejected",
			record: &model.MedicalRecord{PatientID: 42, Date: "2024-03-01", Diagnosis: "Gripe"},
			setupMocks: func(mRepo *repoMocks.MockRecordRepository, mPatients *repoMocks.MockPatientRepository) {
				mPatients.On("Exists", ctx, 42).Return(false, nil)
			},
			wantValMsg: "El paciente referenciado no existe",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, mRepo, mPatients, _ := newRecordService()
			if tt.setupMocks != nil {
				tt.setupMocks(mRepo, mPatients)
			}

			id, err := svc.Create(ctx, tt.record)

			if tt.wantValMsg != "" {
				var ve *ValidationError
				require.ErrorAs(t, err, &ve)
				assert.Equal(t, tt.wantValMsg, ve.Msg)
				mRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
			mRepo.AssertExpectations(t)
			mPatients.AssertExpectations(t)
		})
	}
}

func TestRecordService_Update(t *testing.T) {
	ctx := context.Background()
	rec := &model.MedicalRecord{PatientID: 1, Date: "2024-03-02", Diagnosis: "Gripe"}

	t.Run("same validation as create", func(t *testing.T) {
		svc, _, _, _ := newRecordService()
		var ve *ValidationError
		err := svc.Update(ctx, 4, &model.MedicalRecord{PatientID: 1})
		require.ErrorAs(t, err, &ve)
	})

	t.Run("not found", func(t *testing.T) {
		svc, mRepo, mPatients, _ := newRecordService()
		mPatients.On("Exists", ctx, 1).Return(true, nil)
		mRepo.On("Update", ctx, 99, rec).Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Update(ctx, 99, rec), ErrRecordNotFound)
	})

	t.Run("full replace", func(t *testing.T) {
		svc, mRepo, mPatients, _ := newRecordService()
		mPatients.On("Exists", ctx, 1).Return(true, nil)
		mRepo.On("Update", ctx, 4, rec).Return(nil)

		assert.NoError(t, svc.Update(ctx, 4, rec))
		mRepo.AssertExpectations(t)
	})
}

func TestRecordService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes stored blobs first", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		mRepo.On("ListFiles", ctx, 4).Return([]model.FileAttachment{
			{ID: 1, RecordID: 4, Filepath: "111-aaa-a.png"},
		}, nil)
		mStore.On("Delete", ctx, "uploads/111-aaa-a.png").Return(nil)
		mRepo.On("Delete", ctx, 4).Return(nil)

		assert.NoError(t, svc.Delete(ctx, 4))
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		svc, mRepo, _, _ := newRecordService()
		mRepo.On("ListFiles", ctx, 99).Return([]model.FileAttachment{}, nil)
		mRepo.On("Delete", ctx, 99).Return(sql.ErrNoRows)

		assert.ErrorIs(t, svc.Delete(ctx, 99), ErrRecordNotFound)
	})
}

func TestRecordService_AttachFile(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		r := strings.NewReader("png bytes")

		mRepo.On("Exists", ctx, 4).Return(true, nil)
		mStore.On("Put", ctx, mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, "uploads/") && strings.HasSuffix(key, "-radiografia.png")
		}), r, mock.MatchedBy(func(opt storage.PutObjectOptions) bool {
			return opt.ContentType == "image/png" && opt.Metadata["original-filename"] == "radiografia.png"
		})).Return(storage.ObjectInfo{}, nil)
		mRepo.On("CreateFile", ctx, mock.MatchedBy(func(f *model.FileAttachment) bool {
			return f.RecordID == 4 && f.Filename == "radiografia.png" && strings.HasSuffix(f.Filepath, "-radiografia.png")
		})).Return(1, nil)

		f, err := svc.AttachFile(ctx, 4, r, "radiografia.png", "image/png", 9)
		require.NoError(t, err)
		assert.Equal(t, 1, f.ID)
		assert.Equal(t, "radiografia.png", f.Filename)
		assert.NotEqual(t, f.Filename, f.Filepath)
		mStore.AssertExpectations(t)
		mRepo.AssertExpectations(t)
	})

	t.Run("nil reader rejected", func(t *testing.T) {
		svc, _, _, _ := newRecordService()

		var ve *ValidationError
		_, err := svc.AttachFile(ctx, 4, nil, "radiografia.png", "image/png", 0)
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "No se subió ningún archivo", ve.Msg)
	})

	t.Run("nonexistent record", func(t *testing.T) {
		svc, mRepo, _, _ := newRecordService()
		mRepo.On("Exists", ctx, 99).Return(false, nil)

		_, err := svc.AttachFile(ctx, 99, strings.NewReader("x"), "a.png", "image/png", 1)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("metadata insert failure rolls back the blob", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		r := strings.NewReader("x")

		mRepo.On("Exists", ctx, 4).Return(true, nil)
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("CreateFile", ctx, mock.Anything).Return(0, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(nil)

		_, err := svc.AttachFile(ctx, 4, r, "a.png", "image/png", 1)
		assert.ErrorContains(t, err, "db save failed: db fail")
		mStore.AssertCalled(t, "Delete", ctx, mock.Anything)
	})

	t.Run("rollback failure is reported too", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		r := strings.NewReader("x")

		mRepo.On("Exists", ctx, 4).Return(true, nil)
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).Return(storage.ObjectInfo{}, nil)
		mRepo.On("CreateFile", ctx, mock.Anything).Return(0, errors.New("db fail"))
		mStore.On("Delete", ctx, mock.Anything).Return(errors.New("delete fail"))

		_, err := svc.AttachFile(ctx, 4, r, "a.png", "image/png", 1)
		assert.ErrorContains(t, err, "rollback delete failed: delete fail")
	})

	t.Run("storage failure leaves no metadata", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		r := strings.NewReader("x")

		mRepo.On("Exists", ctx, 4).Return(true, nil)
		mStore.On("Put", ctx, mock.Anything, r, mock.Anything).
			Return(storage.ObjectInfo{}, errors.New("storage fail"))

		_, err := svc.AttachFile(ctx, 4, r, "a.png", "image/png", 1)
		assert.ErrorContains(t, err, "upload to storage: storage fail")
		mRepo.AssertNotCalled(t, "CreateFile", mock.Anything, mock.Anything)
	})
}

func TestRecordService_OpenFile(t *testing.T) {
	ctx := context.Background()

	t.Run("streams the blob with its metadata", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		f := &model.FileAttachment{ID: 1, RecordID: 4, Filename: "radiografia.png", Filepath: "111-aaa-radiografia.png"}
		rc := io.NopCloser(strings.NewReader("png bytes"))

		mRepo.On("FindFileByStoredName", ctx, "111-aaa-radiografia.png").Return(f, nil)
		mStore.On("Get", ctx, "uploads/111-aaa-radiografia.png").Return(rc, storage.ObjectInfo{}, nil)

		got, meta, err := svc.OpenFile(ctx, "111-aaa-radiografia.png")
		require.NoError(t, err)
		assert.Equal(t, "radiografia.png", meta.Filename)
		b, _ := io.ReadAll(got)
		assert.Equal(t, "png bytes", string(b))
	})

	t.Run("unknown stored name", func(t *testing.T) {
		svc, mRepo, _, _ := newRecordService()
		mRepo.On("FindFileByStoredName", ctx, "missing").Return(nil, sql.ErrNoRows)

		_, _, err := svc.OpenFile(ctx, "missing")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("missing blob behind known row", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()
		f := &model.FileAttachment{ID: 1, RecordID: 4, Filepath: "111-aaa-a.png"}

		mRepo.On("FindFileByStoredName", ctx, "111-aaa-a.png").Return(f, nil)
		mStore.On("Get", ctx, "uploads/111-aaa-a.png").Return(nil, storage.ObjectInfo{}, storage.ErrNotExist)

		_, _, err := svc.OpenFile(ctx, "111-aaa-a.png")
		assert.ErrorIs(t, err, ErrFileNotFound)
	})
}

func TestRecordService_SweepOrphans(t *testing.T) {
	ctx := context.Background()

	t.Run("deletes unreferenced objects only", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()

		mRepo.On("ListStoredNames", ctx).Return([]string{"111-aaa-a.png"}, nil)
		mStore.On("List", ctx, "uploads/").Return([]storage.ObjectInfo{
			{Key: "uploads/111-aaa-a.png"},
			{Key: "uploads/222-bbb-orphan.pdf"},
		}, nil)
		mStore.On("Delete", ctx, "uploads/222-bbb-orphan.pdf").Return(nil)

		n, err := svc.SweepOrphans(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, n)
		mStore.AssertNotCalled(t, "Delete", ctx, "uploads/111-aaa-a.png")
	})

	t.Run("nothing to do", func(t *testing.T) {
		svc, mRepo, _, mStore := newRecordService()

		mRepo.On("ListStoredNames", ctx).Return([]string{}, nil)
		mStore.On("List", ctx, "uploads/").Return([]storage.ObjectInfo{}, nil)

		n, err := svc.SweepOrphans(ctx)
		assert.NoError(t, err)
		assert.Zero(t, n)
	})
}

func TestRecordService_ListAndGet(t *testing.T) {
	ctx := context.Background()

	t.Run("list passes through", func(t *testing.T) {
		svc, mRepo, _, _ := newRecordService()
		mRepo.On("List", ctx).Return([]model.MedicalRecord{{ID: 1, Date: "2024-06-15"}}, nil)

		items, err := svc.List(ctx)
		assert.NoError(t, err)
		assert.Len(t, items, 1)
	})

	t.Run("get not found translated", func(t *testing.T) {
		svc, mRepo, _, _ := newRecordService()
		mRepo.On("FindByID", ctx, 99).Return(nil, sql.ErrNoRows)

		_, err := svc.Get(ctx, 99)
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})
}
