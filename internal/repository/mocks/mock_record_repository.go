package mocks

import (
	"context"

	"clinicapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRecordRepository struct {
	mock.Mock
}

func (m *MockRecordRepository) List(ctx context.Context) ([]model.MedicalRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalRecord), args.Error(1)
}

func (m *MockRecordRepository) ListByPatient(ctx context.Context, patientID int) ([]model.MedicalRecord, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalRecord), args.Error(1)
}

func (m *MockRecordRepository) FindByID(ctx context.Context, id int) (*model.MedicalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockRecordRepository) Exists(ctx context.Context, id int) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRecordRepository) Create(ctx context.Context, rec *model.MedicalRecord) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordRepository) Update(ctx context.Context, id int, rec *model.MedicalRecord) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

func (m *MockRecordRepository) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordRepository) CreateFile(ctx context.Context, f *model.FileAttachment) (int, error) {
	args := m.Called(ctx, f)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordRepository) ListFiles(ctx context.Context, recordID int) ([]model.FileAttachment, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileAttachment), args.Error(1)
}

func (m *MockRecordRepository) ListFilesByPatient(ctx context.Context, patientID int) ([]model.FileAttachment, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileAttachment), args.Error(1)
}

func (m *MockRecordRepository) FindFileByStoredName(ctx context.Context, storedName string) (*model.FileAttachment, error) {
	args := m.Called(ctx, storedName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileAttachment), args.Error(1)
}

func (m *MockRecordRepository) ListStoredNames(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
