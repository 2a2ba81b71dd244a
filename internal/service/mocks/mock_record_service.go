package mocks

import (
	"context"
	"io"

	"clinicapi/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockRecordService struct {
	mock.Mock
}

func (m *MockRecordService) List(ctx context.Context) ([]model.MedicalRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalRecord), args.Error(1)
}

func (m *MockRecordService) ListForPatient(ctx context.Context, patientID int) ([]model.MedicalRecord, error) {
	args := m.Called(ctx, patientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.MedicalRecord), args.Error(1)
}

func (m *MockRecordService) Get(ctx context.Context, id int) (*model.MedicalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *MockRecordService) Create(ctx context.Context, rec *model.MedicalRecord) (int, error) {
	args := m.Called(ctx, rec)
	return args.Int(0), args.Error(1)
}

func (m *MockRecordService) Update(ctx context.Context, id int, rec *model.MedicalRecord) error {
	args := m.Called(ctx, id, rec)
	return args.Error(0)
}

func (m *MockRecordService) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecordService) AttachFile(ctx context.Context, recordID int, r io.Reader, originalName string, contentType string, size int64) (*model.FileAttachment, error) {
	args := m.Called(ctx, recordID, r, originalName, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FileAttachment), args.Error(1)
}

func (m *MockRecordService) ListFiles(ctx context.Context, recordID int) ([]model.FileAttachment, error) {
	args := m.Called(ctx, recordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FileAttachment), args.Error(1)
}

func (m *MockRecordService) OpenFile(ctx context.Context, storedName string) (io.ReadCloser, *model.FileAttachment, error) {
	args := m.Called(ctx, storedName)
	var rc io.ReadCloser
	if args.Get(0) != nil {
		rc = args.Get(0).(io.ReadCloser)
	}
	var f *model.FileAttachment
	if args.Get(1) != nil {
		f = args.Get(1).(*model.FileAttachment)
	}
	return rc, f, args.Error(2)
}

func (m *MockRecordService) SweepOrphans(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
