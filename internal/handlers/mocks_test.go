package handlers

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/ukydev/municipal-assets/internal/service"
	"github.com/ukydev/municipal-assets/internal/storage"
)

// MockMaintenanceService is a mock implementation of MaintenanceService
type MockMaintenanceService struct {
	mock.Mock
}

func (m *MockMaintenanceService) List(ctx context.Context, sess models.SessionContext, status models.MaintenanceStatus) ([]models.MaintenanceRecord, error) {
	args := m.Called(ctx, sess, status)
	records, _ := args.Get(0).([]models.MaintenanceRecord)
	return records, args.Error(1)
}

func (m *MockMaintenanceService) Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.MaintenanceView, error) {
	args := m.Called(ctx, sess, id)
	view, _ := args.Get(0).(*models.MaintenanceView)
	return view, args.Error(1)
}

func (m *MockMaintenanceService) Create(ctx context.Context, sess models.SessionContext, rec models.MaintenanceRecord) (*models.MaintenanceView, error) {
	args := m.Called(ctx, sess, rec)
	view, _ := args.Get(0).(*models.MaintenanceView)
	return view, args.Error(1)
}

func (m *MockMaintenanceService) Update(ctx context.Context, sess models.SessionContext, id models.ID, rec models.MaintenanceRecord) (*models.MaintenanceView, error) {
	args := m.Called(ctx, sess, id, rec)
	view, _ := args.Get(0).(*models.MaintenanceView)
	return view, args.Error(1)
}

func (m *MockMaintenanceService) Apply(ctx context.Context, sess models.SessionContext, id models.ID, action models.MaintenanceAction, p models.ActionPayload) (*models.MaintenanceView, error) {
	args := m.Called(ctx, sess, id, action, p)
	view, _ := args.Get(0).(*models.MaintenanceView)
	return view, args.Error(1)
}

func (m *MockMaintenanceService) Export(ctx context.Context, sess models.SessionContext, status models.MaintenanceStatus, w io.Writer) error {
	args := m.Called(ctx, sess, status, w)
	return args.Error(0)
}

// MockReceiptService is a mock implementation of ReceiptService
type MockReceiptService struct {
	mock.Mock
}

func (m *MockReceiptService) Create(ctx context.Context, sess models.SessionContext, r models.HandoverReceipt) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, r)
	created, _ := args.Get(0).(*models.HandoverReceipt)
	return created, args.Error(1)
}

func (m *MockReceiptService) Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, id)
	r, _ := args.Get(0).(*models.HandoverReceipt)
	return r, args.Error(1)
}

func (m *MockReceiptService) List(ctx context.Context, sess models.SessionContext, filter service.ReceiptFilter) ([]models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, filter)
	receipts, _ := args.Get(0).([]models.HandoverReceipt)
	return receipts, args.Error(1)
}

func (m *MockReceiptService) Count(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) (int64, error) {
	args := m.Called(ctx, sess, status)
	n, _ := args.Get(0).(int64)
	return n, args.Error(1)
}

func (m *MockReceiptService) Update(ctx context.Context, sess models.SessionContext, id models.ID, r models.HandoverReceipt) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, id, r)
	updated, _ := args.Get(0).(*models.HandoverReceipt)
	return updated, args.Error(1)
}

func (m *MockReceiptService) Sign(ctx context.Context, sess models.SessionContext, id models.ID, req models.SignRequest) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, id, req)
	signed, _ := args.Get(0).(*models.HandoverReceipt)
	return signed, args.Error(1)
}

func (m *MockReceiptService) RenderPDF(ctx context.Context, sess models.SessionContext, id models.ID, w io.Writer) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, id, w)
	r, _ := args.Get(0).(*models.HandoverReceipt)
	return r, args.Error(1)
}

// MockDirectoryService is a mock implementation of DirectoryService
type MockDirectoryService struct {
	mock.Mock
}

func (m *MockDirectoryService) ActiveUsers(ctx context.Context, sess models.SessionContext) ([]models.DirectoryUser, error) {
	args := m.Called(ctx, sess)
	users, _ := args.Get(0).([]models.DirectoryUser)
	return users, args.Error(1)
}

func (m *MockDirectoryService) ActiveSuppliers(ctx context.Context, sess models.SessionContext) ([]models.Supplier, error) {
	args := m.Called(ctx, sess)
	suppliers, _ := args.Get(0).([]models.Supplier)
	return suppliers, args.Error(1)
}

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) Upload(ctx context.Context, file storage.File, folder, kind string) (storage.Object, error) {
	args := m.Called(ctx, file, folder, kind)
	obj, _ := args.Get(0).(storage.Object)
	return obj, args.Error(1)
}

func (m *MockUploadService) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
