package service

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/ukydev/municipal-assets/internal/models"
	"github.com/ukydev/municipal-assets/internal/storage"
)

// MockMaintenanceBackend is a mock implementation of MaintenanceBackend
type MockMaintenanceBackend struct {
	mock.Mock
}

func (m *MockMaintenanceBackend) List(ctx context.Context, token string) ([]models.MaintenanceRecord, error) {
	args := m.Called(ctx, token)
	records, _ := args.Get(0).([]models.MaintenanceRecord)
	return records, args.Error(1)
}

func (m *MockMaintenanceBackend) ListByStatus(ctx context.Context, token string, status models.MaintenanceStatus) ([]models.MaintenanceRecord, error) {
	args := m.Called(ctx, token, status)
	records, _ := args.Get(0).([]models.MaintenanceRecord)
	return records, args.Error(1)
}

func (m *MockMaintenanceBackend) Get(ctx context.Context, token string, id models.ID) (*models.MaintenanceRecord, error) {
	args := m.Called(ctx, token, id)
	rec, _ := args.Get(0).(*models.MaintenanceRecord)
	return rec, args.Error(1)
}

func (m *MockMaintenanceBackend) Create(ctx context.Context, token string, rec models.MaintenanceRecord) (*models.MaintenanceRecord, error) {
	args := m.Called(ctx, token, rec)
	created, _ := args.Get(0).(*models.MaintenanceRecord)
	return created, args.Error(1)
}

func (m *MockMaintenanceBackend) Update(ctx context.Context, token string, id models.ID, rec models.MaintenanceRecord) error {
	args := m.Called(ctx, token, id, rec)
	return args.Error(0)
}

func (m *MockMaintenanceBackend) Transition(ctx context.Context, token string, id models.ID, action models.MaintenanceAction, body interface{}) error {
	args := m.Called(ctx, token, id, action, body)
	return args.Error(0)
}

// MockReceiptBackend is a mock implementation of ReceiptBackend
type MockReceiptBackend struct {
	mock.Mock
}

func (m *MockReceiptBackend) Create(ctx context.Context, sess models.SessionContext, r models.HandoverReceipt) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, r)
	created, _ := args.Get(0).(*models.HandoverReceipt)
	return created, args.Error(1)
}

func (m *MockReceiptBackend) Get(ctx context.Context, sess models.SessionContext, id models.ID) (*models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, id)
	r, _ := args.Get(0).(*models.HandoverReceipt)
	return r, args.Error(1)
}

func (m *MockReceiptBackend) List(ctx context.Context, sess models.SessionContext) ([]models.HandoverReceipt, error) {
	args := m.Called(ctx, sess)
	receipts, _ := args.Get(0).([]models.HandoverReceipt)
	return receipts, args.Error(1)
}

func (m *MockReceiptBackend) ListByMovement(ctx context.Context, sess models.SessionContext, movementID models.ID) ([]models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, movementID)
	receipts, _ := args.Get(0).([]models.HandoverReceipt)
	return receipts, args.Error(1)
}

func (m *MockReceiptBackend) ListByStatus(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) ([]models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, status)
	receipts, _ := args.Get(0).([]models.HandoverReceipt)
	return receipts, args.Error(1)
}

func (m *MockReceiptBackend) ListByResponsible(ctx context.Context, sess models.SessionContext, responsibleID models.ID) ([]models.HandoverReceipt, error) {
	args := m.Called(ctx, sess, responsibleID)
	receipts, _ := args.Get(0).([]models.HandoverReceipt)
	return receipts, args.Error(1)
}

func (m *MockReceiptBackend) Sign(ctx context.Context, sess models.SessionContext, id models.ID, req models.SignRequest) error {
	args := m.Called(ctx, sess, id, req)
	return args.Error(0)
}

func (m *MockReceiptBackend) Update(ctx context.Context, sess models.SessionContext, id models.ID, r models.HandoverReceipt) error {
	args := m.Called(ctx, sess, id, r)
	return args.Error(0)
}

func (m *MockReceiptBackend) Count(ctx context.Context, sess models.SessionContext) (int64, error) {
	args := m.Called(ctx, sess)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReceiptBackend) CountByStatus(ctx context.Context, sess models.SessionContext, status models.ReceiptStatus) (int64, error) {
	args := m.Called(ctx, sess, status)
	return args.Get(0).(int64), args.Error(1)
}

// MockDirectory is a mock implementation of DirectoryBackend
type MockDirectory struct {
	mock.Mock
}

func (m *MockDirectory) ListUsers(ctx context.Context, token string) ([]models.DirectoryUser, error) {
	args := m.Called(ctx, token)
	users, _ := args.Get(0).([]models.DirectoryUser)
	return users, args.Error(1)
}

func (m *MockDirectory) ListSuppliers(ctx context.Context, token string) ([]models.Supplier, error) {
	args := m.Called(ctx, token)
	suppliers, _ := args.Get(0).([]models.Supplier)
	return suppliers, args.Error(1)
}

// MockStore is a mock implementation of ObjectStore
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Upload(ctx context.Context, file storage.File, folder string, policy storage.Policy) (storage.Object, error) {
	args := m.Called(ctx, file, folder, policy)
	return args.Get(0).(storage.Object), args.Error(1)
}

func (m *MockStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, token string, change models.AssetStatusChange) {
	m.Called(ctx, token, change)
}

func testSession() models.SessionContext {
	return models.SessionContext{
		UserID:         "u-1",
		Username:       "jtorres",
		Role:           models.RoleManager,
		MunicipalityID: "12",
		Token:          "tok-abc",
	}
}
