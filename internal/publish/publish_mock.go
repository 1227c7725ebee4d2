package publish

import (
	"github.com/huangsam/metacount/internal/contract"
	"github.com/huangsam/metacount/schema"
	"github.com/stretchr/testify/mock"
)

// MockPublishManager is a mock implementation of PublishManager for testing.
type MockPublishManager struct {
	mock.Mock
}

var _ contract.PublishManager = &MockPublishManager{} // Compile-time check

// GetReportStore implements the PublishManager interface.
func (m *MockPublishManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// Publish implements the ReportStore interface.
func (m *MockReportStore) Publish(report schema.MetadataReport) error {
	args := m.Called(report)
	return args.Error(0)
}

// GetCounts implements the ReportStore interface.
func (m *MockReportStore) GetCounts(sourceRoot string) (map[string]int, error) {
	args := m.Called(sourceRoot)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

// GetSummaries implements the ReportStore interface.
func (m *MockReportStore) GetSummaries() ([]schema.PublishedSummary, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.PublishedSummary)
	return rows, args.Error(1)
}

// GetAllCounts implements the ReportStore interface.
func (m *MockReportStore) GetAllCounts() ([]schema.PublishedCount, error) {
	args := m.Called()
	rows, _ := args.Get(0).([]schema.PublishedCount)
	return rows, args.Error(1)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.PublishStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.PublishStatus), args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
