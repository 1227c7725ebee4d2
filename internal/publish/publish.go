// Package publish writes the latest metadata report of each source root to a SQL database.
package publish

import (
	"sync"

	"github.com/huangsam/metacount/internal/contract"
)

// ReportStoreManager guards the process-wide ReportStore.
type ReportStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	store        contract.ReportStore
}

var _ contract.PublishManager = &ReportStoreManager{} // Compile-time check

// GetReportStore returns the ReportStore, or nil before InitStore.
func (mgr *ReportStoreManager) GetReportStore() contract.ReportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.store
}
