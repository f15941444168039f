package reportarchive

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/mstolarz/astro-advisor/internal/domain/planner"
)

// MemoryArchive keeps report records in process memory for tests and
// deployments without Postgres.
type MemoryArchive struct {
	mu      sync.RWMutex
	reports map[uuid.UUID]planner.Report
}

// NewMemoryArchive constructs an archive backed by process memory.
func NewMemoryArchive() *MemoryArchive {
	return &MemoryArchive{reports: make(map[uuid.UUID]planner.Report)}
}

func (a *MemoryArchive) Save(_ context.Context, report planner.Report) error {
	a.mu.Lock()
	a.reports[report.ID] = report
	a.mu.Unlock()
	return nil
}

func (a *MemoryArchive) Get(_ context.Context, id uuid.UUID) (planner.Report, bool, error) {
	a.mu.RLock()
	report, ok := a.reports[id]
	a.mu.RUnlock()
	return report, ok, nil
}

func (a *MemoryArchive) List(_ context.Context, limit int) ([]planner.Report, error) {
	a.mu.RLock()
	reports := make([]planner.Report, 0, len(a.reports))
	for _, report := range a.reports {
		reports = append(reports, report)
	}
	a.mu.RUnlock()

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].ID.String() < reports[j].ID.String()
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	if limit > 0 && len(reports) > limit {
		reports = reports[:limit]
	}
	return reports, nil
}

var _ planner.Archive = (*MemoryArchive)(nil)
