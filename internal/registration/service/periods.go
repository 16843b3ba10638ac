package service

import (
	"context"
	"fmt"
	"sync"

	"registrar/internal/registration/models"
	id "registrar/pkg/domain"
	"registrar/pkg/platform/sentinel"
)

// PeriodCatalog is an in-memory PeriodLookup keyed by semester.
type PeriodCatalog struct {
	mu      sync.RWMutex
	periods map[id.SemesterID]models.RegistrationPeriod
}

func NewPeriodCatalog(periods ...models.RegistrationPeriod) *PeriodCatalog {
	c := &PeriodCatalog{periods: make(map[id.SemesterID]models.RegistrationPeriod, len(periods))}
	for _, p := range periods {
		c.periods[p.SemesterID] = p
	}
	return c
}

// Put adds or replaces the period for p.SemesterID.
func (c *PeriodCatalog) Put(p models.RegistrationPeriod) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.periods[p.SemesterID] = p
}

func (c *PeriodCatalog) Period(_ context.Context, semesterID id.SemesterID) (*models.RegistrationPeriod, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.periods[semesterID]
	if !ok {
		return nil, fmt.Errorf("registration period for %s: %w", semesterID, sentinel.ErrNotFound)
	}
	return &p, nil
}
