package holidays

import (
	"fmt"
	"log"
	"sync"
	"time"

	cal "github.com/rickar/cal/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/klabast/wb-services/trash-calendar/internal/schedule"
)

// Provider hands out one holiday table per year, building each at most once
type Provider struct {
	rules []*cal.Holiday

	mu     sync.RWMutex
	tables map[int]*schedule.Table
}

// NewProvider validates the overrides up front so later lookups cannot fail on them
func NewProvider(rules []*cal.Holiday, overrides Overrides) (*Provider, error) {
	p := &Provider{
		rules:  rules,
		tables: make(map[int]*schedule.Table),
	}
	for year, list := range overrides {
		table, err := schedule.NewTable(year, list)
		if err != nil {
			return nil, fmt.Errorf("holidays for %d: %w", year, err)
		}
		p.tables[year] = table
	}
	return p, nil
}

// TableFor returns the holiday table of year
func (p *Provider) TableFor(year int) (*schedule.Table, error) {
	p.mu.RLock()
	table, ok := p.tables[year]
	p.mu.RUnlock()
	if ok {
		return table, nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if table, ok := p.tables[year]; ok {
		return table, nil
	}

	table, err := BuildTable(year, p.rules)
	if err != nil {
		return nil, fmt.Errorf("holidays for %d: %w", year, err)
	}
	p.tables[year] = table
	return table, nil
}

// Warm builds the tables of years in parallel
func (p *Provider) Warm(years ...int) error {
	workers := pool.New().WithErrors().WithMaxGoroutines(4)
	for _, year := range years {
		year := year
		workers.Go(func() error {
			_, err := p.TableFor(year)
			return err
		})
	}
	return workers.Wait()
}

// HolidayOn implements schedule.HolidaySource across years
func (p *Provider) HolidayOn(date time.Time) (schedule.Holiday, bool) {
	table, err := p.TableFor(date.Year())
	if err != nil {
		log.Printf("Error building holiday table: %v", err)
		return schedule.Holiday{}, false
	}
	return table.HolidayOn(date)
}
