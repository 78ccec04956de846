package scenario

import (
	"errors"
	"fmt"
	"sync"

	"trade-scenario-lab/internal/domain"
)

// ErrScenarioCapacity is returned when a portfolio already holds the maximum
// number of scenarios. The existing scenarios are never evicted.
var ErrScenarioCapacity = errors.New("scenario capacity reached")

// ErrScenarioNotFound is returned when a scenario ID is not in the container.
var ErrScenarioNotFound = errors.New("scenario not found")

// Container owns the live scenarios of one portfolio. The core never keeps a
// process-wide scenario list; each container is caller-owned state.
type Container struct {
	mu          sync.RWMutex
	portfolioID string
	scenarios   []*domain.Scenario
}

// NewContainer creates an empty container for a portfolio.
func NewContainer(portfolioID string) *Container {
	return &Container{portfolioID: portfolioID}
}

// Add appends a scenario, refusing the addition once the cap is reached.
func (c *Container) Add(sc *domain.Scenario) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.scenarios) >= domain.MaxScenariosPerPortfolio {
		return fmt.Errorf("%w: portfolio %s already holds %d scenarios",
			ErrScenarioCapacity, c.portfolioID, domain.MaxScenariosPerPortfolio)
	}
	c.scenarios = append(c.scenarios, sc)
	return nil
}

// Get returns the scenario with the given ID.
func (c *Container) Get(id string) (*domain.Scenario, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, sc := range c.scenarios {
		if sc.ID == id {
			return sc, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// Remove deletes the scenario with the given ID.
func (c *Container) Remove(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, sc := range c.scenarios {
		if sc.ID == id {
			c.scenarios = append(c.scenarios[:i], c.scenarios[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// List returns a copy of the scenarios in insertion order.
func (c *Container) List() []*domain.Scenario {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*domain.Scenario, len(c.scenarios))
	copy(out, c.scenarios)
	return out
}

// Len reports the number of live scenarios.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.scenarios)
}
