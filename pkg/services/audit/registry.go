package audit

import (
	"fmt"
	"sync"
)

// CheckFactory builds a check bound to a data source.
type CheckFactory func(source DataSource, settings Settings) Check

// Registry keeps check factories in registration order, which is the run order.
type Registry interface {
	// Register appends a check factory under a unique name
	Register(name string, factory CheckFactory) error
	// Build instantiates the registered checks in run order. When names are given only
	// those checks are built, still in run order.
	Build(source DataSource, settings Settings, names ...string) ([]Check, error)
	// ListChecks returns the registered check names in run order
	ListChecks() []string
}

type registry struct {
	mu        sync.RWMutex
	names     []string
	factories map[string]CheckFactory
}

// NewRegistry creates an empty check registry
func NewRegistry() Registry {
	return &registry{
		factories: make(map[string]CheckFactory),
	}
}

// DefaultRegistry returns the five workspace checks in their fixed order.
func DefaultRegistry() Registry {
	r := NewRegistry()
	_ = r.Register("data_connectors", func(s DataSource, _ Settings) Check { return NewConnectorCheck(s) })
	_ = r.Register("analytics_rules", func(s DataSource, _ Settings) Check { return NewAnalyticsRuleCheck(s) })
	_ = r.Register("automation_rules", func(s DataSource, _ Settings) Check { return NewAutomationRuleCheck(s) })
	_ = r.Register("incidents", func(s DataSource, st Settings) Check { return NewIncidentCheck(s, st) })
	_ = r.Register("workspace_health", func(s DataSource, st Settings) Check { return NewWorkspaceCheck(s, st) })
	return r
}

func (r *registry) Register(name string, factory CheckFactory) error {
	if name == "" {
		return fmt.Errorf("check name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("check %q is already registered", name)
	}

	r.factories[name] = factory
	r.names = append(r.names, name)
	return nil
}

func (r *registry) Build(source DataSource, settings Settings, names ...string) ([]Check, error) {
	if source == nil {
		return nil, fmt.Errorf("data source cannot be nil")
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	selected := map[string]bool{}
	for _, name := range names {
		if _, exists := r.factories[name]; !exists {
			return nil, fmt.Errorf("check %q is not registered", name)
		}
		selected[name] = true
	}

	checks := make([]Check, 0, len(r.names))
	for _, name := range r.names {
		if len(selected) > 0 && !selected[name] {
			continue
		}
		checks = append(checks, r.factories[name](source, settings))
	}
	return checks, nil
}

func (r *registry) ListChecks() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]string(nil), r.names...)
}
