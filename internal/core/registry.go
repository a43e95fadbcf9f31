package core

import (
	"fmt"
	"sort"
	"sync"
)

// StepFactory is a function that creates a new step instance from config params.
type StepFactory func(name string, params map[string]interface{}) (Step, error)

var (
	stepRegistry = make(map[string]StepFactory)
	registryMu   sync.RWMutex
)

// RegisterStep registers a step factory for a given kind name.
func RegisterStep(kind string, factory StepFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	stepRegistry[kind] = factory
}

// CreateStep instantiates a step of the given kind.
func CreateStep(kind string, name string, params map[string]interface{}) (Step, error) {
	registryMu.RLock()
	factory, ok := stepRegistry[kind]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown step kind: %s", kind)
	}

	return factory(name, params)
}

// RegisteredKinds returns a sorted list of all registered step kinds.
func RegisteredKinds() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	kinds := make([]string, 0, len(stepRegistry))
	for k := range stepRegistry {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
