package transformer

import (
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/born-ml/axgraph/internal/tensor"
)

// Pass names accepted in Config.Passes.
const (
	PassCSE       = "cse"
	PassConstFold = "constfold"
	PassLiveness  = "liveness"
)

// DefaultPasses is the pass list used when Config.Passes is nil.
var DefaultPasses = []string{PassCSE, PassConstFold, PassLiveness}

// Config selects the backend and compile passes of a Transformer.
type Config struct {
	// Backend names a registered backend. Defaults to "cpu".
	Backend string
	// Passes lists the optimisation passes to run, in order. Nil means
	// DefaultPasses; an empty non-nil slice disables optimisation.
	Passes []string
	// Workers caps kernel parallelism. Zero sizes it to the machine.
	Workers int
}

func (c Config) withDefaults() Config {
	if c.Backend == "" {
		c.Backend = "cpu"
	}
	if c.Passes == nil {
		c.Passes = slices.Clone(DefaultPasses)
	}
	return c
}

func (c Config) validate() error {
	for _, p := range c.Passes {
		if !slices.Contains(DefaultPasses, p) {
			return fmt.Errorf("%w: %q", ErrUnknownPass, p)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("transformer: negative worker count %d", c.Workers)
	}
	return nil
}

// Factory creates a backend for a transformer.
type Factory func(cfg Config) (tensor.Backend, error)

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Factory)
)

// Register makes a backend available under name. Registering a name twice panics.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("transformer: backend registered twice: " + name)
	}
	registry[name] = f
}

// Backends returns the registered backend names, sorted.
func Backends() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookup(name string) (Factory, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownBackend, name, Backends())
	}
	return f, nil
}
