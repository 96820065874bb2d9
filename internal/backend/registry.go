package backend

import (
	"io"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// InputKind distinguishes which concrete input backend a registry builds.
type InputKind int

const (
	InputUinput InputKind = iota
	InputEvdev
)

// ScreenKind distinguishes which concrete screen backend a registry builds.
type ScreenKind int

const (
	ScreenKMS ScreenKind = iota
	ScreenILM
)

// InputFactory constructs the concrete input backend for a kind. The
// registry holds one per kind so it never imports uinputdev/evdevio
// directly and stays free of a dependency on the page-flip engine.
type InputFactory func() (InputBackend, error)

// ScreenFactory constructs the concrete screen backend for a kind. If the
// returned ScreenBackend also implements io.Closer (the page-flip engine's
// worker teardown, or the ILM backend's Wayland disconnect), Registry.Close
// calls it at process shutdown.
type ScreenFactory func() (ScreenBackend, error)

// Registry is the lazy, process-wide, immutable-once-initialized backend
// cache described in SPEC_FULL.md §4.J. Each kind is constructed at most
// once; concurrent first callers race on a sync.Once per kind so exactly
// one instance wins.
type Registry struct {
	inputFactories  map[InputKind]InputFactory
	screenFactories map[ScreenKind]ScreenFactory

	inputOnce map[InputKind]*sync.Once
	inputInst map[InputKind]InputBackend
	inputErr  map[InputKind]error

	screenOnce map[ScreenKind]*sync.Once
	screenInst map[ScreenKind]ScreenBackend
	screenErr  map[ScreenKind]error

	mu sync.Mutex
}

// New builds an empty registry with the given factories registered. The
// caller (cmd/qad-fixture's wiring) supplies factories so this package
// never imports the concrete backend packages and stays free of cycles.
func New(inputFactories map[InputKind]InputFactory, screenFactories map[ScreenKind]ScreenFactory) *Registry {
	r := &Registry{
		inputFactories:  inputFactories,
		screenFactories: screenFactories,
		inputOnce:       make(map[InputKind]*sync.Once),
		inputInst:       make(map[InputKind]InputBackend),
		inputErr:        make(map[InputKind]error),
		screenOnce:      make(map[ScreenKind]*sync.Once),
		screenInst:      make(map[ScreenKind]ScreenBackend),
		screenErr:       make(map[ScreenKind]error),
	}
	for k := range inputFactories {
		r.inputOnce[k] = &sync.Once{}
	}
	for k := range screenFactories {
		r.screenOnce[k] = &sync.Once{}
	}
	return r
}

// Input returns the cached input backend for kind, constructing it on the
// first call. Construction failure is cached too: every later caller sees
// the same error rather than retrying a broken device.
func (r *Registry) Input(kind InputKind) (InputBackend, error) {
	r.mu.Lock()
	once := r.inputOnce[kind]
	r.mu.Unlock()
	if once == nil {
		return nil, NewError(BadInput, "Registry.Input", nil)
	}

	once.Do(func() {
		factory := r.inputFactories[kind]
		inst, err := factory()
		r.mu.Lock()
		r.inputInst[kind], r.inputErr[kind] = inst, err
		r.mu.Unlock()
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.inputInst[kind], r.inputErr[kind]
}

// Screen returns the cached screen backend for kind, constructing it (and
// starting its background worker, for KMS) on the first call.
func (r *Registry) Screen(kind ScreenKind) (ScreenBackend, error) {
	r.mu.Lock()
	once := r.screenOnce[kind]
	r.mu.Unlock()
	if once == nil {
		return nil, NewError(BadInput, "Registry.Screen", nil)
	}

	once.Do(func() {
		factory := r.screenFactories[kind]
		inst, err := factory()
		r.mu.Lock()
		r.screenInst[kind], r.screenErr[kind] = inst, err
		r.mu.Unlock()
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.screenInst[kind], r.screenErr[kind]
}

// Close tears down every backend that was actually constructed and
// implements io.Closer, in no particular order, aggregating failures with
// go-multierror rather than stopping at the first one.
func (r *Registry) Close() error {
	r.mu.Lock()
	closers := make([]io.Closer, 0, len(r.inputInst)+len(r.screenInst))
	for _, inst := range r.inputInst {
		if c, ok := inst.(io.Closer); ok {
			closers = append(closers, c)
		}
	}
	for _, inst := range r.screenInst {
		if c, ok := inst.(io.Closer); ok {
			closers = append(closers, c)
		}
	}
	r.mu.Unlock()

	var result *multierror.Error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}
