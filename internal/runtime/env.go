package runtime

import "sync"

// Env is one level of lexical scope. Environments are shared by pointer
// between call frames and the closures created in them, so each local
// table is guarded by its own lock. Writes only ever touch the local table.
type Env struct {
	parent *Env

	mu     sync.RWMutex
	names  []string
	values map[string]Value
}

// NewEnv returns a root environment.
func NewEnv() *Env {
	return &Env{values: make(map[string]Value)}
}

// Child returns a new empty scope whose parent is e.
func (e *Env) Child() *Env {
	return &Env{parent: e, values: make(map[string]Value)}
}

// Parent is nil for a root environment.
func (e *Env) Parent() *Env {
	return e.parent
}

// Insert binds name in the local table, shadowing any outer binding.
func (e *Env) Insert(name string, v Value) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.values[name]; !ok {
		e.names = append(e.names, name)
	}
	e.values[name] = v
}

// Get resolves name from the local table outward.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.Lookup(name); ok {
		return v, nil
	}
	return nil, &UndefinedVariable{Name: name}
}

// Lookup is Get without the error.
func (e *Env) Lookup(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		env.mu.RLock()
		v, ok := env.values[name]
		env.mu.RUnlock()
		if ok {
			return v, true
		}
	}
	return nil, false
}

// Clone snapshots the local table. The clone shares e's parent.
func (e *Env) Clone() *Env {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := &Env{
		parent: e.parent,
		names:  make([]string, len(e.names)),
		values: make(map[string]Value, len(e.values)),
	}
	copy(out.names, e.names)
	for k, v := range e.values {
		out.values[k] = v
	}
	return out
}

// Bindings returns the local table as an object, in insertion order.
func (e *Env) Bindings() Object {
	e.mu.RLock()
	defer e.mu.RUnlock()
	values := make([]Value, len(e.names))
	for i, name := range e.names {
		values[i] = e.values[name]
	}
	return NewObject(e.names, values)
}
