package nats

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jsilhan/seqmock/core/reflector"
)

// TypeRegistry maps qualified message type names to factories, so incoming
// payloads can be decoded back to the runtime-typed values the dispatcher
// narrows against. Only registered types can cross the wire.
type TypeRegistry struct {
	mu    sync.RWMutex
	types map[string]func() any
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{types: make(map[string]func() any)}
}

// Register adds message type M to the registry.
func Register[M any](r *TypeRegistry) *TypeRegistry {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[reflector.TypeInfoFor[M]().Name] = func() any { return new(M) }
	return r
}

// decode materializes a typed value for msgType from its JSON payload.
func (r *TypeRegistry) decode(msgType string, data []byte) (any, error) {
	r.mu.RLock()
	factory, ok := r.types[msgType]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("nats: no type registered for %q", msgType)
	}

	v := factory()
	if len(data) > 0 {
		if err := json.Unmarshal(data, v); err != nil {
			return nil, fmt.Errorf("nats: decode %s: %w", msgType, err)
		}
	}
	return v, nil
}
