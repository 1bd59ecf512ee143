// Package reflector resolves stable, fully qualified names for runtime
// message types. Names are used in dispatch errors, metrics labels and
// transport routing keys, so they must be deterministic across processes.
package reflector

import (
	"reflect"
	"sync"
)

// maxCacheSize bounds the cache. A test suite declares a bounded, small set
// of message types, so the limit is effectively never hit; if it is, the
// cache resets rather than growing without bound.
const maxCacheSize = 512

var (
	mu    sync.RWMutex
	cache = make(map[reflect.Type]TypeInfo)
)

// TypeInfo holds resolved metadata for a message type.
type TypeInfo struct {
	Name string       // qualified name: "pkg/path.TypeName"
	Type reflect.Type // underlying type, pointers unwrapped
}

// TypeInfoOf returns TypeInfo for the dynamic type of x.
func TypeInfoOf(x any) TypeInfo {
	return typeInfoForType(reflect.TypeOf(x))
}

// TypeInfoFor returns TypeInfo for the type parameter T.
func TypeInfoFor[T any]() TypeInfo {
	return typeInfoForType(reflect.TypeFor[T]())
}

// typeInfoForType resolves and caches TypeInfo for t. Pointer types resolve
// to their element type so that a *Msg and a Msg share one identity.
func typeInfoForType(t reflect.Type) TypeInfo {
	if t == nil {
		return TypeInfo{}
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	mu.RLock()
	ti, ok := cache[t]
	mu.RUnlock()
	if ok {
		return ti
	}

	name := t.Name()
	if pkg := t.PkgPath(); pkg != "" {
		name = pkg + "." + name
	}
	ti = TypeInfo{Name: name, Type: t}

	mu.Lock()
	// Another goroutine may have resolved t while we built ti.
	if existing, ok := cache[t]; ok {
		mu.Unlock()
		return existing
	}
	if len(cache) >= maxCacheSize {
		cache = make(map[reflect.Type]TypeInfo)
	}
	cache[t] = ti
	mu.Unlock()

	return ti
}
