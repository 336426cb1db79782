package symbol

import (
	"fmt"
	"sync"
)

// Symbol is an interned identifier. Two symbols are equal iff they are the
// same pointer.
type Symbol struct {
	name string
}

func (s *Symbol) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.name
}

type table struct {
	mu      sync.RWMutex
	symbols map[string]*Symbol
	fresh   int
}

var global = &table{symbols: make(map[string]*Symbol)}

// Intern returns the unique symbol for name.
func Intern(name string) *Symbol {
	global.mu.RLock()
	sym, ok := global.symbols[name]
	global.mu.RUnlock()
	if ok {
		return sym
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	if sym, ok := global.symbols[name]; ok {
		return sym
	}
	sym = &Symbol{name: name}
	global.symbols[name] = sym
	return sym
}

// Fresh returns a symbol whose text has never been interned before.
func Fresh(prefix string) *Symbol {
	if prefix == "" {
		prefix = "tmp"
	}
	global.mu.Lock()
	defer global.mu.Unlock()
	for {
		global.fresh++
		name := fmt.Sprintf("%s%%%d", prefix, global.fresh)
		if _, exists := global.symbols[name]; exists {
			continue
		}
		sym := &Symbol{name: name}
		global.symbols[name] = sym
		return sym
	}
}
