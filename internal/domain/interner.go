package domain

import "sync"

// Interner owns the canonical-string -> *Label table for one graph,
// tying the table's lifetime to the owning Graph so transforming many
// graphs in one process never leaks entries across them (see
// NewGraph).
type Interner struct {
	mu     sync.RWMutex
	byForm map[string]*Label
}

// NewInterner creates an empty interner.
func NewInterner() *Interner {
	return &Interner{byForm: make(map[string]*Label)}
}

// Get interns text, returning the shared *Label for its canonical form.
func (in *Interner) Get(text string) (*Label, error) {
	lbl, err := createLabel(text)
	if err != nil {
		return nil, err
	}
	canonical := lbl.String()

	in.mu.RLock()
	if existing, ok := in.byForm[canonical]; ok {
		in.mu.RUnlock()
		return existing, nil
	}
	in.mu.RUnlock()

	in.mu.Lock()
	defer in.mu.Unlock()
	if existing, ok := in.byForm[canonical]; ok {
		return existing, nil
	}
	in.byForm[canonical] = lbl
	return lbl, nil
}

// Tau returns the interned silent action label.
func (in *Interner) Tau() *Label {
	lbl, _ := in.Get(TauText)
	return lbl
}

// Size returns the number of distinct interned labels.
func (in *Interner) Size() int {
	in.mu.RLock()
	defer in.mu.RUnlock()
	return len(in.byForm)
}
