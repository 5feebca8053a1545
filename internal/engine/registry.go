package engine

import "sort"

// NoteKey identifies a sounding note. Channel is 0-indexed.
type NoteKey struct {
	Note    uint8
	Channel uint8
}

// Registry is the set of notes currently sounding
type Registry struct {
	active map[NoteKey]struct{}
}

func NewRegistry() *Registry {
	return &Registry{active: make(map[NoteKey]struct{})}
}

// Add records a note as sounding
func (r *Registry) Add(k NoteKey) {
	r.active[k] = struct{}{}
}

// Remove forgets a note. Removing a note that is not sounding is a no-op.
func (r *Registry) Remove(k NoteKey) {
	delete(r.active, k)
}

func (r *Registry) Contains(k NoteKey) bool {
	_, ok := r.active[k]
	return ok
}

func (r *Registry) Len() int {
	return len(r.active)
}

// Active returns the sounding notes ordered by channel, then note
func (r *Registry) Active() []NoteKey {
	out := make([]NoteKey, 0, len(r.active))
	for k := range r.active {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Channel != out[j].Channel {
			return out[i].Channel < out[j].Channel
		}
		return out[i].Note < out[j].Note
	})
	return out
}

// Drain empties the registry and returns what was sounding, in Active order
func (r *Registry) Drain() []NoteKey {
	out := r.Active()
	clear(r.active)
	return out
}

// ToggleStore holds the on/off state of toggle keys. Keys start off.
type ToggleStore struct {
	state map[string]bool
}

func NewToggleStore() *ToggleStore {
	return &ToggleStore{state: make(map[string]bool)}
}

// Flip inverts the state of key and returns the new state
func (s *ToggleStore) Flip(key string) bool {
	on := !s.state[key]
	s.state[key] = on
	return on
}

// On reports the current state of key
func (s *ToggleStore) On(key string) bool {
	return s.state[key]
}
