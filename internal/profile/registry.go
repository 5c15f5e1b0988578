package profile

// Registry holds the ordered set of loaded profiles. It is populated at
// startup (file-backed profiles first, then the synthetic game profile via
// Append) and read-only afterwards. All access happens on the single
// control goroutine, so no locking is used.
type Registry struct {
	profiles []Profile
}

// NewRegistry creates a registry over the given profiles.
func NewRegistry(profiles []Profile) *Registry {
	return &Registry{profiles: profiles}
}

// Count returns the number of profiles.
func (r *Registry) Count() int {
	return len(r.profiles)
}

// Get returns the profile at index. Defined for 0 <= index < Count.
func (r *Registry) Get(index int) *Profile {
	return &r.profiles[index]
}

// Append adds a profile after the existing entries. Used once at startup
// to register the synthetic game profile.
func (r *Registry) Append(p Profile) {
	r.profiles = append(r.profiles, p)
}

// IndexFor maps an absolute encoder position to a profile index, wrapping
// in both directions. Floored modulo keeps negative positions in range.
func (r *Registry) IndexFor(position int) int {
	n := len(r.profiles)
	return ((position % n) + n) % n
}
