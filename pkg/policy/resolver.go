package policy

// FindCompatible scans the installed index under the requested policy's name
// and returns the first installed policy that can satisfy it. The boolean is
// false when the name is absent or no candidate is compatible.
func FindCompatible(requested Policy, installed *Index) (Policy, bool) {
	for _, candidate := range installed.Lookup(requested.Name) {
		if Compatible(candidate, requested) {
			return candidate, true
		}
	}

	return Policy{}, false
}

// Compatible reports whether the installed policy satisfies the requested
// one: every namespace/key the request declares must be present in the
// installed policy with an identical value. The installed policy may carry
// additional namespaces or keys.
func Compatible(installed, requested Policy) bool {
	for ns, rules := range requested.Configs {
		have, ok := installed.Configs[ns]
		if !ok {
			return false
		}
		for key, want := range rules {
			got, ok := have[key]
			if !ok || got != want {
				return false
			}
		}
	}

	return true
}
