package crawler

import "sync"

// VisitedSet tracks every URL the crawler has claimed, successfully
// fetched or not. A URL enters the set at most once, and always before
// its fetch begins; that single invariant is what keeps cyclic link
// graphs from looping and duplicate links from being fetched twice.
type VisitedSet struct {
	mu   sync.Mutex
	urls map[string]struct{}
}

// NewVisitedSet returns an empty set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{urls: make(map[string]struct{})}
}

// TryClaim atomically checks membership and inserts url if absent. It
// returns true iff this call performed the insertion, i.e. the caller
// owns the visit.
func (v *VisitedSet) TryClaim(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, ok := v.urls[url]; ok {
		return false
	}
	v.urls[url] = struct{}{}
	return true
}

// TryClaimLimited is TryClaim with the page cap enforced under the same
// lock, so concurrent workers cannot race the set past maxPages.
func (v *VisitedSet) TryClaimLimited(url string, maxPages int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if len(v.urls) >= maxPages {
		return false
	}
	if _, ok := v.urls[url]; ok {
		return false
	}
	v.urls[url] = struct{}{}
	return true
}

// Contains reports whether url has already been claimed.
func (v *VisitedSet) Contains(url string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	_, ok := v.urls[url]
	return ok
}

// Size returns the number of claimed URLs.
func (v *VisitedSet) Size() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.urls)
}

// IsFull reports whether the set has reached the given page cap.
func (v *VisitedSet) IsFull(maxPages int) bool {
	return v.Size() >= maxPages
}
