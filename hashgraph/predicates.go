// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

// Ancestor reports whether y lies on any directed path of parent edges
// from x. Reflexive: Ancestor(x, x) is always true. Returns false if
// either event is absent from the store -- and that false is never
// cached, since an absent event today may exist tomorrow.
func (h *Hashgraph) Ancestor(x, y string) bool {
	if x == y {
		return true
	}
	key := cacheKey(x, y)
	if v, ok := h.caches.ancestor.Get(key); ok {
		h.metrics.cacheHits.WithLabelValues("ancestor").Inc()
		return v
	}
	h.metrics.cacheMisses.WithLabelValues("ancestor").Inc()

	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return false
	}
	ey, err := h.Store.GetEvent(y)
	if err != nil {
		return false
	}

	c, ok := h.Participants.ID(string(ey.Body.Creator))
	if !ok {
		return false
	}
	result := ex.lastAncestors[c].index >= ey.Body.Index

	h.caches.ancestor.Add(key, result)
	return result
}

// SelfAncestor reports whether y is reachable from x following only
// self-parent edges: same creator, and x's index is at least y's.
func (h *Hashgraph) SelfAncestor(x, y string) bool {
	if x == y {
		return true
	}
	key := cacheKey(x, y)
	if v, ok := h.caches.selfAncestor.Get(key); ok {
		h.metrics.cacheHits.WithLabelValues("self_ancestor").Inc()
		return v
	}
	h.metrics.cacheMisses.WithLabelValues("self_ancestor").Inc()

	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return false
	}
	ey, err := h.Store.GetEvent(y)
	if err != nil {
		return false
	}

	result := string(ex.Body.Creator) == string(ey.Body.Creator) && ex.Body.Index >= ey.Body.Index

	h.caches.selfAncestor.Add(key, result)
	return result
}

// See is equal to Ancestor. The core relies on CheckSelfParent at insert
// time to guarantee no two events from the same creator share an index,
// so fork detection is not needed at this layer.
func (h *Hashgraph) See(x, y string) bool {
	return h.Ancestor(x, y)
}

// OldestSelfAncestorToSee returns the hex of the oldest event z such
// that z is a self-ancestor of x and z sees y, or "" if no such z exists
// among x's self-ancestors.
func (h *Hashgraph) OldestSelfAncestorToSee(x, y string) string {
	key := cacheKey(x, y)
	if v, ok := h.caches.oldestSelfAncestorToSee.Get(key); ok {
		h.metrics.cacheHits.WithLabelValues("oldest_self_ancestor_to_see").Inc()
		return v
	}
	h.metrics.cacheMisses.WithLabelValues("oldest_self_ancestor_to_see").Inc()

	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return ""
	}
	ey, err := h.Store.GetEvent(y)
	if err != nil {
		return ""
	}

	creatorID, ok := h.Participants.ID(string(ex.Body.Creator))
	if !ok {
		return ""
	}

	entry := ey.firstDescendants[creatorID]
	result := ""
	if entry.index <= ex.Body.Index {
		result = entry.hash
	}

	h.caches.oldestSelfAncestorToSee.Add(key, result)
	return result
}

// StronglySee reports whether x strongly-sees y: the number of
// participant slots through which a path from x back to y exists is at
// least the super-majority threshold (the registry's 2N/3+1, or the
// configured override when one is set).
func (h *Hashgraph) StronglySee(x, y string) bool {
	key := cacheKey(x, y)
	if v, ok := h.caches.stronglySee.Get(key); ok {
		h.metrics.cacheHits.WithLabelValues("strongly_see").Inc()
		return v
	}
	h.metrics.cacheMisses.WithLabelValues("strongly_see").Inc()

	ex, err := h.Store.GetEvent(x)
	if err != nil {
		return false
	}
	ey, err := h.Store.GetEvent(y)
	if err != nil {
		return false
	}

	count := 0
	n := h.Participants.Len()
	for i := 0; i < n; i++ {
		if ex.lastAncestors[i].index >= ey.firstDescendants[i].index {
			count++
		}
	}
	result := count >= h.superMajority()

	h.caches.stronglySee.Add(key, result)
	return result
}
