// Copyright (C) 2020-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package hashgraph

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// predicateCaches is the memoization layer in front of the predicate and
// round engines: five bounded LRUs of identical capacity, one per
// predicate, plus one for OldestSelfAncestorToSee. All are keyed by the
// deterministic string concatenation of their hex arguments.
//
// None of these caches ever store a negative result computed because an
// argument event was absent from the store -- the DAG only grows, so a
// "false because missing" answer observed now could become "true" the
// moment the missing event is inserted. Callers only call cache.Add
// after resolving both events.
type predicateCaches struct {
	ancestor     *lru.Cache[string, bool]
	selfAncestor *lru.Cache[string, bool]
	stronglySee  *lru.Cache[string, bool]
	parentRound  *lru.Cache[string, ParentRoundInfo]
	round        *lru.Cache[string, int]
	oldestSelfAncestorToSee *lru.Cache[string, string]
}

func newPredicateCaches(size int) *predicateCaches {
	if size <= 0 {
		size = 1
	}
	ancestor, _ := lru.New[string, bool](size)
	selfAncestor, _ := lru.New[string, bool](size)
	stronglySee, _ := lru.New[string, bool](size)
	parentRound, _ := lru.New[string, ParentRoundInfo](size)
	round, _ := lru.New[string, int](size)
	oldest, _ := lru.New[string, string](size)
	return &predicateCaches{
		ancestor:                ancestor,
		selfAncestor:            selfAncestor,
		stronglySee:             stronglySee,
		parentRound:             parentRound,
		round:                   round,
		oldestSelfAncestorToSee: oldest,
	}
}

// cacheKey is the composite key for two-argument predicates: the stable
// string concatenation of x and y separated by a byte that cannot occur
// in a hex-encoded hash.
func cacheKey(x, y string) string {
	return x + "|" + y
}
