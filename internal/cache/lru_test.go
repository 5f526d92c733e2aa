// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"strings"
	"testing"
	"time"
)

func TestLRUList_RecencyOrder(t *testing.T) {
	l := newLRUList[int](4)
	now := time.Now()

	l.put("a", 1, now, now.Add(time.Minute))
	l.put("b", 2, now, now.Add(time.Minute))
	l.put("c", 3, now, now.Add(time.Minute))

	if got := l.oldest(); got == nil || got.key != "a" {
		t.Fatalf("oldest = %v, want a", got)
	}

	e, _ := l.get("a")
	l.moveToFront(e)
	if got := l.oldest(); got.key != "b" {
		t.Errorf("oldest after touch = %s, want b", got.key)
	}

	l.put("b", 20, now, now.Add(time.Minute))
	if got := l.oldest(); got.key != "c" {
		t.Errorf("oldest after update = %s, want c", got.key)
	}
	if e, _ := l.get("b"); e.value != 20 {
		t.Errorf("b = %d, want 20", e.value)
	}
	if l.len() != 3 {
		t.Errorf("len = %d, want 3", l.len())
	}
}

func TestLRUList_RemoveExpired(t *testing.T) {
	l := newLRUList[string](4)
	now := time.Now()

	l.put("old", "x", now.Add(-2*time.Minute), now.Add(-time.Minute))
	l.put("edge", "y", now.Add(-time.Minute), now)
	l.put("new", "z", now, now.Add(time.Minute))

	if removed := l.removeExpired(now); removed != 2 {
		t.Errorf("removed = %d, want 2 (expired and exactly-at-ttl)", removed)
	}
	if _, ok := l.get("new"); !ok {
		t.Error("fresh entry removed")
	}
}

func TestLRUList_RemoveIfAndClear(t *testing.T) {
	l := newLRUList[int](4)
	now := time.Now()
	for _, k := range []string{"user:1", "user:2", "item:1"} {
		l.put(k, 0, now, now.Add(time.Minute))
	}

	if n := l.removeIf(func(k string) bool { return strings.HasPrefix(k, "user:") }); n != 2 {
		t.Errorf("removeIf = %d, want 2", n)
	}
	if n := l.clear(); n != 1 {
		t.Errorf("clear = %d, want 1", n)
	}
	if l.oldest() != nil {
		t.Error("list not empty after clear")
	}
}
