// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import "time"

// lruEntry is a node of the recency list.
type lruEntry[V any] struct {
	key       string
	value     V
	createdAt time.Time
	expiresAt time.Time
	prev      *lruEntry[V]
	next      *lruEntry[V]
}

// fresh reports whether the entry is still within its TTL at now.
// An entry whose age equals its TTL is stale.
func (e *lruEntry[V]) fresh(now time.Time) bool {
	return now.Before(e.expiresAt)
}

// lruList is a map plus doubly-linked recency list with head/tail sentinels.
// head.next is the most recently used entry, tail.prev the least.
// It is not safe for concurrent use; the owning cache holds the lock.
type lruList[V any] struct {
	items map[string]*lruEntry[V]
	head  *lruEntry[V]
	tail  *lruEntry[V]
}

func newLRUList[V any](capacityHint int) *lruList[V] {
	l := &lruList[V]{
		items: make(map[string]*lruEntry[V], capacityHint),
		head:  &lruEntry[V]{},
		tail:  &lruEntry[V]{},
	}
	l.head.next = l.tail
	l.tail.prev = l.head
	return l
}

func (l *lruList[V]) len() int { return len(l.items) }

func (l *lruList[V]) get(key string) (*lruEntry[V], bool) {
	e, ok := l.items[key]
	return e, ok
}

// put inserts or replaces key at the front of the list.
func (l *lruList[V]) put(key string, value V, createdAt, expiresAt time.Time) *lruEntry[V] {
	if e, ok := l.items[key]; ok {
		e.value = value
		e.createdAt = createdAt
		e.expiresAt = expiresAt
		l.moveToFront(e)
		return e
	}

	e := &lruEntry[V]{
		key:       key,
		value:     value,
		createdAt: createdAt,
		expiresAt: expiresAt,
	}
	l.addToFront(e)
	l.items[key] = e
	return e
}

func (l *lruList[V]) addToFront(e *lruEntry[V]) {
	e.prev = l.head
	e.next = l.head.next
	l.head.next.prev = e
	l.head.next = e
}

func (l *lruList[V]) moveToFront(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	l.addToFront(e)
}

func (l *lruList[V]) remove(e *lruEntry[V]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev, e.next = nil, nil
	delete(l.items, e.key)
}

// oldest returns the least recently used entry, or nil when empty.
func (l *lruList[V]) oldest() *lruEntry[V] {
	if l.tail.prev == l.head {
		return nil
	}
	return l.tail.prev
}

// removeExpired drops every entry that is stale at now, walking from the
// least recently used end, and returns the number removed.
func (l *lruList[V]) removeExpired(now time.Time) int {
	removed := 0
	for e := l.tail.prev; e != l.head; {
		prev := e.prev
		if !e.fresh(now) {
			l.remove(e)
			removed++
		}
		e = prev
	}
	return removed
}

// removeIf drops every entry whose key satisfies match.
func (l *lruList[V]) removeIf(match func(key string) bool) int {
	removed := 0
	for e := l.head.next; e != l.tail; {
		next := e.next
		if match(e.key) {
			l.remove(e)
			removed++
		}
		e = next
	}
	return removed
}

func (l *lruList[V]) clear() int {
	n := len(l.items)
	l.items = make(map[string]*lruEntry[V], n)
	l.head.next = l.tail
	l.tail.prev = l.head
	return n
}
