// Cinerank - Content-Based Movie Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package cache

import (
	"crypto/sha256"
	"fmt"
	"slices"

	"github.com/goccy/go-json"
)

// QueryKind scopes a cache key to one kind of recommendation query.
type QueryKind string

const (
	// KindItem is an item-to-item similarity query.
	KindItem QueryKind = "item"
	// KindUser is a user-to-item personalized query.
	KindUser QueryKind = "user"
)

// Key builds the cache key for a query. The subject is length-prefixed so no
// subject id can forge the separator of another kind or subject.
//
//	rec:<kind>:<len(subject)>:<subject>:k<k>:<fingerprint>
func Key(kind QueryKind, subject string, k int, fingerprint string) string {
	return fmt.Sprintf("%s%d:%s", SubjectPrefix(kind, subject), k, fingerprint)
}

// SubjectPrefix returns the key prefix shared by every entry of one subject.
func SubjectPrefix(kind QueryKind, subject string) string {
	return fmt.Sprintf("rec:%s:%d:%s:k", kind, len(subject), subject)
}

// fingerprintInput is hashed to derive a fingerprint.
type fingerprintInput struct {
	CatalogVersion uint64   `json:"v"`
	Excluded       []string `json:"x,omitempty"`
	History        []string `json:"h,omitempty"`
}

// Fingerprint hashes the catalog version and the excluded-id set into a short
// hex string. Order of ids does not matter.
func Fingerprint(catalogVersion uint64, excluded []string) string {
	return UserFingerprint(catalogVersion, excluded, nil)
}

// UserFingerprint is Fingerprint plus an ordered digest of the history the
// profile was built from, so any new interaction yields a new key even when
// it touches an already excluded item.
func UserFingerprint(catalogVersion uint64, excluded, history []string) string {
	ids := slices.Clone(excluded)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	data, err := json.Marshal(fingerprintInput{CatalogVersion: catalogVersion, Excluded: ids, History: history})
	if err != nil {
		return fmt.Sprintf("v%d:%d:%d", catalogVersion, len(ids), len(history))
	}

	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:12])
}
