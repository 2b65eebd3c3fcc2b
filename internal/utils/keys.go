package utils

import "strings"

// NoteKeyPrefix is the namespace for persisted call-note records.
const NoteKeyPrefix = "wolf-den-call-notes-"

// SanitizeKey replaces every character outside [A-Za-z0-9-_] with a dash so
// the result is always safe to use as a storage key segment.
func SanitizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}

// NoteKey builds the durable storage key for a prospect's call notes.
func NoteKey(companyName, contactName string) string {
	return NoteKeyPrefix + SanitizeKey(companyName) + "-" + SanitizeKey(contactName)
}

// LeadID derives the stable lead identifier for a prospect. Identity is the
// (company, contact) pair, not a surrogate key.
func LeadID(companyName, contactName string) string {
	return SanitizeKey(companyName) + "-" + SanitizeKey(contactName)
}
