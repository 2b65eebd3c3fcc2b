package models

import (
	"strings"

	"gorm.io/gorm"
)

// Content type constants - what kind of talking point a battle card carries
const (
	ContentTypeOpener           = "opener"
	ContentTypeObjectionHandler = "objection-handler"
	ContentTypeThoughtLeader    = "thought-leadership"
)

// ValidContentTypes for request validation
var ValidContentTypes = map[string]bool{
	ContentTypeOpener:           true,
	ContentTypeObjectionHandler: true,
	ContentTypeThoughtLeader:    true,
}

// ContentItem is a battle card: a scripted talking point tagged by persona
// and type, attached to call-flow steps during step derivation
type ContentItem struct {
	gorm.Model

	Type     string `json:"type"`
	Title    string `json:"title"`
	Body     string `json:"body"`
	Personas string `json:"personas"` // comma-separated persona tags; empty matches all
	Industry string `json:"industry"`
}

// MatchesPersona reports whether this card targets the given persona.
// Untagged cards are considered generic and match everyone.
func (ci *ContentItem) MatchesPersona(persona string) bool {
	if strings.TrimSpace(ci.Personas) == "" {
		return true
	}
	for _, tag := range strings.Split(ci.Personas, ",") {
		if strings.TrimSpace(tag) == persona {
			return true
		}
	}
	return false
}
