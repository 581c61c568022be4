//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

// Package skill provides keyword-triggered knowledge skills. When a user
// message mentions one of a skill's keywords, the skill's content is
// appended to the message before it reaches the model. Each skill
// activates at most once per conversation.
package skill

import (
	"fmt"
	"strings"
	"sync"
	"unicode"
)

// Skill is a named block of knowledge with trigger keywords.
type Skill struct {
	// Name uniquely identifies the skill within a registry.
	Name string `json:"name"`

	// Description explains what the skill contributes.
	Description string `json:"description,omitempty"`

	// Keywords trigger the skill. Matching is case-insensitive; single
	// words match on word boundaries, phrases match as substrings.
	Keywords []string `json:"keywords"`

	// Content is the text injected into the triggering message.
	Content string `json:"content"`
}

// Registry holds skills in registration order.
type Registry struct {
	mu     sync.RWMutex
	skills []*Skill
	byName map[string]*Skill
}

// NewRegistry creates an empty skill registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Skill)}
}

// Register adds a skill. Duplicate names are rejected.
func (r *Registry) Register(s *Skill) error {
	if s == nil || s.Name == "" {
		return fmt.Errorf("cannot register skill without a name")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[s.Name]; ok {
		return fmt.Errorf("skill %q is already registered", s.Name)
	}
	r.skills = append(r.skills, s)
	r.byName[s.Name] = s
	return nil
}

// Match returns the skills triggered by text that are not in activated,
// in registration order.
func (r *Registry) Match(text string, activated map[string]struct{}) []*Skill {
	lower := strings.ToLower(text)
	words := wordSet(lower)

	r.mu.RLock()
	defer r.mu.RUnlock()
	var hits []*Skill
	for _, s := range r.skills {
		if _, done := activated[s.Name]; done {
			continue
		}
		if triggered(s, lower, words) {
			hits = append(hits, s)
		}
	}
	return hits
}

func triggered(s *Skill, lowerText string, words map[string]struct{}) bool {
	for _, kw := range s.Keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		if strings.ContainsRune(kw, ' ') {
			if strings.Contains(lowerText, kw) {
				return true
			}
			continue
		}
		if _, ok := words[kw]; ok {
			return true
		}
	}
	return false
}

func wordSet(lower string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '_' && r != '-'
	}) {
		words[w] = struct{}{}
	}
	return words
}
