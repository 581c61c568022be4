//
// Tencent is pleased to support the open source community by making trpc-conversation-go available.
//
// Copyright (C) 2026 Tencent.  All rights reserved.
//
// trpc-conversation-go is licensed under the Apache License Version 2.0.
//
//

package skill

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Register(t *testing.T) {
	r := NewRegistry()

	require.NoError(t, r.Register(&Skill{Name: "git", Keywords: []string{"git"}, Content: "git tips"}))

	t.Run("Duplicate", func(t *testing.T) {
		err := r.Register(&Skill{Name: "git", Keywords: []string{"commit"}})
		assert.Error(t, err)
	})

	t.Run("EmptyName", func(t *testing.T) {
		assert.Error(t, r.Register(&Skill{}))
		assert.Error(t, r.Register(nil))
	})
}

func TestRegistry_Match(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Skill{Name: "git", Keywords: []string{"git", "rebase"}, Content: "git tips"}))
	require.NoError(t, r.Register(&Skill{Name: "docker", Keywords: []string{"docker", "container image"}, Content: "docker tips"}))

	none := map[string]struct{}{}

	t.Run("SingleWordKeyword", func(t *testing.T) {
		hits := r.Match("how do I rebase my branch", none)
		require.Len(t, hits, 1)
		assert.Equal(t, "git", hits[0].Name)
	})

	t.Run("CaseInsensitive", func(t *testing.T) {
		hits := r.Match("explain GIT to me", none)
		require.Len(t, hits, 1)
		assert.Equal(t, "git", hits[0].Name)
	})

	t.Run("PhraseKeyword", func(t *testing.T) {
		hits := r.Match("shrink my container image please", none)
		require.Len(t, hits, 1)
		assert.Equal(t, "docker", hits[0].Name)
	})

	t.Run("WordBoundary", func(t *testing.T) {
		// "digital" contains "git" but is not the word "git".
		hits := r.Match("digital gardening", none)
		assert.Empty(t, hits)
	})

	t.Run("MultipleMatchesInRegistrationOrder", func(t *testing.T) {
		hits := r.Match("run git inside docker", none)
		require.Len(t, hits, 2)
		assert.Equal(t, "git", hits[0].Name)
		assert.Equal(t, "docker", hits[1].Name)
	})

	t.Run("AlreadyActivatedSkipped", func(t *testing.T) {
		activated := map[string]struct{}{"git": {}}
		hits := r.Match("git and docker", activated)
		require.Len(t, hits, 1)
		assert.Equal(t, "docker", hits[0].Name)
	})

	t.Run("NoMatch", func(t *testing.T) {
		assert.Empty(t, r.Match("hello there", none))
	})
}
