// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteHelloBold(t *testing.T) {
	s := newFakeSurface("Hello /b")
	tok, ok := Locate(s)
	require.True(t, ok)

	items := Resolve(testRegistry(), tok)
	require.NotEmpty(t, items)
	require.Equal(t, "bold", items[0].DisplayName)

	require.NoError(t, Execute(s, tok, items[0]))

	text, _ := s.Text(1)
	assert.Equal(t, "Hello  ", text)
	assert.NotContains(t, text, "/b")
	assert.Equal(t, []Action{{Kind: ActionBold}}, s.applied)

	// The rune before the caret is the inserted space.
	runes := []rune(text)
	require.Equal(t, 1, s.node)
	assert.Equal(t, ' ', runes[s.offset-1])
	assert.Equal(t, len(runes), s.offset)
}

func TestExecuteKeepsTextAfterCaret(t *testing.T) {
	s := newFakeSurface("one /bo two")
	require.NoError(t, s.SetCaret(1, 7))

	tok, ok := Locate(s)
	require.True(t, ok)
	require.Equal(t, "bo", tok.Raw)

	items := Resolve(testRegistry(), tok)
	require.NoError(t, Execute(s, tok, items[0]))

	text, _ := s.Text(1)
	assert.Equal(t, "one   two", text)
	assert.Equal(t, 5, s.offset)
}

func TestExecuteBlockActionMovesCaret(t *testing.T) {
	s := newFakeSurface("Intro /quo")
	tok, _ := Locate(s)
	items := Resolve(testRegistry(), tok)
	require.Len(t, items, 1)

	require.NoError(t, Execute(s, tok, items[0]))

	text, _ := s.Text(1)
	assert.Equal(t, "Intro ", text)
	assert.Equal(t, 2, s.node, "caret should be in the new block")
	newText, _ := s.Text(2)
	assert.Equal(t, " ", newText)
	assert.Equal(t, 1, s.offset)
}

func TestExecuteBoundaryLost(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *fakeSurface)
	}{
		{"slash deleted", func(s *fakeSurface) { s.nodes[1] = "Hello b" }},
		{"token edited", func(s *fakeSurface) { s.nodes[1] = "Hello /x" }},
		{"text shortened", func(s *fakeSurface) { s.nodes[1] = "Hi" }},
		{"node removed", func(s *fakeSurface) { delete(s.nodes, 1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newFakeSurface("Hello /b")
			tok, _ := Locate(s)
			sug := Resolve(testRegistry(), tok)[0]

			tt.mutate(s)
			before := map[int]string{}
			for k, v := range s.nodes {
				before[k] = v
			}

			err := Execute(s, tok, sug)
			assert.True(t, errors.Is(err, ErrTokenBoundaryLost), "err = %v", err)
			assert.Equal(t, before, s.nodes, "document must be untouched")
			assert.Empty(t, s.applied)
		})
	}
}

func TestExecuteRollsBackOnFailure(t *testing.T) {
	t.Run("apply fails", func(t *testing.T) {
		s := newFakeSurface("Hello /b")
		s.applyErr = errors.New("boom")
		tok, _ := Locate(s)

		err := Execute(s, tok, Resolve(testRegistry(), tok)[0])
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")

		text, _ := s.Text(1)
		assert.Equal(t, "Hello /b", text)
		assert.Equal(t, 8, s.offset)
	})

	t.Run("insert fails", func(t *testing.T) {
		s := newFakeSurface("Hello /b")
		s.insertErr = errors.New("read only")
		tok, _ := Locate(s)

		err := Execute(s, tok, Resolve(testRegistry(), tok)[0])
		require.Error(t, err)

		text, _ := s.Text(1)
		assert.Equal(t, "Hello /b", text)
	})
}

func TestExecuteRejectsActionless(t *testing.T) {
	s := newFakeSurface("/co")
	tok, _ := Locate(s)
	items := Resolve(testRegistry(), tok)
	require.Len(t, items, 1)

	err := Execute(s, tok, items[0])
	require.Error(t, err)
	text, _ := s.Text(1)
	assert.Equal(t, "/co", text)
}

func TestDescend(t *testing.T) {
	s := newFakeSurface("Note /co")
	tok, _ := Locate(s)
	items := Resolve(testRegistry(), tok)
	require.True(t, items[0].Descends())

	require.NoError(t, Descend(s, tok, items[0].Command))

	text, _ := s.Text(1)
	assert.Equal(t, "Note /color ", text)
	assert.Equal(t, len([]rune(text)), s.offset)

	tok, ok := Locate(s)
	require.True(t, ok)
	assert.Equal(t, []string{"color red", "color blue", "color green"}, displayNames(Resolve(testRegistry(), tok)))
}

func TestExecuteNoResidualToken(t *testing.T) {
	reg := DefaultRegistry()
	for _, cmd := range reg.All() {
		if cmd.HasSubcommands() {
			continue
		}
		s := newFakeSurface("x /" + cmd.Name)
		tok, _ := Locate(s)
		sug := commandSuggestion(cmd)
		if err := Execute(s, tok, sug); err != nil {
			t.Errorf("%s: %v", cmd.Name, err)
			continue
		}
		for id, text := range s.nodes {
			if strings.Contains(text, "/"+cmd.Name) {
				t.Errorf("%s: node %d still holds %q", cmd.Name, id, text)
			}
		}
		caretText := []rune(s.nodes[s.node])
		if s.offset == 0 || caretText[s.offset-1] != ' ' {
			t.Errorf("%s: no space before caret in %q", cmd.Name, string(caretText))
		}
	}
}
