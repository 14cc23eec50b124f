// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package document

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/webnote/internal/commands"
)

func kinds(d *Document) []BlockKind {
	var out []BlockKind
	for _, b := range d.Blocks() {
		out = append(out, b.Kind)
	}
	return out
}

func typeText(t *testing.T, d *Document, text string) {
	t.Helper()
	require.NoError(t, d.InsertText(text))
}

// =============================================================================
// SURFACE TESTS
// =============================================================================

func TestInsertAndCaret(t *testing.T) {
	d := New()
	typeText(t, d, "héllo")

	node, off, ok := d.Caret()
	require.True(t, ok)
	assert.Equal(t, 5, off)
	text, ok := d.Text(node)
	require.True(t, ok)
	assert.Equal(t, "héllo", text)

	require.NoError(t, d.SetCaret(node, 1))
	typeText(t, d, "X")
	assert.Equal(t, "hXéllo", d.PlainText())

	assert.Error(t, d.SetCaret(node, 99))
	assert.ErrorIs(t, d.SetCaret(999, 0), ErrNoRun)
	assert.ErrorIs(t, d.SetText(999, ""), ErrNoRun)
}

func TestSetTextClampsCaret(t *testing.T) {
	d := New()
	typeText(t, d, "Hello /b")
	node, _, _ := d.Caret()

	require.NoError(t, d.SetText(node, "Hi"))
	_, off, _ := d.Caret()
	assert.Equal(t, 2, off)
}

func TestRevIncreasesOnMutation(t *testing.T) {
	d := New()
	r0 := d.Rev()
	typeText(t, d, "a")
	r1 := d.Rev()
	assert.Greater(t, r1, r0)

	d.Left()
	assert.Equal(t, r1, d.Rev(), "caret movement is not a mutation")

	d.Newline()
	assert.Greater(t, d.Rev(), r1)
}

// =============================================================================
// FORMATTING TESTS
// =============================================================================

func TestApplyInlineStartsStyledRun(t *testing.T) {
	d := New()
	typeText(t, d, "plain ")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionBold}))
	typeText(t, d, "bold")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionColor, Color: "red"}))
	typeText(t, d, "red")

	runs := d.Blocks()[0].Runs
	require.Len(t, runs, 3)
	assert.Equal(t, "plain ", runs[0].Text)
	assert.True(t, runs[0].Style.IsPlain())
	assert.Equal(t, "bold", runs[1].Text)
	assert.Equal(t, Style{Bold: true}, runs[1].Style)
	assert.Equal(t, "red", runs[2].Text)
	assert.Equal(t, Style{Bold: true, Color: "red"}, runs[2].Style)
}

func TestApplyInlineTogglesOff(t *testing.T) {
	d := New()
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionBold}))
	typeText(t, d, "on")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionBold}))
	typeText(t, d, "off")

	runs := d.Blocks()[0].Runs
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Style.Bold)
	assert.False(t, runs[1].Style.Bold)
}

func TestApplyInlineMidRunSplits(t *testing.T) {
	d := New()
	typeText(t, d, "abcd")
	node, _, _ := d.Caret()
	require.NoError(t, d.SetCaret(node, 2))
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionItalic}))
	typeText(t, d, "X")

	runs := d.Blocks()[0].Runs
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"ab", "X", "cd"}, []string{runs[0].Text, runs[1].Text, runs[2].Text})
	assert.True(t, runs[1].Style.Italic)
	assert.Equal(t, "abXcd", d.PlainText())
}

func TestApplyBlockActions(t *testing.T) {
	tests := []struct {
		action commands.Action
		kind   BlockKind
		level  int
	}{
		{commands.Action{Kind: commands.ActionHeading, Level: 2}, Heading, 2},
		{commands.Action{Kind: commands.ActionBullet}, Bullet, 0},
		{commands.Action{Kind: commands.ActionNumbered}, Numbered, 0},
		{commands.Action{Kind: commands.ActionQuote}, Quote, 0},
		{commands.Action{Kind: commands.ActionCode}, Code, 0},
		{commands.Action{Kind: commands.ActionCheckbox}, Checkbox, 0},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			d := New()
			require.NoError(t, d.Apply(tt.action))
			require.Equal(t, []BlockKind{tt.kind}, kinds(d), "empty paragraph converts in place")
			assert.Equal(t, tt.level, d.Blocks()[0].Level)

			d = New()
			typeText(t, d, "intro")
			require.NoError(t, d.Apply(tt.action))
			typeText(t, d, "body")
			assert.Equal(t, []BlockKind{Paragraph, tt.kind}, kinds(d))
			assert.Equal(t, "intro\nbody", d.PlainText())
		})
	}
}

func TestApplyBlockSplitsAtCaret(t *testing.T) {
	d := New()
	typeText(t, d, "before after")
	node, _, _ := d.Caret()
	require.NoError(t, d.SetCaret(node, 7))
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionQuote}))

	blocks := d.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "before ", blocks[0].Text())
	assert.Equal(t, "after", blocks[1].Text())
	assert.Equal(t, Quote, blocks[1].Kind)

	bi, col := d.CaretBlock()
	assert.Equal(t, 1, bi)
	assert.Equal(t, 0, col)
}

func TestApplyEnd(t *testing.T) {
	d := New()
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionCheckbox}))
	require.True(t, d.CheckboxMode())
	typeText(t, d, "task")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionBold}))

	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionEnd}))
	assert.False(t, d.CheckboxMode())
	assert.Equal(t, []BlockKind{Checkbox, Paragraph}, kinds(d))
	assert.True(t, d.CaretStyle().IsPlain())
}

func TestApplyRejectsBadAction(t *testing.T) {
	d := New()
	assert.Error(t, d.Apply(commands.Action{}))
	assert.Error(t, d.Apply(commands.Action{Kind: commands.ActionHeading, Level: 7}))
}

// =============================================================================
// EDITING TESTS
// =============================================================================

func TestNewlineContinuesKind(t *testing.T) {
	tests := []struct {
		kind BlockKind
		next BlockKind
	}{
		{Paragraph, Paragraph},
		{Heading, Paragraph},
		{Bullet, Bullet},
		{Numbered, Numbered},
		{Quote, Quote},
		{Code, Code},
		{Checkbox, Checkbox},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			d := New()
			d.blocks[0].Kind = tt.kind
			if tt.kind == Heading {
				d.blocks[0].Level = 1
			}
			typeText(t, d, "x")
			d.Newline()
			assert.Equal(t, []BlockKind{tt.kind, tt.next}, kinds(d))
		})
	}
}

func TestCheckboxListFlow(t *testing.T) {
	d := New()
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionCheckbox}))
	typeText(t, d, "one\ntwo\n")
	assert.Equal(t, []BlockKind{Checkbox, Checkbox, Checkbox}, kinds(d))
	assert.True(t, d.CheckboxMode())

	// Enter on the empty item ends the list.
	d.Newline()
	assert.Equal(t, []BlockKind{Checkbox, Checkbox, Paragraph}, kinds(d))
	assert.False(t, d.CheckboxMode())

	assert.True(t, d.ToggleCheckbox(1))
	assert.True(t, d.Blocks()[1].Checked)
	assert.False(t, d.ToggleCheckbox(2))
}

func TestBackspaceRemovesEmptyCheckbox(t *testing.T) {
	d := New()
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionCheckbox}))
	typeText(t, d, "one\n")
	require.Len(t, d.Blocks(), 2)

	d.Backspace()
	assert.Equal(t, []BlockKind{Checkbox}, kinds(d))
	bi, col := d.CaretBlock()
	assert.Equal(t, 0, bi)
	assert.Equal(t, 3, col)
}

func TestBackspace(t *testing.T) {
	d := New()
	typeText(t, d, "ab\ncd")
	d.Home()

	d.Backspace()
	assert.Equal(t, "abcd", d.PlainText())
	_, col := d.CaretBlock()
	assert.Equal(t, 2, col)

	d.Backspace()
	assert.Equal(t, "acd", d.PlainText())

	d.Home()
	d.Backspace()
	assert.Equal(t, "acd", d.PlainText(), "backspace at document start is a no-op")
}

func TestBackspaceConvertsBlock(t *testing.T) {
	d := New()
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionHeading, Level: 1}))
	typeText(t, d, "Title")
	d.Home()
	d.Backspace()
	assert.Equal(t, []BlockKind{Paragraph}, kinds(d))
	assert.Equal(t, "Title", d.PlainText())
}

func TestDelete(t *testing.T) {
	d := New()
	typeText(t, d, "ab\ncd")
	d.Up()
	d.End()

	d.Delete()
	assert.Equal(t, "abcd", d.PlainText())
	d.Delete()
	assert.Equal(t, "abd", d.PlainText())
}

func TestCaretMovement(t *testing.T) {
	d := New()
	typeText(t, d, "hello\nhi")

	bi, col := d.CaretBlock()
	assert.Equal(t, [2]int{1, 2}, [2]int{bi, col})

	d.Up()
	bi, col = d.CaretBlock()
	assert.Equal(t, [2]int{0, 2}, [2]int{bi, col})

	d.End()
	d.Right()
	bi, col = d.CaretBlock()
	assert.Equal(t, [2]int{1, 0}, [2]int{bi, col})

	d.Left()
	bi, col = d.CaretBlock()
	assert.Equal(t, [2]int{0, 5}, [2]int{bi, col})

	d.Down()
	bi, col = d.CaretBlock()
	assert.Equal(t, [2]int{1, 2}, [2]int{bi, col}, "column clamps to shorter block")

	d.SetCaretAt(9, 9)
	bi, col = d.CaretBlock()
	assert.Equal(t, [2]int{1, 2}, [2]int{bi, col})
}

func TestNumbering(t *testing.T) {
	blocks := []Block{
		{Kind: Numbered}, {Kind: Numbered}, {Kind: Paragraph}, {Kind: Numbered}, {Kind: Numbered}, {Kind: Numbered},
	}
	want := []int{1, 2, 0, 1, 2, 3}
	for i, w := range want {
		if got := Number(blocks, i); got != w {
			t.Errorf("Number(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestTitleAndStats(t *testing.T) {
	d := New()
	assert.Equal(t, "", d.Title(20))
	assert.True(t, d.IsEmpty())

	typeText(t, d, "\n  Shopping list for the weekend  \nmilk eggs")
	assert.Equal(t, "Shopping list fo...", d.Title(19))

	words, chars := d.Stats()
	assert.Equal(t, 7, words)
	assert.Equal(t, 42, chars)
}

func TestClear(t *testing.T) {
	d := New()
	typeText(t, d, "a\nb")
	d.Clear()
	assert.True(t, d.IsEmpty())
	assert.Equal(t, 1, d.Len())
}

// =============================================================================
// JSON TESTS
// =============================================================================

func TestJSONRoundTrip(t *testing.T) {
	d := New()
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionHeading, Level: 1}))
	typeText(t, d, "Title\n")
	typeText(t, d, "plain ")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionColor, Color: "blue"}))
	typeText(t, d, "blue")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionCheckbox}))
	typeText(t, d, "todo")
	d.ToggleCheckboxAtCaret()

	data, err := json.Marshal(d)
	require.NoError(t, err)

	back, err := FromJSON(data)
	require.NoError(t, err)

	orig, got := d.Blocks(), back.Blocks()
	require.Len(t, got, len(orig))
	for i := range orig {
		assert.Equal(t, orig[i].Kind, got[i].Kind)
		assert.Equal(t, orig[i].Level, got[i].Level)
		assert.Equal(t, orig[i].Checked, got[i].Checked)
		assert.Equal(t, orig[i].Text(), got[i].Text())
	}
	assert.Equal(t, Style{Color: "blue"}, got[1].Runs[1].Style)
	assert.True(t, back.CheckboxMode())
}

func TestUnmarshalRejectsBadInput(t *testing.T) {
	_, err := FromJSON([]byte(`{"blocks":[{"kind":"table","runs":[]}]}`))
	assert.Error(t, err)

	_, err = FromJSON([]byte(`{"blocks":[{"kind":"heading","level":9,"runs":[]}]}`))
	assert.Error(t, err)

	d, err := FromJSON([]byte(`{"blocks":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
}

// =============================================================================
// COMMAND ENGINE INTEGRATION
// =============================================================================

func TestSessionHelloBold(t *testing.T) {
	d := New()
	sess := commands.NewSession(commands.DefaultRegistry(), d)

	typeText(t, d, "Hello /b")
	sess.ContentChanged()
	require.True(t, sess.Visible())
	require.Equal(t, "bold", sess.Items()[0].DisplayName)

	require.True(t, sess.HandleKey(commands.KeyEnter))
	assert.False(t, sess.Visible())
	assert.Equal(t, "Hello  ", d.PlainText())
	assert.NotContains(t, d.PlainText(), "/b")

	node, off, _ := d.Caret()
	text, _ := d.Text(node)
	assert.Equal(t, ' ', []rune(text)[off-1])
	assert.True(t, d.CaretStyle().Bold)

	typeText(t, d, "world")
	runs := d.Blocks()[0].Runs
	assert.Equal(t, " world", runs[len(runs)-1].Text)
	assert.True(t, runs[len(runs)-1].Style.Bold)
}

func TestSessionSlashInEarlierRunIsIgnored(t *testing.T) {
	d := New()
	sess := commands.NewSession(commands.DefaultRegistry(), d)

	typeText(t, d, "a /")
	require.NoError(t, d.Apply(commands.Action{Kind: commands.ActionBold}))
	typeText(t, d, "bo")
	require.Len(t, d.Blocks()[0].Runs, 2)

	_, ok := commands.Locate(d)
	assert.False(t, ok)
	sess.ContentChanged()
	assert.False(t, sess.Visible())
	assert.Equal(t, "a /bo", d.PlainText())
}

func TestSessionColorSubcommand(t *testing.T) {
	d := New()
	sess := commands.NewSession(commands.DefaultRegistry(), d)

	typeText(t, d, "/col")
	sess.ContentChanged()
	require.True(t, sess.HandleKey(commands.KeyEnter))
	assert.Equal(t, "/color ", d.PlainText())
	require.True(t, sess.Visible())

	typeText(t, d, "g")
	sess.ContentChanged()
	require.Equal(t, []string{"color green"}, []string{sess.Items()[0].DisplayName})
	require.True(t, sess.HandleKey(commands.KeyEnter))

	assert.Equal(t, " ", d.PlainText())
	assert.Equal(t, "green", d.CaretStyle().Color)
}

func TestSessionHeadingBlock(t *testing.T) {
	d := New()
	sess := commands.NewSession(commands.DefaultRegistry(), d)

	typeText(t, d, "Intro /h2")
	sess.ContentChanged()
	require.Equal(t, "h2", sess.Items()[0].DisplayName)
	require.True(t, sess.HandleKey(commands.KeyEnter))

	blocks := d.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "Intro ", blocks[0].Text())
	assert.Equal(t, Heading, blocks[1].Kind)
	assert.Equal(t, 2, blocks[1].Level)
	assert.Equal(t, " ", blocks[1].Text())
}
