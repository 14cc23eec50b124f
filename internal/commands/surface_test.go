// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"fmt"
)

// fakeSurface is an in-memory editing surface. Block actions move the caret
// into a fresh node, as a real editor does when it inserts a block.
type fakeSurface struct {
	nodes    map[int]string
	node     int
	offset   int
	hasCaret bool
	nextNode int

	applied   []Action
	applyErr  error
	insertErr error
}

func newFakeSurface(text string) *fakeSurface {
	n := len([]rune(text))
	return &fakeSurface{
		nodes:    map[int]string{1: text},
		node:     1,
		offset:   n,
		hasCaret: true,
		nextNode: 2,
	}
}

func (f *fakeSurface) Caret() (int, int, bool) {
	if !f.hasCaret {
		return 0, 0, false
	}
	return f.node, f.offset, true
}

func (f *fakeSurface) Text(node int) (string, bool) {
	text, ok := f.nodes[node]
	return text, ok
}

func (f *fakeSurface) SetText(node int, text string) error {
	if _, ok := f.nodes[node]; !ok {
		return fmt.Errorf("node %d: not found", node)
	}
	f.nodes[node] = text
	return nil
}

func (f *fakeSurface) SetCaret(node, offset int) error {
	text, ok := f.nodes[node]
	if !ok {
		return fmt.Errorf("node %d: not found", node)
	}
	if offset < 0 || offset > len([]rune(text)) {
		return fmt.Errorf("offset %d out of range", offset)
	}
	f.node, f.offset, f.hasCaret = node, offset, true
	return nil
}

func (f *fakeSurface) InsertText(text string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if !f.hasCaret {
		return errors.New("no caret")
	}
	runes := []rune(f.nodes[f.node])
	ins := []rune(text)
	out := make([]rune, 0, len(runes)+len(ins))
	out = append(out, runes[:f.offset]...)
	out = append(out, ins...)
	out = append(out, runes[f.offset:]...)
	f.nodes[f.node] = string(out)
	f.offset += len(ins)
	return nil
}

func (f *fakeSurface) Apply(a Action) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = append(f.applied, a)
	if !a.IsInline() {
		f.nodes[f.nextNode] = ""
		f.node, f.offset = f.nextNode, 0
		f.nextNode++
	}
	return nil
}

// typeText types at the caret, as a user would.
func (f *fakeSurface) typeText(text string) {
	_ = f.InsertText(text)
}

// testRegistry is a small catalog used by the resolver scenarios.
func testRegistry() *Registry {
	return MustRegistry(
		&Command{Name: "bold", Description: "Start bold text", Action: Action{Kind: ActionBold}},
		&Command{Name: "bullet", Description: "Add a bullet point", Action: Action{Kind: ActionBullet}},
		&Command{Name: "color", Description: "Start colored text", Subcommands: []SubCommand{
			{Name: "red", Description: "Set text color to red", Action: Action{Kind: ActionColor, Color: "red"}},
			{Name: "blue", Description: "Set text color to blue", Action: Action{Kind: ActionColor, Color: "blue"}},
			{Name: "green", Description: "Set text color to green", Action: Action{Kind: ActionColor, Color: "green"}},
		}},
		&Command{Name: "quote", Description: "Start a quote block", Action: Action{Kind: ActionQuote}},
	)
}
