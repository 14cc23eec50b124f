// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"errors"
	"reflect"
	"testing"
)

func TestIsCommand(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"/bold", true},
		{"/color red", true},
		{"  /bold", true},
		{"hello", false},
		{"hello /bold", false},
		{"", false},
		{"/", true},
	}

	for _, tc := range tests {
		got := IsCommand(tc.input)
		if got != tc.want {
			t.Errorf("IsCommand(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParserParse(t *testing.T) {
	p := NewParser(DefaultRegistry())

	tests := []struct {
		input       string
		wantCommand bool
		wantAction  Action
		wantText    string
		wantErr     bool
	}{
		{"hello world", false, Action{}, "hello world", false},
		{"/bold", true, Action{Kind: ActionBold}, "", false},
		{"/BOLD shout", true, Action{Kind: ActionBold}, "shout", false},
		{"/h2 Title here", true, Action{Kind: ActionHeading, Level: 2}, "Title here", false},
		{"/color red warm words", true, Action{Kind: ActionColor, Color: "red"}, "warm words", false},
		{"/size  huge", true, Action{Kind: ActionSize, Size: "huge"}, "", false},
		{"/color", true, Action{}, "", true},
		{"/color pink", true, Action{}, "", true},
		{"/nope", true, Action{}, "", true},
		{"/", true, Action{}, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			res := p.Parse(tc.input)
			if res.IsCommand != tc.wantCommand {
				t.Errorf("IsCommand = %v, want %v", res.IsCommand, tc.wantCommand)
			}
			if (res.Err != nil) != tc.wantErr {
				t.Fatalf("Err = %v, wantErr %v", res.Err, tc.wantErr)
			}
			if res.Err != nil {
				return
			}
			if res.Suggestion.Action != tc.wantAction {
				t.Errorf("Action = %v, want %v", res.Suggestion.Action, tc.wantAction)
			}
			if res.Text != tc.wantText {
				t.Errorf("Text = %q, want %q", res.Text, tc.wantText)
			}
		})
	}
}

func TestParserUnknownIsSentinel(t *testing.T) {
	res := NewParser(DefaultRegistry()).Parse("/nope")
	if !errors.Is(res.Err, ErrUnknownCommand) {
		t.Errorf("Err = %v, want ErrUnknownCommand", res.Err)
	}
}

func TestParserComplete(t *testing.T) {
	p := NewParser(testRegistry())

	tests := []struct {
		line string
		want []string
	}{
		{"/bo", []string{"/bold "}},
		{"/co", []string{"/color "}},
		{"text /color g", []string{"text /color green "}},
		{"/xyz", []string{}},
		{"no command", nil},
	}

	for _, tc := range tests {
		got := p.Complete(tc.line)
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("Complete(%q) = %q, want %q", tc.line, got, tc.want)
		}
	}
}
