// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"
)

func TestMarkdownRendererFallsBackOnRawText(t *testing.T) {
	mr := newMarkdownRenderer(60)
	out := mr.Render("plain sentence with **bold** text")
	if out == "" {
		t.Fatal("renderer returned empty output")
	}
	if !strings.Contains(out, "bold") {
		t.Errorf("rendered output lost content: %q", out)
	}
}

func TestMarkdownRendererSetWidthClamps(t *testing.T) {
	mr := newMarkdownRenderer(60)
	mr.SetWidth(5)
	if mr.width < 20 {
		t.Errorf("width = %d, want clamped to 20", mr.width)
	}
}

func TestShortID(t *testing.T) {
	if s := shortID("0123456789abcdef"); s != "01234567" {
		t.Errorf("shortID = %q", s)
	}
	if s := shortID("abc"); s != "abc" {
		t.Errorf("shortID short input = %q", s)
	}
}
