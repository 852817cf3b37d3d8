package language

import (
	"strings"
	"testing"
)

func Test_IsBinaryContent_Text(t *testing.T) {
	content := []byte("<?php\necho \"Grüße aus dem Playground\";\n")
	if IsBinaryContent(content) {
		t.Error("expected PHP source to be treated as text")
	}
}

func Test_IsBinaryContent_NullByte(t *testing.T) {
	content := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00}
	if !IsBinaryContent(content) {
		t.Error("expected PNG header to be treated as binary")
	}
}

func Test_IsBinaryContent_InvalidUTF8(t *testing.T) {
	content := []byte{'a', 'b', 0xff, 0xfe, 'c'}
	if !IsBinaryContent(content) {
		t.Error("expected invalid UTF-8 to be treated as binary")
	}
}

func Test_IsBinaryContent_Empty(t *testing.T) {
	if IsBinaryContent(nil) {
		t.Error("expected empty content to be treated as text")
	}
}

func Test_IsBinaryContent_RuneCutAtSniffBoundary(t *testing.T) {
	content := []byte(strings.Repeat("a", sniffSize-1) + "ü and more text")
	if IsBinaryContent(content) {
		t.Error("expected a rune split by the sniff window to be ignored")
	}
}
