package parser_test

import (
	"testing"

	"github.com/lookbusy1344/z33-asm/parser"
)

func TestProcessEscapeSequences(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"newline", "hello\\nworld", "hello\nworld"},
		{"tab", "hello\\tworld", "hello\tworld"},
		{"carriage return", "hello\\rworld", "hello\rworld"},
		{"backslash", "hello\\\\world", "hello\\world"},
		{"double quote", "hello\\\"world", "hello\"world"},
		{"multiple", "\\n\\t\\r", "\n\t\r"},
		{"empty string", "", ""},
		{"no escapes", "hello world", "hello world"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parser.ProcessEscapeSequences(tt.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != tt.expected {
				t.Errorf("ProcessEscapeSequences(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestProcessEscapeSequencesRejectsUnknownEscape(t *testing.T) {
	_, err := parser.ProcessEscapeSequences("hello\\zworld")
	if err == nil {
		t.Fatal("expected an error for an unsupported escape sequence")
	}
}

func TestProcessEscapeSequencesRejectsTrailingBackslash(t *testing.T) {
	_, err := parser.ProcessEscapeSequences("hello\\")
	if err == nil {
		t.Fatal("expected an error for a trailing, incomplete escape sequence")
	}
}
