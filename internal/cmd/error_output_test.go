package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/salmonumbrella/pci-table/internal/output"
	"github.com/salmonumbrella/pci-table/internal/pciids"
	"github.com/salmonumbrella/pci-table/internal/table"
)

func TestValidateErrorFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"auto", false},
		{"text", false},
		{"json", false},
		{"yaml", false},
		{"AUTO", false},   // case insensitive
		{"TEXT", false},   // case insensitive
		{" json ", false}, // whitespace trimmed
		{"invalid", true},
		{"xml", true},
		{"ndjson", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateErrorFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateErrorFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveErrorFormat(t *testing.T) {
	tests := []struct {
		name         string
		errorFormat  string
		outputFormat output.Format
		want         string
	}{
		{
			name:         "empty defaults to text",
			errorFormat:  "",
			outputFormat: output.FormatText,
			want:         "text",
		},
		{
			name:         "auto with json output",
			errorFormat:  "auto",
			outputFormat: output.FormatJSON,
			want:         "json",
		},
		{
			name:         "auto with ndjson output",
			errorFormat:  "auto",
			outputFormat: output.FormatNDJSON,
			want:         "json",
		},
		{
			name:         "auto with yaml output",
			errorFormat:  "auto",
			outputFormat: output.FormatYAML,
			want:         "yaml",
		},
		{
			name:         "auto with text output",
			errorFormat:  "auto",
			outputFormat: output.FormatText,
			want:         "text",
		},
		{
			name:         "explicit json overrides",
			errorFormat:  "json",
			outputFormat: output.FormatText,
			want:         "json",
		},
		{
			name:         "explicit yaml overrides",
			errorFormat:  "yaml",
			outputFormat: output.FormatText,
			want:         "yaml",
		},
		{
			name:         "explicit text overrides",
			errorFormat:  "text",
			outputFormat: output.FormatJSON,
			want:         "text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			ctx = WithErrorFormat(ctx, tt.errorFormat)
			ctx = output.WithFormat(ctx, tt.outputFormat)

			got := effectiveErrorFormat(ctx)
			if got != tt.want {
				t.Errorf("effectiveErrorFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildErrorEnvelope(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantType     string
		wantCategory string
	}{
		{
			name:         "generic error",
			err:          errors.New("something went wrong"),
			wantType:     "error",
			wantCategory: "system",
		},
		{
			name:         "usage error",
			err:          usageError{msg: "unknown table kind"},
			wantType:     "usage",
			wantCategory: "user",
		},
		{
			name:         "parse error",
			err:          &pciids.ParseError{Line: 3, Text: "\tbroken", Err: pciids.ErrFields},
			wantType:     "parse",
			wantCategory: "input",
		},
		{
			name:         "structure error",
			err:          &pciids.ParseError{Line: 1, Text: "\t06  PCI bridge", Err: pciids.ErrOrphan},
			wantType:     "structure",
			wantCategory: "input",
		},
		{
			name:         "wrapped parse error",
			err:          fmt.Errorf("pci_devices.txt: %w", &pciids.ParseError{Line: 9, Text: "zz  Bad", Err: pciids.ErrCode}),
			wantType:     "parse",
			wantCategory: "input",
		},
		{
			name:         "empty class error",
			err:          &table.EmptyClassError{Code: 0x12, Name: "Processing accelerators"},
			wantType:     "empty_class",
			wantCategory: "input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildErrorEnvelope(tt.err)

			errMap, ok := result["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected 'error' map in result")
			}

			if errMap["message"] != tt.err.Error() {
				t.Errorf("message = %v, want %v", errMap["message"], tt.err.Error())
			}

			if errMap["type"] != tt.wantType {
				t.Errorf("type = %v, want %v", errMap["type"], tt.wantType)
			}

			if errMap["category"] != tt.wantCategory {
				t.Errorf("category = %v, want %v", errMap["category"], tt.wantCategory)
			}
		})
	}
}

func TestBuildErrorEnvelope_ParseDetails(t *testing.T) {
	result := buildErrorEnvelope(&pciids.ParseError{Line: 3, Text: "\tbroken", Err: pciids.ErrFields})
	errMap := result["error"].(map[string]interface{})

	if errMap["line"] != 3 {
		t.Errorf("line = %v, want 3", errMap["line"])
	}
	if errMap["text"] != "\tbroken" {
		t.Errorf("text = %q, want raw line", errMap["text"])
	}
}

func TestBuildErrorEnvelope_EmptyClassCode(t *testing.T) {
	result := buildErrorEnvelope(&table.EmptyClassError{Code: 0x0b, Name: "Processor"})
	errMap := result["error"].(map[string]interface{})

	if errMap["class"] != "0b" {
		t.Errorf("class = %v, want 0b", errMap["class"])
	}
}

func TestPrintCommandError_Nil(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), &bytes.Buffer{}, &bytes.Buffer{}, errBuf)

	printCommandError(ctx, nil)

	if errBuf.Len() != 0 {
		t.Errorf("expected no output for nil error, got %q", errBuf.String())
	}
}

func TestPrintCommandError_Text(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "text")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := errors.New("test error message")
	printCommandError(ctx, testErr)

	got := strings.TrimSpace(errBuf.String())
	if got != "error: test error message" {
		t.Errorf("expected %q, got %q", "error: test error message", got)
	}
}

func TestPrintCommandError_JSON(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "json")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := usageError{msg: "bad kind"}
	printCommandError(ctx, testErr)

	var result map[string]interface{}
	if err := json.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON output: %v", err)
	}

	errMap, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'error' map in output")
	}

	if errMap["message"] != "bad kind" {
		t.Errorf("message = %v, want 'bad kind'", errMap["message"])
	}
	if errMap["type"] != "usage" {
		t.Errorf("type = %v, want 'usage'", errMap["type"])
	}
}

func TestPrintCommandError_YAML(t *testing.T) {
	errBuf := &bytes.Buffer{}
	ctx := context.Background()
	ctx = withIO(ctx, &bytes.Buffer{}, &bytes.Buffer{}, errBuf)
	ctx = WithErrorFormat(ctx, "yaml")
	ctx = output.WithFormat(ctx, output.FormatText)

	testErr := &table.EmptyClassError{Code: 0x12, Name: "Accelerators"}
	printCommandError(ctx, testErr)

	var result map[string]interface{}
	if err := yaml.Unmarshal(errBuf.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse YAML output: %v", err)
	}

	errMap, ok := result["error"].(map[string]interface{})
	if !ok {
		t.Fatal("expected 'error' map in output")
	}

	if errMap["type"] != "empty_class" {
		t.Errorf("type = %v, want 'empty_class'", errMap["type"])
	}
	if errMap["class"] != "12" {
		t.Errorf("class = %v, want '12'", errMap["class"])
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != 0 {
		t.Errorf("ExitCode(nil) = %d, want 0", got)
	}
	if got := ExitCode(usageError{msg: "x"}); got != 2 {
		t.Errorf("ExitCode(usage) = %d, want 2", got)
	}
	if got := ExitCode(fmt.Errorf("wrapped: %w", usageError{msg: "x"})); got != 2 {
		t.Errorf("ExitCode(wrapped usage) = %d, want 2", got)
	}
	if got := ExitCode(errors.New("boom")); got != 1 {
		t.Errorf("ExitCode(other) = %d, want 1", got)
	}
}
