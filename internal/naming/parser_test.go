package naming

import (
	"strings"
	"testing"
)

func TestParseResultStrictJSON(t *testing.T) {
	raw := `{"primary":{"name":"李文","explanation":"Lǐ Wén"},"alternatives":[{"name":"黎雯","explanation":"Lí Wén"}]}`

	result := ParseResult(raw)

	if result.Degraded {
		t.Fatal("expected parsed result, got degraded")
	}
	if result.Primary.Name != "李文" {
		t.Errorf("expected primary name 李文, got %q", result.Primary.Name)
	}
	if len(result.Alternatives) != 1 || result.Alternatives[0].Name != "黎雯" {
		t.Errorf("unexpected alternatives: %+v", result.Alternatives)
	}
}

func TestParseResultWithSurroundingProse(t *testing.T) {
	raw := `noise {"primary":{"name":"李文","explanation":"x"},"alternatives":[]} trailing`

	result := ParseResult(raw)

	if result.Degraded {
		t.Fatal("expected parsed result, got degraded")
	}
	if result.Primary.Name != "李文" || result.Primary.Explanation != "x" {
		t.Errorf("unexpected primary: %+v", result.Primary)
	}
	if len(result.Alternatives) != 0 {
		t.Errorf("expected empty alternatives, got %+v", result.Alternatives)
	}
}

func TestParseResultCodeFence(t *testing.T) {
	raw := "Here you go:\n```json\n{\"primary\":{\"name\":\"戴维\",\"explanation\":\"Dài Wéi\"}}\n```\nHope that helps."

	result := ParseResult(raw)

	if result.Degraded {
		t.Fatal("expected parsed result, got degraded")
	}
	if result.Primary.Name != "戴维" {
		t.Errorf("expected primary name 戴维, got %q", result.Primary.Name)
	}
	if result.Alternatives == nil {
		t.Error("alternatives should default to an empty slice, not nil")
	}
}

func TestParseResultMissingAlternatives(t *testing.T) {
	result := ParseResult(`{"primary":{"name":"凯文","explanation":"Kǎi Wén"}}`)

	if result.Degraded {
		t.Fatal("expected parsed result, got degraded")
	}
	if result.Alternatives == nil || len(result.Alternatives) != 0 {
		t.Errorf("expected empty alternatives, got %+v", result.Alternatives)
	}
}

func TestParseResultDegrades(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"plain prose", "I cannot comply."},
		{"empty", ""},
		{"unbalanced braces", `{"primary":{"name":"李文"`},
		{"wrong shape", `{"answer":42}`},
		{"primary not object", `{"primary":"李文"}`},
		{"empty name", `{"primary":{"name":""}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseResult(tt.raw)

			if !result.Degraded {
				t.Fatalf("expected degraded result for %q", tt.raw)
			}
			if result.Primary.Name != "Unable to parse" {
				t.Errorf("expected placeholder name, got %q", result.Primary.Name)
			}
			if result.Primary.Explanation != tt.raw {
				t.Errorf("explanation must carry the raw text verbatim, got %q", result.Primary.Explanation)
			}
			if len(result.Alternatives) != 0 {
				t.Errorf("expected empty alternatives, got %+v", result.Alternatives)
			}
		})
	}
}

func TestParseResultNeverPanicsOnLargeInput(t *testing.T) {
	raw := strings.Repeat("{ not json ", 10000)

	result := ParseResult(raw)

	if !result.Degraded {
		t.Fatal("expected degraded result")
	}
}
