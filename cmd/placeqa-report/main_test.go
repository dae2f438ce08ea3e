package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/placeqa/internal/domain"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func requireContains(t *testing.T, out, want string) {
	t.Helper()
	if !strings.Contains(out, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, out)
	}
}

func TestAnalyze_Table(t *testing.T) {
	out, err := runCLI(t, "", "analyze", "testdata/nearby.json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// 3 unique records, 6 of 12 checks passed
	requireContains(t, out, "3 businesses, 50% quality, 7 issues")
	requireContains(t, out, "Corner Cafe")
	requireContains(t, out, "Old Pharmacy")
	requireContains(t, out, "Business #3")
	requireContains(t, out, "Old Pharmacy: Permanently closed")
	if strings.Contains(out, "duplicate") {
		t.Error("duplicate record must be dropped")
	}
}

func TestAnalyze_PreviewTruncates(t *testing.T) {
	out, err := runCLI(t, "", "analyze", "--preview", "2", "testdata/nearby.json")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "+ 5 more")
}

func TestAnalyze_JSONFromStdin(t *testing.T) {
	stdin := `[{"name":"A","rating":5,"vicinity":"x","photo_count":1}]`
	out, err := runCLI(t, stdin, "analyze", "--json", "-")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	var res struct {
		Summary struct {
			OverallScorePercent int `json:"overall_score_percent"`
		} `json:"summary"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if res.Summary.OverallScorePercent != 100 {
		t.Errorf("expected 100, got %d", res.Summary.OverallScorePercent)
	}
}

func TestAnalyze_RecordsWrapper(t *testing.T) {
	out, err := runCLI(t, `{"records":[]}`, "analyze", "-")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	requireContains(t, out, "0 businesses, 0% quality, 0 issues")
}

func TestAnalyze_InvalidInput(t *testing.T) {
	for _, in := range []string{"", `{"name":"x"}`, `"x"`, `{"records":{"a":1}}`} {
		_, err := runCLI(t, in, "analyze", "-")
		if !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("input %q: expected ErrInvalidArgument, got %v", in, err)
		}
	}
}

func TestAnalyze_MissingFile(t *testing.T) {
	if _, err := runCLI(t, "", "analyze", "testdata/missing.json"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestAssess_BadConfigPath(t *testing.T) {
	if _, err := runCLI(t, "", "assess", "--config", "testdata/missing.yaml", "Austin"); err == nil {
		t.Fatal("expected config error")
	}
}

func TestPreviewLimit(t *testing.T) {
	if previewLimit(0) != -1 || previewLimit(-3) != -1 || previewLimit(4) != 4 {
		t.Error("unexpected preview mapping")
	}
}
