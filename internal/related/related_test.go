package related

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bapanel/bapanel/internal/catalog"
)

func relatedCorpus(t *testing.T) *catalog.Corpus {
	t.Helper()
	c, err := catalog.New([]catalog.ToolRecord{
		{Name: "nmap", Category: "scanner", Description: "Network port scanner", Dependencies: []string{"libpcap", "ncat"}},
		{Name: "masscan", Category: "scanner", Description: "Fast port scanner", Dependencies: []string{"libpcap"}},
		{Name: "zenmap", Category: "gui", Description: "Graphical frontend", Dependencies: []string{"NCAT", "python"}},
		{Name: "ncat", Category: "networking", Description: "Netcat clone", Dependencies: []string{}},
		{Name: "hydra", Category: "cracker", Description: "Login cracker", Dependencies: []string{"libssh"}},
		{Name: "unicornscan", Category: "scanner", Description: "Asynchronous scanner", Dependencies: []string{}},
	})
	if err != nil {
		t.Fatalf("failed to build corpus: %v", err)
	}
	return c
}

func scoredNames(results []Scored) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Tool.Name
	}
	return out
}

func TestRelatedRanking(t *testing.T) {
	c := relatedCorpus(t)

	results, err := Related(c, "NMAP", 10, DefaultWeights())
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}

	// masscan: 1 + 2*(2/4)         = 2.0
	// unicornscan: 1 + 2*(1/4)     = 1.5
	// zenmap: shares ncat (a tool) = 0.5
	// libpcap is not a tool, ncat and hydra share nothing.
	want := []string{"masscan", "unicornscan", "zenmap"}
	if diff := cmp.Diff(want, scoredNames(results)); diff != "" {
		t.Fatalf("ranking mismatch (-want +got):\n%s", diff)
	}

	wantScores := []float64{2.0, 1.5, 0.5}
	for i, r := range results {
		if math.Abs(r.Score-wantScores[i]) > 1e-9 {
			t.Errorf("%s score = %v, want %v", r.Tool.Name, r.Score, wantScores[i])
		}
		sum := r.CategoryScore + r.DescriptionScore + r.DependencyScore
		if math.Abs(sum-r.Score) > 1e-9 {
			t.Errorf("%s breakdown %v does not sum to %v", r.Tool.Name, sum, r.Score)
		}
	}
}

func TestRelatedExcludesTargetAndZeroScores(t *testing.T) {
	c := relatedCorpus(t)

	results, err := Related(c, "hydra", 10, DefaultWeights())
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected no related tools for hydra, got %v", scoredNames(results))
	}

	results, _ = Related(c, "nmap", 10, DefaultWeights())
	for _, r := range results {
		if r.Tool.Name == "nmap" {
			t.Error("target returned as related to itself")
		}
		if r.Score <= 0 {
			t.Errorf("%s returned with score %v", r.Tool.Name, r.Score)
		}
	}
}

func TestRelatedLimit(t *testing.T) {
	c := relatedCorpus(t)

	results, err := Related(c, "nmap", 2, DefaultWeights())
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if diff := cmp.Diff([]string{"masscan", "unicornscan"}, scoredNames(results)); diff != "" {
		t.Errorf("limited ranking mismatch (-want +got):\n%s", diff)
	}

	for _, limit := range []int{0, -1} {
		if _, err := Related(c, "nmap", limit, DefaultWeights()); !errors.Is(err, catalog.ErrInvalidLimit) {
			t.Errorf("limit %d: expected ErrInvalidLimit, got %v", limit, err)
		}
	}
}

func TestRelatedTiesKeepCorpusOrder(t *testing.T) {
	c, _ := catalog.New([]catalog.ToolRecord{
		{Name: "a", Category: "x", Description: "", Dependencies: []string{}},
		{Name: "c", Category: "x", Description: "", Dependencies: []string{}},
		{Name: "b", Category: "x", Description: "", Dependencies: []string{}},
	})

	results, err := Related(c, "a", 5, Weights{Category: 1})
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if diff := cmp.Diff([]string{"c", "b"}, scoredNames(results)); diff != "" {
		t.Errorf("tie order mismatch (-want +got):\n%s", diff)
	}
}

func TestRelatedDanglingDependencies(t *testing.T) {
	c, _ := catalog.New([]catalog.ToolRecord{
		{Name: "a", Category: "x", Dependencies: []string{"glibc", "openssl"}},
		{Name: "b", Category: "y", Dependencies: []string{"glibc", "OpenSSL"}},
	})

	results, err := Related(c, "a", 5, DefaultWeights())
	if err != nil {
		t.Fatalf("Related failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("dangling dependencies should not relate tools, got %v", scoredNames(results))
	}
}

func TestRelatedErrors(t *testing.T) {
	c := relatedCorpus(t)

	_, err := Related(c, "metasploit", 5, DefaultWeights())
	var notFound *catalog.NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("expected NotFoundError, got %v", err)
	}

	if _, err := Related(c, "nmap", 5, Weights{Category: -1, Description: 1}); err == nil {
		t.Error("expected error for negative weight")
	}
	if _, err := Related(c, "nmap", 5, Weights{}); err == nil {
		t.Error("expected error for all-zero weights")
	}
}

func TestTokenSet(t *testing.T) {
	got := tokenSet("The (fast) port-scanner, for ALL networks!")

	want := map[string]bool{"fast": true, "port-scanner": true, "networks": true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokenSet mismatch (-want +got):\n%s", diff)
	}
}

func TestJaccard(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		{"port scanner", "port scanner", 1},
		{"network port scanner", "fast port scanner", 0.5},
		{"", "", 0},
		{"cracker", "scanner", 0},
	}

	for _, tt := range tests {
		got := jaccard(tokenSet(tt.a), tokenSet(tt.b))
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("jaccard(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}
