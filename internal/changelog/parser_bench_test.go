package changelog

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ariel-frischer/bump/internal/version"
)

func generateChangelog(releases int) string {
	doc := ""
	for i := 0; i < releases; i++ {
		lines := []string{
			fmt.Sprintf("feat: feature %d", i),
			fmt.Sprintf("fix: bug %d", i),
			fmt.Sprintf("refactor(core): cleanup %d", i),
		}
		doc = Merge(doc, Render(version.New(0, uint64(i), 0), "2026-01-01", lines, nil))
	}
	return doc
}

func BenchmarkParse(b *testing.B) {
	text := generateChangelog(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Parse(strings.NewReader(text)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkMerge(b *testing.B) {
	text := generateChangelog(200)
	fragment := Render(version.New(1, 0, 0), "2026-02-01", []string{"feat: new"}, nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Merge(text, fragment)
	}
}
