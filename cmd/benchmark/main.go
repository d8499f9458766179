package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"partscan/internal/adapter/analyzer"
	"partscan/internal/adapter/frequency"
)

type fixture struct {
	name     string
	text     string
	expected []string
}

type score struct {
	truePos  int
	falsePos int
	falseNeg int
	missing  []string
	extra    []string
}

func (s score) precision() float64 {
	if s.truePos+s.falsePos == 0 {
		return 1
	}
	return float64(s.truePos) / float64(s.truePos+s.falsePos)
}

func (s score) recall() float64 {
	if s.truePos+s.falseNeg == 0 {
		return 1
	}
	return float64(s.truePos) / float64(s.truePos+s.falseNeg)
}

func (s *score) add(o score) {
	s.truePos += o.truePos
	s.falsePos += o.falsePos
	s.falseNeg += o.falseNeg
}

func main() {
	dir := flag.String("dir", "testdata", "Directory of *.txt OCR text with sibling *.parts expectations")
	verbose := flag.Bool("v", false, "List missed and unexpected parts per file")
	flag.Parse()

	fixtures, err := loadFixtures(*dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading fixtures: %v\n", err)
		os.Exit(1)
	}
	if len(fixtures) == 0 {
		fmt.Println("Usage: go run ./cmd/benchmark -dir ./fixtures")
		fmt.Println("\nEach page.txt needs a page.parts file listing the expected parts, one per line.")
		os.Exit(1)
	}

	oracle := frequency.NewCachedOracle(frequency.NewZipfOracle(), frequency.NewScoreCache(0))
	extractor := analyzer.NewDefaultExtractor(oracle)

	fmt.Println("PART EXTRACTION BENCHMARK")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("%-40s %6s %6s %9s %7s\n", "File", "Want", "Got", "Precision", "Recall")
	fmt.Println(strings.Repeat("-", 70))

	var total score
	for _, f := range fixtures {
		got := extractor.Extract(f.text)
		s := compare(f.expected, got)
		total.add(s)

		fmt.Printf("%-40s %6d %6d %8.1f%% %6.1f%%\n",
			truncate(f.name, 40), len(f.expected), len(got), s.precision()*100, s.recall()*100)
		if *verbose {
			if len(s.missing) > 0 {
				fmt.Printf("    missed:     %s\n", strings.Join(s.missing, " "))
			}
			if len(s.extra) > 0 {
				fmt.Printf("    unexpected: %s\n", strings.Join(s.extra, " "))
			}
		}
	}

	fmt.Println(strings.Repeat("-", 70))
	fmt.Printf("Overall: precision %.1f%%, recall %.1f%% over %d files\n",
		total.precision()*100, total.recall()*100, len(fixtures))
}

// loadFixtures reads every *.txt in dir that has a matching *.parts file.
func loadFixtures(dir string) ([]fixture, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var fixtures []fixture
	for _, p := range paths {
		partsPath := strings.TrimSuffix(p, ".txt") + ".parts"
		expected, err := os.ReadFile(partsPath)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		text, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		fixtures = append(fixtures, fixture{
			name:     filepath.Base(p),
			text:     string(text),
			expected: parseParts(string(expected)),
		})
	}
	return fixtures, nil
}

func parseParts(data string) []string {
	seen := make(map[string]struct{})
	var parts []string
	for _, line := range strings.Split(data, "\n") {
		line = strings.ToUpper(strings.TrimSpace(line))
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, ok := seen[line]; ok {
			continue
		}
		seen[line] = struct{}{}
		parts = append(parts, line)
	}
	sort.Strings(parts)
	return parts
}

func compare(expected, got []string) score {
	want := make(map[string]bool, len(expected))
	for _, p := range expected {
		want[p] = true
	}

	var s score
	found := make(map[string]bool, len(got))
	for _, p := range got {
		found[p] = true
		if want[p] {
			s.truePos++
		} else {
			s.falsePos++
			s.extra = append(s.extra, p)
		}
	}
	for _, p := range expected {
		if !found[p] {
			s.falseNeg++
			s.missing = append(s.missing, p)
		}
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
