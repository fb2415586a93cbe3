package dragonwell

import (
	_ "embed"
	"fmt"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed support.yaml
var supportTable []byte

// Entry is one (major, platform, architecture) triple that is offered.
type Entry struct {
	Major        int    `yaml:"major" json:"major"`
	Platform     string `yaml:"platform" json:"platform"`
	Architecture string `yaml:"architecture" json:"architecture"`
}

// Matrix answers which majors exist and which platform/architecture pairs
// are published for each of them. It is read-only once built.
type Matrix struct {
	majors  []int
	offered map[Entry]struct{}
}

type supportFile struct {
	Majors  []int `yaml:"majors"`
	Offered []struct {
		Major         int      `yaml:"major"`
		Platform      string   `yaml:"platform"`
		Architectures []string `yaml:"architectures"`
	} `yaml:"offered"`
}

// DefaultMatrix is the table embedded in the binary.
var DefaultMatrix = mustParseMatrix(supportTable)

func mustParseMatrix(data []byte) *Matrix {
	m, err := ParseMatrix(data)
	if err != nil {
		panic(fmt.Sprintf("dragonwell: invalid embedded support table: %v", err))
	}
	return m
}

// ParseMatrix builds a Matrix from its YAML form.
func ParseMatrix(data []byte) (*Matrix, error) {
	var f supportFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse support table: %w", err)
	}
	if len(f.Majors) == 0 {
		return nil, fmt.Errorf("support table lists no major versions")
	}

	m := &Matrix{
		majors:  slices.Clone(f.Majors),
		offered: make(map[Entry]struct{}),
	}
	sort.Ints(m.majors)

	for _, o := range f.Offered {
		if !slices.Contains(m.majors, o.Major) {
			return nil, fmt.Errorf("support table offers platform %s for unknown major %d", o.Platform, o.Major)
		}
		for _, arch := range o.Architectures {
			m.offered[Entry{Major: o.Major, Platform: o.Platform, Architecture: arch}] = struct{}{}
		}
	}
	return m, nil
}

// SupportedMajors returns the major versions the distribution ships, ascending.
func (m *Matrix) SupportedMajors() []int {
	return slices.Clone(m.majors)
}

// IsMajorSupported reports whether major is one of SupportedMajors.
func (m *Matrix) IsMajorSupported(major int) bool {
	return slices.Contains(m.majors, major)
}

// IsOffered reports whether builds exist for the triple at all.
func (m *Matrix) IsOffered(major int, platform, architecture string) bool {
	_, ok := m.offered[Entry{Major: major, Platform: platform, Architecture: architecture}]
	return ok
}

// Entries lists every offered triple ordered by major, platform, architecture.
func (m *Matrix) Entries() []Entry {
	entries := make([]Entry, 0, len(m.offered))
	for e := range m.offered {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Major != b.Major {
			return a.Major < b.Major
		}
		if a.Platform != b.Platform {
			return a.Platform < b.Platform
		}
		return a.Architecture < b.Architecture
	})
	return entries
}
