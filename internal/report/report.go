// Package report renders the student roster as markdown and HTML.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/rollbook/rollbook/internal/model"
)

// Roster renders the school's students as a markdown table ordered by last
// name, then first name, with a count and mean GPA underneath.
func Roster(school model.School, students []model.Student) string {
	sorted := make([]model.Student, len(students))
	copy(sorted, students)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.LastName != b.LastName {
			return a.LastName < b.LastName
		}
		if a.FirstName != b.FirstName {
			return a.FirstName < b.FirstName
		}
		return a.ID < b.ID
	})

	var b strings.Builder
	fmt.Fprintf(&b, "# %s roster\n\n", cell(school.Name))

	if len(sorted) == 0 {
		b.WriteString("No students.\n")
		return b.String()
	}

	b.WriteString("| ID | Last name | First name | GPA |\n")
	b.WriteString("| --- | --- | --- | --- |\n")
	var total float64
	for _, s := range sorted {
		fmt.Fprintf(&b, "| %d | %s | %s | %.2f |\n", s.ID, cell(s.LastName), cell(s.FirstName), s.GPA)
		total += s.GPA
	}

	noun := "students"
	if len(sorted) == 1 {
		noun = "student"
	}
	fmt.Fprintf(&b, "\n%d %s, mean GPA %.2f.\n", len(sorted), noun, total/float64(len(sorted)))
	return b.String()
}

// HTML converts markdown to HTML with GitHub flavoured extensions. Raw HTML
// in the input is dropped.
func HTML(markdown string) ([]byte, error) {
	gm := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
	)
	var buf bytes.Buffer
	if err := gm.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
