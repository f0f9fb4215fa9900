// Package mdtest reads compiler test cases written as Markdown documents.
//
// A test case starts at a heading "Test: <name>" and holds one `rl` fence with
// the program plus any number of assertion fences.
package mdtest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const InputFence = "rl"

type AssertionType string

const (
	// AssertionAST holds the canonical source the program prints back as.
	AssertionAST AssertionType = "ast"
	// AssertionIR lists lines that must appear in the module, in order.
	AssertionIR AssertionType = "ir"
	// AssertionCompileError holds text the compile error must contain.
	AssertionCompileError AssertionType = "compile-error"
)

type Assertion struct {
	Type    AssertionType
	Content string
	Line    int
}

type TestCase struct {
	Name       string
	Input      string
	Line       int
	Assertions []Assertion
}

func isAssertionFence(language string) bool {
	switch AssertionType(language) {
	case AssertionAST, AssertionIR, AssertionCompileError:
		return true
	}
	return false
}

// Extract returns the test cases of a Markdown document in document order.
func Extract(markdown []byte) ([]TestCase, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var testCases []TestCase
	var current *TestCase

	flush := func() error {
		if current == nil {
			return nil
		}
		if current.Input == "" {
			return fmt.Errorf("test '%s' has no %s fence", current.Name, InputFence)
		}
		if len(current.Assertions) == 0 {
			return fmt.Errorf("test '%s' has no assertion fences", current.Name)
		}
		testCases = append(testCases, *current)
		current = nil
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			name, ok := strings.CutPrefix(heading, "Test: ")
			if !ok {
				return ast.WalkSkipChildren, nil
			}
			if err := flush(); err != nil {
				return ast.WalkStop, err
			}
			current = &TestCase{Name: name, Line: lineOf(n, markdown)}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			language := string(n.Language(markdown))
			line := lineOf(n, markdown)

			if language == "" {
				return ast.WalkContinue, nil
			}
			if language != InputFence && !isAssertionFence(language) {
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s'", line, language)
			}
			if current == nil {
				return ast.WalkStop, fmt.Errorf("line %d: %s fence outside of a test case", line, language)
			}

			content := strings.TrimRight(fenceContent(n, markdown), "\n")
			if language == InputFence {
				if current.Input != "" {
					return ast.WalkStop, fmt.Errorf("line %d: test '%s' has more than one %s fence", line, current.Name, InputFence)
				}
				current.Input = content
				return ast.WalkContinue, nil
			}

			current.Assertions = append(current.Assertions, Assertion{
				Type:    AssertionType(language),
				Content: content,
				Line:    line,
			})
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := flush(); err != nil {
		return nil, err
	}

	return testCases, nil
}

func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		buf.Write(line.Value(source))
	}
	return buf.String()
}

// lineOf is 1-based. Headings carry no lines of their own in goldmark, so
// their first text child is used.
func lineOf(node ast.Node, source []byte) int {
	start := -1
	if node.Lines().Len() > 0 {
		start = node.Lines().At(0).Start
	} else if t, ok := node.FirstChild().(*ast.Text); ok {
		start = t.Segment.Start
	}
	if start < 0 {
		return 0
	}
	return bytes.Count(source[:start], []byte("\n")) + 1
}

// ContainsInOrder reports the first line of want that is missing from got,
// searching each line after the previous match. Blank lines are ignored.
func ContainsInOrder(got, want string) (string, bool) {
	rest := got
	for _, line := range strings.Split(want, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		idx := strings.Index(rest, line)
		if idx < 0 {
			return line, false
		}
		rest = rest[idx+len(line):]
	}
	return "", true
}
