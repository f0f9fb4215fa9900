package mdtest

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestExtractBasic(t *testing.T) {
	markdown := "# Suite\n\nSome prose.\n\n## Test: hello\n\n```rl\nlet x = 1;\n```\n\n```ast\nlet x = 1;\n```\n\n```ir\ndefine i32 @main()\n```\n"

	testCases, err := Extract([]byte(markdown))
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.Name, "hello")
	be.Equal(t, tc.Input, "let x = 1;")
	be.Equal(t, tc.Line, 5)
	be.Equal(t, len(tc.Assertions), 2)
	be.Equal(t, tc.Assertions[0].Type, AssertionAST)
	be.Equal(t, tc.Assertions[1].Type, AssertionIR)
	be.Equal(t, tc.Assertions[1].Content, "define i32 @main()")
}

func TestExtractMultipleCases(t *testing.T) {
	markdown := "## Test: a\n\n```rl\nf();\n```\n\n```compile-error\nundefined function 'f'\n```\n\n## Test: b\n\n```rl\ng();\n```\n\n```compile-error\nundefined function 'g'\n```\n"

	testCases, err := Extract([]byte(markdown))
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)
	be.Equal(t, testCases[0].Name, "a")
	be.Equal(t, testCases[1].Name, "b")
	be.Equal(t, testCases[1].Assertions[0].Content, "undefined function 'g'")
}

func TestExtractErrors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		want     string
	}{
		{"no input", "## Test: a\n\n```ast\nx;\n```\n", "test 'a' has no rl fence"},
		{"no assertion", "## Test: a\n\n```rl\nx;\n```\n", "test 'a' has no assertion fences"},
		{"unknown fence", "## Test: a\n\n```python\nx\n```\n", "unknown fence language 'python'"},
		{"outside of test", "```rl\nx;\n```\n", "rl fence outside of a test case"},
		{"two inputs", "## Test: a\n\n```rl\nx;\n```\n\n```rl\ny;\n```\n", "more than one rl fence"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Extract([]byte(tt.markdown))
			be.Err(t, err, tt.want)
		})
	}
}

func TestContainsInOrder(t *testing.T) {
	got := "define i32 @main() {\nentry:\n  ret i32 0\n}\n"

	_, ok := ContainsInOrder(got, "define i32 @main()\n\n  ret i32 0")
	be.True(t, ok)

	missing, ok := ContainsInOrder(got, "ret i32 0\nentry:")
	be.Equal(t, ok, false)
	be.Equal(t, missing, "entry:")
}
