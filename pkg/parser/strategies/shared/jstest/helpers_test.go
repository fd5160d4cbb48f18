package jstest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/specvital/suite-harness/pkg/domain"
)

func TestUnquoteString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"double quotes", `"hello"`, "hello"},
		{"single quotes", `'hello'`, "hello"},
		{"backticks", "`hello`", "hello"},
		{"short string", "a", "a"},
		{"unquoted", "hello", "hello"},
		{"mismatched quotes", `"hello'`, `"hello'`},
		{"escaped single quote", `'it\'s working'`, "it's working"},
		{"double quote inside single", `'say "hi"'`, `say "hi"`},
		{"escaped double quotes", `"say \"hello\""`, `say "hello"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, UnquoteString(tt.input))
		})
	}
}

func TestParseModifierStatus(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.TestStatusSkipped, ParseModifierStatus(ModifierSkip))
	assert.Equal(t, domain.TestStatusTodo, ParseModifierStatus(ModifierTodo))
	assert.Equal(t, domain.TestStatusFocused, ParseModifierStatus(ModifierOnly))
	assert.Equal(t, domain.TestStatusActive, ParseModifierStatus(ModifierEach))
	assert.Equal(t, domain.TestStatusActive, ParseModifierStatus(""))
}

func TestFunctionAliases(t *testing.T) {
	t.Parallel()

	for alias, base := range SkippedFunctionAliases {
		assert.True(t, isSuiteFunc(base) || isTestFunc(base), "skip alias %s maps to unknown %s", alias, base)
	}
	for alias, base := range FocusedFunctionAliases {
		assert.True(t, isSuiteFunc(base) || isTestFunc(base), "focus alias %s maps to unknown %s", alias, base)
	}
}
