package expect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		token    string
		wantKind Kind
	}{
		{token: "prompt", wantKind: Prompt},
		{token: "EOP", wantKind: EndOfProcess},
		{token: "Hello, World!", wantKind: Pattern},
		{token: `Downloaded [0-9]+ files`, wantKind: Pattern},
		{token: "eop", wantKind: Pattern},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			exp, err := Parse(tt.token)
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, exp.Kind)
			assert.Equal(t, tt.token, exp.Source)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse("([unclosed")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}

func TestPromptPattern(t *testing.T) {
	for _, prompt := range []string{"user@host:~$ ", "root@host:/# ", "host% "} {
		assert.True(t, PromptPattern.MatchString(prompt), prompt)
	}
	assert.False(t, PromptPattern.MatchString("loading...\r\n"))
	assert.Same(t, PromptPattern, ForPrompt().Pattern)
}

func TestEndOfProcessHasNoPattern(t *testing.T) {
	exp := ForEndOfProcess()
	assert.Nil(t, exp.Pattern)
	assert.Equal(t, "end-of-process", exp.Kind.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "pattern", Pattern.String())
	assert.Equal(t, "prompt", Prompt.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestDescribe(t *testing.T) {
	exp, err := ForPattern(`done\.`)
	require.NoError(t, err)

	assert.Equal(t, `output to match regexp "done\\."`, exp.Describe())
	assert.Equal(t, "output to show a shell prompt", ForPrompt().Describe())
	assert.Equal(t, "command's process to exit", ForEndOfProcess().Describe())
}
