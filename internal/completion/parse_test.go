package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"[#void#]foo(<#int x#>)", "void foo(int x)"},
		{"[#int#]printf(<#const char *restrict format, ...#>)", "int printf(const char *restrict format, ...)"},
		{"foo(<#int a#>{#, <#int b#>#})", "foo(int a, int b)"},
		{"[#std::vector<int>#]make()", "std::vector<int> make()"},
		{"plain", "plain"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, StripMarkup(tt.in))
		})
	}
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Candidate
		wantOK bool
	}{
		{
			name:   "function with result type",
			line:   "COMPLETION: foo : [#void#]foo(<#int x#>)",
			want:   Candidate{Word: "foo", Dup: 1, Menu: "void foo(int x)", Info: "void foo(int x)"},
			wantOK: true,
		},
		{
			name:   "signature equal to word gets no decoration",
			line:   "COMPLETION: int : int",
			want:   Candidate{Word: "int", Dup: 1},
			wantOK: true,
		},
		{
			name:   "no signature column",
			line:   "COMPLETION: keyword",
			want:   Candidate{Word: "keyword"},
			wantOK: true,
		},
		{
			name:   "macro",
			line:   "COMPLETION: EXIT_FAILURE : EXIT_FAILURE",
			want:   Candidate{Word: "EXIT_FAILURE", Dup: 1},
			wantOK: true,
		},
		{
			name:   "word is the shortest match before the separator",
			line:   "COMPLETION: operator= : [#S &#]operator=(<#const S &#>)",
			want:   Candidate{Word: "operator=", Dup: 1, Menu: "S & operator=(const S &)", Info: "S & operator=(const S &)"},
			wantOK: true,
		},
		{
			name:   "extra whitespace after prefix",
			line:   "COMPLETION:   size : [#size_t#]size()",
			want:   Candidate{Word: "size", Dup: 1, Menu: "size_t size()", Info: "size_t size()"},
			wantOK: true,
		},
		{
			name:   "PFNG noise is dropped",
			line:   "COMPLETION: PFNGLACTIVETEXTUREPROC : PFNGLACTIVETEXTUREPROC",
			wantOK: false,
		},
		{
			name:   "PFNG without signature is kept",
			line:   "COMPLETION: PFNGX",
			want:   Candidate{Word: "PFNGX"},
			wantOK: true,
		},
		{
			name:   "pattern line",
			line:   "COMPLETION: Pattern : [#size_t#]sizeof(<#expression-or-type#>)",
			want:   Candidate{Word: "Pattern", Dup: 1, Menu: "size_t sizeof(expression-or-type)", Info: "size_t sizeof(expression-or-type)"},
			wantOK: true,
		},
		{
			name:   "diagnostic",
			line:   "<stdin>:3:5: error: use of undeclared identifier 'x'",
			wantOK: false,
		},
		{
			name:   "prefix without whitespace",
			line:   "COMPLETION:foo",
			wantOK: false,
		},
		{
			name:   "empty",
			line:   "",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestParseOutput(t *testing.T) {
	output := "COMPLETION: abs : [#int#]abs(<#int#>)\r\n" +
		"COMPLETION: abs : [#long#]abs(<#long#>)\n" +
		"<stdin>:1:1: warning: something\n" +
		"COMPLETION: PFNGLBINDPROC : PFNGLBINDPROC\n" +
		"COMPLETION: return\n"

	got := ParseOutput(output)

	assert.Equal(t, []Candidate{
		{Word: "abs", Dup: 1, Menu: "int abs(int)", Info: "int abs(int)"},
		{Word: "abs", Dup: 1, Menu: "long abs(long)", Info: "long abs(long)"},
		{Word: "return"},
	}, got)
}

func TestParseOutput_Empty(t *testing.T) {
	got := ParseOutput("")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}
