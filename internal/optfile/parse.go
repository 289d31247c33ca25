package optfile

import (
	"bytes"
	"fmt"
	"os"
	"os/user"
	"regexp"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/mattn/go-shellwords"
)

// Options controls token expansion
type Options struct {
	// Templates enables {{ }} expansion of tokens with sprig functions
	Templates bool
	// Data is exposed to templates (.ProjectDir, .BufferDir, .Cwd, .Filetype)
	Data TemplateData
}

// TemplateData is the dot value of option templates
type TemplateData struct {
	ProjectDir string
	BufferDir  string
	Cwd        string
	Filetype   string
}

// Parse tokenizes options file content. Lines are joined with a single
// space before splitting, so a quoted argument may not span lines.
func Parse(content string, opts Options) ([]string, error) {
	tokens, err := Tokenize(strings.Join(splitLines(content), " "))
	if err != nil {
		return nil, err
	}

	args := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if opts.Templates && strings.Contains(tok, "{{") {
			tok, err = expandTemplate(tok, opts.Data)
			if err != nil {
				return nil, err
			}
		}
		args = append(args, ExpandUser(ExpandVars(tok)))
	}
	return args, nil
}

// Tokenize splits s using POSIX shell word rules. Variables and backquotes
// are left alone; expansion happens per token afterwards.
func Tokenize(s string) ([]string, error) {
	p := shellwords.NewParser()
	p.ParseEnv = false
	p.ParseBacktick = false

	args, err := p.Parse(s)
	if err != nil {
		return nil, err
	}
	if p.Position >= 0 {
		return nil, fmt.Errorf("unexpected shell operator at offset %d", p.Position)
	}
	return args, nil
}

var varPattern = regexp.MustCompile(`\$(\w+|\{[^}]*\})`)

// ExpandVars replaces $NAME and ${NAME} with environment values.
// Unset variables are left untouched.
func ExpandVars(s string) string {
	if !strings.Contains(s, "$") {
		return s
	}
	return varPattern.ReplaceAllStringFunc(s, func(m string) string {
		name := strings.TrimPrefix(m, "$")
		if strings.HasPrefix(name, "{") {
			name = name[1 : len(name)-1]
		}
		if value, ok := os.LookupEnv(name); ok {
			return value
		}
		return m
	})
}

// ExpandUser replaces a leading ~ or ~user with the home directory.
// Unknown users are left untouched.
func ExpandUser(s string) string {
	if !strings.HasPrefix(s, "~") {
		return s
	}

	name, _, _ := strings.Cut(s[1:], "/")
	var home string
	if name == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return s
		}
		home = h
	} else {
		u, err := user.Lookup(name)
		if err != nil {
			return s
		}
		home = u.HomeDir
	}

	// the remainder keeps its slashes as written
	expanded := strings.TrimRight(home, "/") + s[1+len(name):]
	if expanded == "" {
		return "/"
	}
	return expanded
}

func expandTemplate(tok string, data TemplateData) (string, error) {
	tmpl, err := template.New("option").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(tok)
	if err != nil {
		return "", fmt.Errorf("invalid template %q: %w", tok, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to expand template %q: %w", tok, err)
	}
	return buf.String(), nil
}

func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.Split(content, "\n")
}
