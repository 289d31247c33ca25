package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("14"))

	keyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("15"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	subtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// Render renders the status data to a string
func Render(data *Data) string {
	sections := []string{
		renderHeader(data),
		renderSettings(data),
		renderCompiler(data),
		renderOptions(data),
		renderArgs(data),
	}
	if len(data.Problems) > 0 {
		sections = append(sections, renderProblems(data))
	}
	return strings.Join(sections, "\n\n")
}

func renderHeader(data *Data) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("📂 Current directory: ") + valueStyle.Render(data.CurrentDir) + "\n")
	b.WriteString(titleStyle.Render("📦 Version: ") + valueStyle.Render(data.Version))
	return b.String()
}

func renderSettings(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚙️  Settings:") + "\n")

	if data.ConfigPath != "" {
		b.WriteString("   " + keyStyle.Render("Config file: ") + subtleStyle.Render(data.ConfigPath) + "\n")
	} else {
		b.WriteString("   " + keyStyle.Render("Config file: ") + subtleStyle.Render("none (built-in defaults)") + "\n")
	}
	b.WriteString("   " + keyStyle.Render("Encoding: ") + valueStyle.Render(data.Encoding) + "\n")
	b.WriteString("   " + keyStyle.Render("Timeout: ") + valueStyle.Render(data.Timeout.String()))

	return b.String()
}

func renderCompiler(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🔧 Compiler:") + "\n")

	if data.BinaryFound() {
		b.WriteString("   " + keyStyle.Render("Binary: ") + valueStyle.Render(data.Binary) + " " + successStyle.Render("✓") + "\n")
		b.WriteString("   " + keyStyle.Render("Path: ") + subtleStyle.Render(data.BinaryPath) + "\n")
	} else {
		b.WriteString("   " + keyStyle.Render("Binary: ") + valueStyle.Render(data.Binary) + " " + errorStyle.Render("✗ Not found") + "\n")
		b.WriteString("   " + warningStyle.Render("Completion is disabled until the binary is on PATH") + "\n")
	}

	if data.Filetype != "" {
		b.WriteString("   " + keyStyle.Render("Language: ") + valueStyle.Render(fmt.Sprintf("%s (-x %s)", data.Filetype, data.Dialect)))
	} else {
		b.WriteString("   " + keyStyle.Render("Language: ") + valueStyle.Render("-x "+data.Dialect))
	}

	return b.String()
}

func renderOptions(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("📝 Options file:") + "\n")

	if data.OptionsFile != "" {
		b.WriteString("   " + valueStyle.Render(data.OptionsFile) + " " + successStyle.Render("✓") + "\n")
	} else {
		b.WriteString("   " + subtleStyle.Render(fmt.Sprintf("No %s found, using default options", strings.Join(data.OptionsNames, " or "))) + "\n")
	}
	b.WriteString("   " + keyStyle.Render("Run directory: ") + subtleStyle.Render(data.RunDir))

	if len(data.Includes) > 0 {
		b.WriteString("\n   " + keyStyle.Render("Include index:") + "\n")
		for _, dir := range data.Includes {
			b.WriteString("      " + valueStyle.Render(dir) + "\n")
		}
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderArgs(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("🏴 Arguments:") + "\n")

	if len(data.Args) == 0 {
		b.WriteString("   " + subtleStyle.Render("none"))
		return b.String()
	}

	for _, arg := range data.Args {
		b.WriteString("   " + valueStyle.Render(truncateString(arg, 80)) + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func renderProblems(data *Data) string {
	var b strings.Builder
	b.WriteString(sectionStyle.Render("⚠️  Problems:") + "\n")

	for _, p := range data.Problems {
		b.WriteString("   " + errorStyle.Render("✗ "+p) + "\n")
	}

	return strings.TrimSuffix(b.String(), "\n")
}

func truncateString(s string, maxLen int) string {
	if len(s) > maxLen {
		return s[:maxLen-3] + "..."
	}
	return s
}
