// Package output renders completion results and the model catalog for the
// terminal.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/baalimago/go_away_boilerplate/pkg/ancli"
	"github.com/baalimago/pplx/internal/perplexity"
	"golang.org/x/term"
)

type Printer struct {
	out   io.Writer
	color bool
}

func New(out io.Writer, color bool) Printer {
	return Printer{out: out, color: color}
}

// UseColor if f is a terminal and NO_COLOR isn't set.
func UseColor(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

func (p Printer) header(title string) string {
	h := fmt.Sprintf("=== %v ===", title)
	if p.color {
		return ancli.ColoredMessage(ancli.CYAN, h)
	}
	return h
}

// Result as the sectioned report.
func (p Printer) Result(r perplexity.Result) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%v\n", p.header("API Response"))
	fmt.Fprintf(&sb, "Model: %v\n\n", r.ModelUsed)
	fmt.Fprintf(&sb, "%v\n", p.header("Message"))
	fmt.Fprintf(&sb, "%v\n\n", r.AnswerText)
	fmt.Fprintf(&sb, "%v\n", p.header("Other Details"))
	fmt.Fprintf(&sb, "Finish Reason: %v\n\n", r.FinishReason)
	fmt.Fprintf(&sb, "%v\n", p.header("Usage"))
	if r.Usage != nil {
		for pair := r.Usage.Oldest(); pair != nil; pair = pair.Next() {
			fmt.Fprintf(&sb, "%v: %v\n", capitalize(pair.Key), pair.Value)
		}
	}
	_, err := io.WriteString(p.out, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}

// Raw prints the response body as indented json.
func (p Printer) Raw(r perplexity.Result) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, r.Raw, "", "  "); err != nil {
		return fmt.Errorf("failed to indent raw response: %w", err)
	}
	buf.WriteByte('\n')
	if _, err := p.out.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write raw response: %w", err)
	}
	return nil
}

// Models lists the catalog. The output only depends on models.
func (p Printer) Models(models []string) error {
	var sb strings.Builder
	sb.WriteString("Note: the list of models is not dynamically retrieved from Perplexity.AI\n\n")
	sb.WriteString("Available models:\n")
	for _, m := range models {
		fmt.Fprintf(&sb, "- %v\n", m)
	}
	_, err := io.WriteString(p.out, sb.String())
	if err != nil {
		return fmt.Errorf("failed to write models: %w", err)
	}
	return nil
}

// capitalize upper cases the first rune and lower cases the rest.
func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
