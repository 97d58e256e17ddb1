package extractor

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// contentStreamStrategy scavenges text-showing operators out of the raw page
// content streams via pdfcpu. It is cruder than the text-layer reader but
// copes with files whose font maps the primary parser rejects.
type contentStreamStrategy struct{}

var (
	// (string) Tj and '(string)' quote operators
	reShowText = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)\s*(?:Tj|'|")`)
	// [(a) -120 (b)] TJ arrays
	reShowArray = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)*)\]\s*TJ`)
	reArrayStr  = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

func (s *contentStreamStrategy) method() Method {
	return MethodFallback
}

func (s *contentStreamStrategy) extract(data []byte) (string, int, error) {
	ctx, err := api.ReadContext(bytes.NewReader(data), model.NewDefaultConfiguration())
	if err != nil {
		return "", 0, fmt.Errorf("read pdf context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return "", 0, fmt.Errorf("resolve page count: %w", err)
	}

	var b strings.Builder
	for pageNr := 1; pageNr <= ctx.PageCount; pageNr++ {
		r, err := pdfcpu.ExtractPageContent(ctx, pageNr)
		if err != nil || r == nil {
			continue
		}

		content, err := io.ReadAll(r)
		if err != nil {
			continue
		}

		pageText := scavengeText(content)
		if pageText == "" {
			continue
		}

		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(pageText)
	}

	return strings.TrimSpace(b.String()), ctx.PageCount, nil
}

// scavengeText collects the literal strings fed to Tj/TJ operators, in stream
// order. Kerning offsets inside TJ arrays are dropped.
func scavengeText(content []byte) string {
	var parts []string

	for _, m := range reShowText.FindAllSubmatch(content, -1) {
		if s := unescapePDFString(string(m[1])); s != "" {
			parts = append(parts, s)
		}
	}

	for _, m := range reShowArray.FindAllSubmatch(content, -1) {
		var run strings.Builder
		for _, sm := range reArrayStr.FindAllSubmatch(m[1], -1) {
			run.WriteString(unescapePDFString(string(sm[1])))
		}
		if run.Len() > 0 {
			parts = append(parts, run.String())
		}
	}

	return strings.TrimSpace(strings.Join(parts, " "))
}

func unescapePDFString(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b.WriteByte(s[i])
			continue
		}
		i++
		switch s[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '(', ')', '\\':
			b.WriteByte(s[i])
		default:
			// octal escapes and anything exotic are dropped
		}
	}
	return b.String()
}
