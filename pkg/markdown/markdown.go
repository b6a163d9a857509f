// Package markdown converts markdown documents to HTML fragments.
//
// Input is read as UTF-8, normalised to NFC and rendered with goldmark using
// the GitHub Flavored Markdown extension (tables, strikethrough, task lists,
// autolinks). Raw HTML in the source is omitted from the output.
package markdown

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrRead is returned when the markdown source cannot be read.
	ErrRead = errors.New("markdown: failed to read source")
	// ErrParse is returned when the source is not valid UTF-8 or cannot be rendered.
	ErrParse = errors.New("markdown: failed to parse source")
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

// Parse renders src to an HTML fragment.
func Parse(src []byte) (string, error) {
	if !utf8.Valid(src) {
		return "", fmt.Errorf("%w: input is not valid UTF-8", ErrParse)
	}

	var buf bytes.Buffer
	if err := md.Convert(norm.NFC.Bytes(src), &buf); err != nil {
		return "", errors.Join(ErrParse, err)
	}
	return buf.String(), nil
}

// Load reads the file at path and renders it with Parse.
func Load(path string) (string, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Join(ErrRead, err)
	}
	return Parse(src)
}
