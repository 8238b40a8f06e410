// Package filecontext loads local text files and formats them as reference
// material placed ahead of a prompt sent to the model.
package filecontext

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// DefaultMaxLength bounds the formatted context, in characters.
const DefaultMaxLength = 5000

const (
	truncatedMark = "...(truncated)"
	// headroom is kept free after each file header for the closing lines.
	headroom = 100
	// minPreview is how much of a file is shown once the budget is spent.
	minPreview = 200
)

var (
	// ErrUnsupportedType is returned for files whose extension is not in
	// SupportedExtensions.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrUnknownEncoding is returned when the content is neither UTF-8 nor
	// one of the Japanese legacy encodings.
	ErrUnknownEncoding = errors.New("cannot detect text encoding")
)

// SupportedExtensions lists the file types Load accepts.
var SupportedExtensions = []string{".txt", ".md", ".json", ".csv", ".log"}

// legacyEncodings are tried in order when the content is not valid UTF-8.
var legacyEncodings = []struct {
	name string
	enc  encoding.Encoding
}{
	{"shift_jis", japanese.ShiftJIS},
	{"euc-jp", japanese.EUCJP},
	{"iso-2022-jp", japanese.ISO2022JP},
}

// File is one loaded context file.
type File struct {
	Path     string
	Content  string
	Encoding string
	Size     int64
	Modified time.Time
}

// Load reads path and converts its content to UTF-8.
func Load(path string) (File, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(SupportedExtensions, ext) {
		return File{}, fmt.Errorf("%w %q: %s", ErrUnsupportedType, ext, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return File{}, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return File{}, err
	}
	content, enc, err := Decode(raw)
	if err != nil {
		return File{}, fmt.Errorf("%s: %w", path, err)
	}
	return File{
		Path:     path,
		Content:  content,
		Encoding: enc,
		Size:     info.Size(),
		Modified: info.ModTime(),
	}, nil
}

// Decode returns raw as UTF-8 text together with the name of the encoding
// it was read as.
func Decode(raw []byte) (string, string, error) {
	if utf8.Valid(raw) {
		return strings.TrimPrefix(string(raw), "\ufeff"), "utf-8", nil
	}
	for _, c := range legacyEncodings {
		out, err := c.enc.NewDecoder().Bytes(raw)
		if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
			continue
		}
		return string(out), c.name, nil
	}
	return "", "", ErrUnknownEncoding
}

// Format renders files as a single context block of at most roughly
// maxLength characters. Files that no longer fit are counted but left out.
func Format(files []File, maxLength int) string {
	if len(files) == 0 {
		return ""
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}

	var sb strings.Builder
	sb.WriteString("\n\n=== Reference files ===\n")
	length := utf8.RuneCountInString(sb.String())

	for i, f := range files {
		header := fmt.Sprintf("File %d: %s\n   Modified: %s\n   Size: %d bytes\n   Content:\n",
			i+1, filepath.Base(f.Path), f.Modified.Format(time.DateTime), f.Size)

		preview := truncate(f.Content, maxLength-length-utf8.RuneCountInString(header)-headroom)
		text := header + preview + "\n\n"
		n := utf8.RuneCountInString(text)
		if length+n > maxLength {
			fmt.Fprintf(&sb, "... (%d more files omitted)\n", len(files)-i)
			break
		}
		sb.WriteString(text)
		length += n
	}

	sb.WriteString("=== End of reference files ===\n\n")
	return sb.String()
}

// truncate shortens s to limit characters, or to minPreview when no room is
// left, marking the cut.
func truncate(s string, limit int) string {
	if limit <= 0 {
		limit = minPreview
	}
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + truncatedMark
}

// BuildPrompt places context ahead of question with answering instructions.
// Without context the question is returned unchanged.
func BuildPrompt(question, context string) string {
	if context == "" {
		return question
	}
	return context + `
Using the information above, answer the following question in detail.

[Question]
` + question + `

[Instructions]
- Use the reference files provided above
- Give a concrete, practical answer
- Cite the files you rely on
- Do not stop partway; give the complete answer
- Finish with a short summary of the key points

[Answer]`
}
