// Package compile turns LaTeX source into a PDF, either through a remote
// TeX Live service or a local pdflatex installation.
package compile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jonathan/resume-builder/internal/logger"
	"github.com/ledongthuc/pdf"
)

// pdfMagic is the signature every PDF file starts with
var pdfMagic = []byte("%PDF")

// snippetLength bounds diagnostic text copied from compiler output
const snippetLength = 200

// Compiler compiles a LaTeX document
type Compiler interface {
	Compile(ctx context.Context, tex string) (*Artifact, error)
	Name() string
}

// Artifact is a compiled PDF
type Artifact struct {
	PDF   []byte
	Pages int // 0 when the page tree could not be read
}

// PlainText extracts the text layer of the PDF
func (a *Artifact) PlainText() (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", errors.New("malformed PDF")
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(a.PDF), int64(len(a.PDF)))
	if err != nil {
		return "", err
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsPDF reports whether data starts with the PDF signature
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// CountPages returns the number of pages in a PDF
func CountPages(data []byte) (pages int, err error) {
	// the reader panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, errors.New("malformed PDF")
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, err
	}
	return reader.NumPage(), nil
}

// newArtifact checks the signature and counts pages. A PDF whose page tree
// cannot be read is still returned, with Pages left at zero.
func newArtifact(data []byte) (*Artifact, error) {
	if !IsPDF(data) {
		return nil, &InvalidArtifactError{Size: len(data), Snippet: snippet(data)}
	}

	artifact := &Artifact{PDF: data}
	pages, err := CountPages(data)
	if err != nil {
		logger.Warn().Err(err).Int("bytes", len(data)).Msg("could not count PDF pages")
		return artifact, nil
	}
	artifact.Pages = pages
	return artifact, nil
}

// snippet returns the first printable characters of data for diagnostics
func snippet(data []byte) string {
	if len(data) > snippetLength {
		data = data[:snippetLength]
	}
	text := strings.ToValidUTF8(string(data), "")
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, text))
}

// FallbackCompiler tries each compiler in order until one succeeds
type FallbackCompiler struct {
	compilers []Compiler
}

// NewFallbackCompiler creates a compiler chain
func NewFallbackCompiler(compilers ...Compiler) *FallbackCompiler {
	return &FallbackCompiler{compilers: compilers}
}

// Name returns the names of the chained compilers
func (f *FallbackCompiler) Name() string {
	names := make([]string, 0, len(f.compilers))
	for _, c := range f.compilers {
		names = append(names, c.Name())
	}
	return strings.Join(names, "+")
}

// Compile returns the first successful artifact. When every compiler fails the
// last error is returned. A cancelled context stops the chain.
func (f *FallbackCompiler) Compile(ctx context.Context, tex string) (*Artifact, error) {
	if len(f.compilers) == 0 {
		return nil, &CompilationError{Message: "no compilers configured"}
	}

	var lastErr error
	for _, c := range f.compilers {
		artifact, err := c.Compile(ctx, tex)
		if err == nil {
			return artifact, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return nil, lastErr
		}
		logger.Warn().Err(err).Str("compiler", c.Name()).Msg("compiler failed, trying next")
	}
	return nil, lastErr
}

// Options selects and tunes a compiler
type Options struct {
	Mode         string // remote, local or auto
	URL          string
	PdflatexPath string
	Timeout      time.Duration
}

// New builds the compiler for opts.Mode. Auto prefers a local pdflatex and
// falls back to the remote service.
func New(opts Options) (Compiler, error) {
	remote := NewRemoteCompiler(opts.URL, opts.Timeout)
	local := NewLocalCompiler(opts.PdflatexPath, opts.Timeout)

	switch opts.Mode {
	case "", "remote":
		return remote, nil
	case "local":
		return local, nil
	case "auto":
		if local.Available() {
			return NewFallbackCompiler(local, remote), nil
		}
		return remote, nil
	default:
		return nil, fmt.Errorf("unknown compile mode %q", opts.Mode)
	}
}
