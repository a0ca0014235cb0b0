package compile

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// DefaultRemoteURL is the public TeX Live CGI endpoint
const DefaultRemoteURL = "https://texlive.net/cgi-bin/latexcgi"

// MaxResponseBytes bounds the size of a remote compilation result
const MaxResponseBytes = 20 << 20

// RemoteCompiler posts LaTeX to a TeX Live CGI service
type RemoteCompiler struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewRemoteCompiler creates a RemoteCompiler; an empty url selects DefaultRemoteURL
func NewRemoteCompiler(url string, timeout time.Duration) *RemoteCompiler {
	if url == "" {
		url = DefaultRemoteURL
	}
	if timeout <= 0 {
		timeout = CompilationTimeout
	}
	return &RemoteCompiler{
		URL:        url,
		HTTPClient: &http.Client{},
		Timeout:    timeout,
	}
}

// Name identifies the compiler in logs
func (c *RemoteCompiler) Name() string {
	return "remote"
}

// Compile uploads tex as resume.tex and returns the PDF
func (c *RemoteCompiler) Compile(ctx context.Context, tex string) (*Artifact, error) {
	body, contentType, err := buildForm(tex)
	if err != nil {
		return nil, &CompilationError{Message: "failed to build upload form", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, body)
	if err != nil {
		return nil, &CompilationError{Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/pdf")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &CompilationError{Message: "compilation service request failed", Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseBytes+1))
	if err != nil {
		return nil, &CompilationError{Message: "failed to read compilation result", Cause: err}
	}
	if len(data) > MaxResponseBytes {
		return nil, &CompilationError{Message: fmt.Sprintf("compilation result exceeds %d bytes", MaxResponseBytes)}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &CompilationError{
			Message:   fmt.Sprintf("compilation failed with status %d: %s", resp.StatusCode, snippet(data)),
			LogOutput: string(data),
		}
	}

	return newArtifact(data)
}

// buildForm encodes the multipart fields the TeX Live CGI expects
func buildForm(tex string) (io.Reader, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("filecontents[]", "resume.tex")
	if err != nil {
		return nil, "", err
	}
	if _, err := io.WriteString(part, tex); err != nil {
		return nil, "", err
	}

	fields := [][2]string{
		{"filename[]", "resume.tex"},
		{"engine", "pdflatex"},
		{"return", "pdf"},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return &buf, writer.FormDataContentType(), nil
}
