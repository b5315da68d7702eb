package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-billy/v5"

	mdreader "github.com/alnah/go-mdreader"
	"github.com/alnah/go-mdreader/internal/config"
	"github.com/alnah/go-mdreader/internal/fileutil"
	"github.com/alnah/go-mdreader/internal/hints"
	"github.com/alnah/go-mdreader/internal/pipeline"
	"github.com/alnah/go-mdreader/internal/yamlutil"
	"github.com/alnah/go-mdreader/metadata"
)

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// outputWriter emits read documents either as files under dir or as a
// stream of records on stdout when dir is empty.
type outputWriter struct {
	fs         billy.Filesystem
	dir        string
	format     string
	standalone bool
	css        string // injected into standalone documents
	quiet      bool
	verbose    bool
	cfg        *config.Config
	stdout     io.Writer
	stderr     io.Writer
}

// outputSummary counts the outcome of writeAll.
type outputSummary struct {
	succeeded int
	failed    int
}

// record is one streamed document.
type record struct {
	Source   string             `json:"source"`
	Metadata *metadata.Metadata `json:"metadata"`
	HTML     string             `json:"html"`
}

func newOutputWriter(env *Environment, cfg *config.Config, reader *mdreader.Reader, flags *readFlags) (*outputWriter, error) {
	w := &outputWriter{
		fs:         env.FS,
		dir:        cfg.Output.DefaultDir,
		format:     strings.ToLower(cfg.Output.Format),
		standalone: flags.standalone,
		quiet:      flags.common.quiet,
		verbose:    flags.common.verbose,
		cfg:        cfg,
		stdout:     env.Stdout,
		stderr:     env.Stderr,
	}
	if w.format == "" {
		w.format = formatYAML
	}

	if w.standalone {
		page, err := pageCSS(env.FS, cfg)
		if err != nil {
			return nil, err
		}
		code, err := highlightCSS(reader, cfg)
		if err != nil {
			return nil, err
		}
		w.css = joinCSS(page, code)
	}

	return w, nil
}

// joinCSS concatenates non-empty stylesheets, one blank line apart.
func joinCSS(sheets ...string) string {
	var parts []string
	for _, s := range sheets {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

// writeAll emits every successful result and reports every failure.
// Results and sources are index-aligned.
func (w *outputWriter) writeAll(sources []source, results []mdreader.Result) outputSummary {
	var sum outputSummary

	for i, res := range results {
		if res.Err == nil {
			res.Err = w.write(sources[i], res)
		}
		if res.Err != nil {
			sum.failed++
			fmt.Fprintf(w.stderr, "FAILED %s: %v%s\n", res.Path, res.Err, w.hintFor(res.Err))
			continue
		}
		sum.succeeded++
	}

	// Stdout carries records in stream mode, so the summary moves to stderr.
	status := w.stdout
	if w.dir == "" {
		status = w.stderr
	}
	if !w.quiet && len(results) > 1 {
		fmt.Fprintf(status, "\n%d succeeded, %d failed\n", sum.succeeded, sum.failed)
	}

	return sum
}

func (w *outputWriter) write(src source, res mdreader.Result) error {
	md := w.metadataFor(src, res.Document)
	if w.dir == "" {
		return w.stream(src, res.Document.HTML, md)
	}

	htmlPath, metaPath := w.outputPaths(src)
	if err := w.writeFiles(htmlPath, metaPath, res.Document.HTML, md); err != nil {
		return err
	}

	switch {
	case w.quiet:
	case w.verbose:
		fmt.Fprintf(w.stdout, "%s -> %s (%v)\n", res.Path, htmlPath, res.Duration.Round(time.Millisecond))
	default:
		fmt.Fprintf(w.stdout, "Created %s\n", htmlPath)
	}
	return nil
}

// outputPaths returns the HTML and metadata sidecar paths for src,
// mirroring its position below the input root.
func (w *outputWriter) outputPaths(src source) (string, string) {
	base := filepath.Join(w.dir, fileutil.TrimExtension(src.Rel))
	return base + ".html", base + "." + w.format
}

// metadataFor returns the metadata written for src. Standalone pages need a
// title, so an untitled document gets its file name as title on a copy; the
// Document shared with the batch results is left untouched.
func (w *outputWriter) metadataFor(src source, doc *mdreader.Document) *metadata.Metadata {
	if !w.standalone {
		return doc.Metadata
	}
	if pageTitle(doc.Metadata) != "" {
		return doc.Metadata
	}
	md := doc.Metadata.Clone()
	md.Set(metadata.KeyTitle, fileutil.TrimExtension(filepath.Base(src.Rel)))
	return md
}

func (w *outputWriter) writeFiles(htmlPath, metaPath, fragment string, md *metadata.Metadata) error {
	if err := w.fs.MkdirAll(filepath.Dir(htmlPath), dirPermissions); err != nil {
		return fmt.Errorf("%w: creating directory: %v%s", ErrWriteOutput, err, hints.ForOutputDirectory())
	}

	if err := fileutil.WriteFileAtomic(w.fs, htmlPath, []byte(w.renderHTML(fragment, md)), filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, htmlPath, err)
	}

	meta, err := w.encodeMetadata(md)
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(w.fs, metaPath, meta, filePermissions); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWriteOutput, metaPath, err)
	}
	return nil
}

// renderHTML returns the fragment, or a complete page in standalone mode.
func (w *outputWriter) renderHTML(fragment string, md *metadata.Metadata) string {
	if !w.standalone {
		return fragment
	}
	page := pipeline.WrapDocument(fragment, pageTitle(md))
	if w.css != "" {
		page = pipeline.InjectCSS(page, w.css)
	}
	return page
}

// pageTitle returns the trimmed title of md, formatting non-string values.
func pageTitle(md *metadata.Metadata) string {
	v, ok := md.Get(metadata.KeyTitle)
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}

func (w *outputWriter) encodeMetadata(md *metadata.Metadata) ([]byte, error) {
	if w.format == formatJSON {
		data, err := json.MarshalIndent(md, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding metadata: %w", err)
		}
		return append(data, '\n'), nil
	}

	data, err := yamlutil.Marshal(md)
	if err != nil {
		return nil, fmt.Errorf("encoding metadata: %w", err)
	}
	return data, nil
}

// stream writes one record: a YAML document or a JSON line.
func (w *outputWriter) stream(src source, fragment string, md *metadata.Metadata) error {
	html := w.renderHTML(fragment, md)

	if w.format == formatJSON {
		enc := json.NewEncoder(w.stdout)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(record{Source: src.Path, Metadata: md, HTML: html}); err != nil {
			return fmt.Errorf("%w: %v", ErrWriteOutput, err)
		}
		return nil
	}

	meta, err := md.MarshalYAML()
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}
	data, err := yamlutil.Marshal(yamlutil.MapSlice{
		{Key: "source", Value: src.Path},
		{Key: "metadata", Value: meta},
		{Key: "html", Value: html},
	})
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}
	if _, err := fmt.Fprintf(w.stdout, "---\n%s", data); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteOutput, err)
	}
	return nil
}

// hintFor returns an actionable hint for a per-document error, or "".
func (w *outputWriter) hintFor(err error) string {
	switch {
	case errors.Is(err, mdreader.ErrMalformedFrontMatter):
		return hints.ForMalformedFrontMatter(w.cfg.FrontMatter.Delimiter, w.cfg.FrontMatter.CloseDelimiters)
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ""
	case errors.Is(err, mdreader.ErrUnreadableSource):
		return hints.ForUnreadableSource()
	}
	return ""
}
