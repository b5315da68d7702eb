// Package mdreader turns Markdown documents into HTML fragments and ordered
// metadata records for a site generator.
//
// # Quick Start
//
// Create a reader and read a document:
//
//	r, err := mdreader.NewReader()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := r.Read("content/post.md")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	title, _ := doc.Metadata.String("title")
//	fmt.Println(title, len(doc.HTML))
//
// The returned Document holds the rendered fragment (doc.HTML) and the
// normalized metadata (doc.Metadata). The metadata always carries the source
// path under the "path" key.
//
// # Reading Pipeline
//
// Each document goes through these stages:
//
//  1. Source decoding (UTF-8, optional byte order mark, line endings)
//  2. Directive line removal (standalone "#tag" lines become tags)
//  3. Front matter extraction and metadata normalization
//  4. Tag merge and path injection
//  5. CommonMark rendering via goldmark with link, image and fence hooks
//  6. Heading promotion (h1 as title) and duplicate heading removal
//
// A document either completes or fails; no partial result is returned.
//
// # Configuration
//
// Use functional options to customize the reader:
//
//	cfg := mdreader.DefaultConfig()
//	cfg.Links.ReplaceSuffix.From = ".md"
//	cfg.Links.ReplaceSuffix.To = ".html"
//	cfg.Title.Match = "fold"
//
//	r, err := mdreader.NewReader(
//	    mdreader.WithConfig(cfg),
//	    mdreader.WithFilesystem(osfs.New("content")),
//	    mdreader.WithLogger(logger),
//	)
//
// Configuration files (YAML, or JSON with comments) are loaded with
// WithConfigFile. Values missing from a file keep their defaults.
//
// # Render Hooks
//
// Links, images and fenced code blocks are rendered through small hook
// interfaces. Replace any of them with WithHooks:
//
//	r, err := mdreader.NewReader(mdreader.WithHooks(mdreader.Hooks{
//	    Fence: myFenceHook{},
//	}))
//
// Hooks receive a RenderContext carrying the source path and must be safe for
// concurrent use.
//
// # Parallel Processing
//
// A Reader holds no per-document state. Use ReadBatch to read many documents
// with a bounded number of workers; failures stay in their own Result:
//
//	for _, res := range r.ReadBatch(ctx, paths, 0) {
//	    if res.Err != nil {
//	        log.Printf("%s: %v", res.Path, res.Err)
//	    }
//	}
//
// # Registration
//
// A Registry dispatches paths to readers by file extension:
//
//	reg := mdreader.NewRegistry()
//	if _, err := mdreader.RegisterCommonMark(reg); err != nil {
//	    log.Fatal(err)
//	}
//	rd, ok := reg.ReaderFor("notes/today.markdown")
package mdreader
