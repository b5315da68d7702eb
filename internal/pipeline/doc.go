// Package pipeline implements the stages that turn one Markdown source into
// an HTML fragment and its metadata:
//   - directive line removal (standalone #tag lines become tags)
//   - front matter extraction and per-key metadata normalization
//   - CommonMark rendering via goldmark with link, image and fence hooks
//   - HTML post-processing (heading promotion and duplicate heading removal)
//
// Reading sources, merging tags and assembling the final document are handled
// by the root mdreader package. Every stage here is a pure function of its
// inputs and read-only configuration, so one set of stages can serve any
// number of concurrent documents.
package pipeline
