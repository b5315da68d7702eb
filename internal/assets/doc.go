// Package assets provides the page stylesheets embedded in standalone HTML
// documents.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - styles from a directory on a billy filesystem
//	    └── StyleResolver     - both, custom first
//
// StyleResolver falls back to the embedded styles only when a custom style
// is not found, so a custom directory can override single styles.
//
// # Directory Structure
//
//	{basePath}/
//	└── styles/
//	    └── {name}.css
//
// # Security
//
// Style names are validated before use and the filesystem loader is
// chrooted at basePath, so lookups cannot leave it.
package assets
