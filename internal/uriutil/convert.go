package uriutil

import (
	"net/url"
	"path/filepath"
	"strings"
)

// PathToURI converts a file system path to a file:// URI.
// Relative paths are made absolute; segments are percent-encoded.
//   - /home/user/my project -> file:///home/user/my%20project
//   - C:\proj -> file:///C:/proj
func PathToURI(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	path = filepath.ToSlash(path)
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := url.URL{Scheme: "file", Path: path}
	return u.String()
}

// URIToPath converts a file:// URI to a file system path.
// Returns "" for URIs that do not name a local file (untitled:, http:),
// which the formatter treats as a document without a path.
func URIToPath(uri string) string {
	parsed, err := url.Parse(uri)
	if err != nil || parsed.Scheme != "file" {
		return ""
	}

	path := parsed.Path
	// file:///C:/proj parses to /C:/proj
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.FromSlash(path)
}
