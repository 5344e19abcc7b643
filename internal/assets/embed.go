// Package assets serves the stylesheet and scripts embedded via go:embed.
// Each file is fingerprinted with a content hash at startup so pages can link
// to URLs that are safe to cache forever.
package assets

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"html/template"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
)

//go:embed all:static
var staticFS embed.FS

// Manifest maps logical asset names (e.g. "site.css") to their fingerprinted
// names (e.g. "site.1a2b3c4d.css").
// NOTE: Exported and mutable for testability. Not safe for concurrent mutation;
// tests that modify this must not use t.Parallel().
var Manifest map[string]string

// hashLen is the number of hex characters of the SHA-256 kept in names.
const hashLen = 8

func init() {
	// Register MIME types that may not be in the default database.
	_ = mime.AddExtensionType(".woff2", "font/woff2")
	_ = mime.AddExtensionType(".map", "application/json")

	m, err := buildManifest(staticFS, "static")
	if err != nil {
		slog.Error("failed to fingerprint static assets", "error", err)
		return
	}
	Manifest = m
}

// buildManifest hashes every file under root.
func buildManifest(fsys fs.FS, root string) (map[string]string, error) {
	m := make(map[string]string)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		name := strings.TrimPrefix(p, root+"/")
		m[name] = fingerprint(name, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// fingerprint inserts a short content hash before the extension.
func fingerprint(name string, data []byte) string {
	sum := sha256.Sum256(data)
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext) + "." + hex.EncodeToString(sum[:])[:hashLen] + ext
}

// logicalName maps a fingerprinted name back to the embedded file, reporting
// whether the name was fingerprinted.
func logicalName(requested string) (string, bool) {
	for logical, hashed := range Manifest {
		if hashed == requested {
			return logical, true
		}
	}
	return requested, false
}

// Path returns the URL for a logical asset name. Unknown names are returned
// unhashed so a missing file shows up as a 404 rather than a broken page.
func Path(name string) string {
	if hashed, ok := Manifest[name]; ok {
		return "/static/" + hashed
	}
	return "/static/" + name
}

// Tags renders link and script tags for the given assets, in order.
func Tags(names ...string) template.HTML {
	var b strings.Builder
	for _, name := range names {
		switch path.Ext(name) {
		case ".css":
			b.WriteString(`<link rel="stylesheet" href="`)
			b.WriteString(Path(name))
			b.WriteString("\">\n")
		case ".js":
			b.WriteString(`<script defer src="`)
			b.WriteString(Path(name))
			b.WriteString("\"></script>\n")
		}
	}
	return template.HTML(b.String())
}

// FuncMap exposes Path and Tags to html/template as "asset" and "assetTags".
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"asset":     Path,
		"assetTags": Tags,
	}
}

// mimeFromExt returns the MIME type for a file extension.
// Falls back to the Go standard library's MIME type database,
// then to "application/octet-stream" if unknown.
func mimeFromExt(ext string) string {
	switch ext {
	case ".js", ".mjs":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".woff2":
		return "font/woff2"
	case ".svg":
		return "image/svg+xml"
	case ".map":
		return "application/json"
	default:
		if ct := mime.TypeByExtension(ext); ct != "" {
			return ct
		}
		return "application/octet-stream"
	}
}

// FileServer returns an http.Handler that serves embedded assets from static/.
// Fingerprinted names get immutable cache headers; plain names get no-cache.
// The handler expects paths relative to the static root (strip /static/ before calling).
func FileServer() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("assets: failed to create sub filesystem: " + err.Error())
	}
	fileServer := http.FileServer(http.FS(sub))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested := strings.TrimPrefix(r.URL.Path, "/")
		logical, hashed := logicalName(requested)

		ext := strings.ToLower(path.Ext(logical))
		if ext != "" {
			w.Header().Set("Content-Type", mimeFromExt(ext))
		}

		if hashed {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
			r2 := r.Clone(r.Context())
			r2.URL.Path = "/" + logical
			r = r2
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}

		fileServer.ServeHTTP(w, r)
	})
}
