package http

import (
	"bytes"
	"embed"
	"io/fs"
	"mime"
	stdhttp "net/http"
	"path"
	"time"

	"github.com/rotisserie/eris"
)

//go:embed static
var staticFiles embed.FS

const staticCacheControl = "public, max-age=86400"

// embed does not keep modification times; the process start stands in so
// conditional requests still work.
var assetsModTime = time.Now().UTC().Truncate(time.Second)

var assetContentTypes = map[string]string{
	".ico": "image/x-icon",
	".css": "text/css; charset=utf-8",
}

func staticAssets() (fs.FS, error) {
	assets, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, eris.Wrap(err, "preparing static assets filesystem")
	}
	return assets, nil
}

func (s *Server) registerStaticRoutes() {
	assets, err := staticAssets()
	if err != nil {
		if s.logger != nil {
			s.logger.WithError(err).Error("registering static assets handler failed")
		}
		return
	}

	s.mux.HandleFunc("GET /static/{file...}", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		s.serveAsset(w, r, assets, r.PathValue("file"))
	})
	s.mux.HandleFunc("GET /favicon.ico", func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		s.serveAsset(w, r, assets, "favicon.ico")
	})
}

// serveAsset writes one embedded file. Directories and missing files get the 404 page.
func (s *Server) serveAsset(w stdhttp.ResponseWriter, r *stdhttp.Request, assets fs.FS, name string) {
	if name == "" || !fs.ValidPath(name) {
		s.notFoundHandler(w, r)
		return
	}

	data, err := fs.ReadFile(assets, name)
	if err != nil {
		s.notFoundHandler(w, r)
		return
	}

	ext := path.Ext(name)
	contentType, ok := assetContentTypes[ext]
	if !ok {
		contentType = mime.TypeByExtension(ext)
	}
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.Header().Set("Cache-Control", staticCacheControl)
	stdhttp.ServeContent(w, r, name, assetsModTime, bytes.NewReader(data))
}
