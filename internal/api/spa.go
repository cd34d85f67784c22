package api

import (
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
)

const shellFile = "index.html"

// StaticShell serves the single-page client from static. Unknown non-/api paths get index.html so the
// client router can resolve them. Unknown /api paths get the JSON 404 envelope.
func StaticShell(static fs.FS) (gin.HandlerFunc, error) {
	shell, err := fs.ReadFile(static, shellFile)
	if err != nil {
		return nil, fmt.Errorf("read application shell: %w", err)
	}
	fileServer := http.FS(static)

	return func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		isAPI := urlPath == "/api" || strings.HasPrefix(urlPath, "/api/")
		if isAPI || (c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead) {
			fail(c, &HTTPError{Status: http.StatusNotFound, Err: errNoRoute(c)})
			return
		}

		name := strings.TrimPrefix(path.Clean(urlPath), "/")
		if name != "" && name != shellFile {
			if info, err := fs.Stat(static, name); err == nil && !info.IsDir() {
				c.FileFromFS(name, fileServer)
				return
			}
		}

		c.Data(http.StatusOK, "text/html; charset=utf-8", shell)
	}, nil
}

func errNoRoute(c *gin.Context) error {
	return fmt.Errorf("no route for %s %s", c.Request.Method, c.Request.URL.Path)
}
