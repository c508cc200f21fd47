package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

var assetDirs = map[string]struct {
	dir  string
	exts []string
}{
	"images": {dir: "webimg", exts: []string{".jpg", ".jpeg", ".png", ".gif", ".webp"}},
	"videos": {dir: "webmp4", exts: []string{".mp4", ".webm", ".ogg"}},
}

// ListBackgroundFiles lists dashboard background assets by type. A missing
// asset directory is not an error, just an empty list.
func (h *Handler) ListBackgroundFiles(c *gin.Context) {
	typ, ok := c.GetQuery("type")
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "missing required parameter"})
		return
	}

	spec, ok := assetDirs[typ]
	if !ok {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "invalid file type"})
		return
	}

	files := []string{}
	entries, err := os.ReadDir(filepath.Join(h.cfg.AssetsDir, spec.dir))
	if err == nil {
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			ext := strings.ToLower(filepath.Ext(e.Name()))
			for _, want := range spec.exts {
				if ext == want {
					files = append(files, spec.dir+"/"+e.Name())
					break
				}
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}
