package static

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/webtor-io/lazy-embed/services/assets"
)

func RegisterHandler(r *gin.Engine) {
	r.StaticFS("/assets", http.FS(assets.FS()))
}
