package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cors 允许浏览器页面跨域读取地图数据（只读接口，不带凭证）。
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, X-Trace-Id")
		h.Set("Access-Control-Expose-Headers", "X-Trace-Id")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
