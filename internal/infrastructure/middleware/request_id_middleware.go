package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIdHeader = "X-Request-Id"

// RequestId 请求 ID 中间件
// 客户端未携带 X-Request-Id 时生成一个，写回响应头并存入上下文
// 便于跨服务排查一次请求的完整链路
func RequestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestId := c.GetHeader(RequestIdHeader)
		if requestId == "" {
			requestId = uuid.NewString()
		}
		c.Set("request_id", requestId)
		c.Writer.Header().Set(RequestIdHeader, requestId)
		c.Next()
	}
}
