// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"dingcan_server/internal/dao/mysql/repository"
	"dingcan_server/internal/handler"
	"dingcan_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器
// 持有 Handler 聚合与用户仓储（认证中间件需要加载当前用户）
type Router struct {
	handlers *handler.Handlers
	userRepo repository.UserRepository
}

// NewRouter 创建路由管理器
// handlers: Handler 聚合实例
// userRepo: 用户仓储，供 LoadCurrentUser 中间件使用
func NewRouter(handlers *handler.Handlers, userRepo repository.UserRepository) *Router {
	return &Router{handlers: handlers, userRepo: userRepo}
}

// RegisterRoutes 注册所有路由
// 在 https_server.Init() 中调用
// 所有业务路由都要求 JWT 认证并加载当前用户
func (rt *Router) RegisterRoutes(engine *gin.Engine) {
	authed := engine.Group("/", middleware.JWTAuth(), middleware.LoadCurrentUser(rt.userRepo))

	rt.RegisterGroupRoutes(authed)      // 群组与成员路由
	rt.RegisterInvitationRoutes(authed) // 邀请路由
	rt.RegisterOrderRoutes(authed)      // 拼单路由
	rt.RegisterBalanceRoutes(authed)    // 余额路由
	rt.RegisterAnalyticsRoutes(authed)  // 统计路由
	rt.RegisterRestaurantRoutes(authed) // 餐馆路由
}
