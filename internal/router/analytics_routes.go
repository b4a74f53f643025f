// Package router 提供 HTTP 路由注册
// 本文件定义统计相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAnalyticsRoutes 注册统计相关路由（需要认证）
// 群组消费汇总、按成员消费与热门菜品排行
func (rt *Router) RegisterAnalyticsRoutes(rg *gin.RouterGroup) {
	analyticsGroup := rg.Group("/analytics")
	{
		analyticsGroup.GET("/summary", rt.handlers.Analytics.GroupSummary)        // 群组拼单汇总
		analyticsGroup.GET("/spending", rt.handlers.Analytics.UserSpending)       // 按成员消费统计
		analyticsGroup.GET("/popularDishes", rt.handlers.Analytics.PopularDishes) // 热门菜品排行
	}
}
