// Package router 提供 HTTP 路由注册
// 本文件定义余额相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterBalanceRoutes 注册余额相关路由（需要认证）
// 余额查看、流水查看与手工调整
func (rt *Router) RegisterBalanceRoutes(rg *gin.RouterGroup) {
	balanceGroup := rg.Group("/balance")
	{
		balanceGroup.GET("/groupList", rt.handlers.Balance.GetGroupBalances)  // 群组全员余额
		balanceGroup.GET("/my", rt.handlers.Balance.GetMyBalance)             // 本人余额
		balanceGroup.GET("/history", rt.handlers.Balance.GetBalanceHistory)   // 余额流水
		balanceGroup.POST("/adjust", rt.handlers.Balance.AdjustBalance)       // 手工调整余额
	}
}
