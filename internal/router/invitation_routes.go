// Package router 提供 HTTP 路由注册
// 本文件定义邮件邀请相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterInvitationRoutes 注册邀请相关路由（需要认证）
// 邀请的创建、查看与受邀人的接受/拒绝
func (rt *Router) RegisterInvitationRoutes(rg *gin.RouterGroup) {
	invitationGroup := rg.Group("/invitation")
	{
		invitationGroup.POST("/create", rt.handlers.Group.CreateInvitation)      // 创建邮件邀请
		invitationGroup.GET("/groupList", rt.handlers.Group.ListGroupInvitations) // 查看群组邀请列表
		invitationGroup.GET("/myList", rt.handlers.Group.ListMyInvitations)      // 查看发给我的邀请
		invitationGroup.POST("/accept", rt.handlers.Group.AcceptInvitation)      // 接受邀请并入群
		invitationGroup.POST("/decline", rt.handlers.Group.DeclineInvitation)    // 拒绝邀请
	}
}
