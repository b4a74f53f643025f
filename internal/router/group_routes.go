// Package router 提供 HTTP 路由注册
// 本文件定义群组相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterGroupRoutes 注册群组相关路由（需要认证）
// 包括群组创建、信息管理、成员与权限管理等功能
func (rt *Router) RegisterGroupRoutes(rg *gin.RouterGroup) {
	groupGroup := rg.Group("/group")
	{
		// ===== 群组基本操作 =====
		groupGroup.POST("/createGroup", rt.handlers.Group.CreateGroup)         // 创建群组
		groupGroup.GET("/loadMyGroups", rt.handlers.Group.LoadMyGroups)        // 获取我所在的群组
		groupGroup.GET("/getGroupInfo", rt.handlers.Group.GetGroupInfo)        // 获取群组详情
		groupGroup.POST("/updateGroupInfo", rt.handlers.Group.UpdateGroupInfo) // 更新群组信息
		groupGroup.POST("/dismissGroup", rt.handlers.Group.DismissGroup)       // 解散群组（群主）

		// ===== 群成员与权限管理 =====
		groupGroup.GET("/getGroupMemberList", rt.handlers.Group.GetGroupMemberList)     // 获取群成员列表
		groupGroup.POST("/addMember", rt.handlers.Group.AddMember)                      // 直接添加成员
		groupGroup.POST("/updateMemberRole", rt.handlers.Group.UpdateMemberRole)        // 变更成员角色
		groupGroup.POST("/setMemberPermission", rt.handlers.Group.SetMemberPermission)  // 单项覆盖成员权限
		groupGroup.POST("/removeMember", rt.handlers.Group.RemoveMember)                // 移出成员/本人退群
	}
}
