// Package handler 提供 HTTP 请求处理器
// 本文件处理群组与邀请相关的 API 请求
package handler

import (
	"dingcan_server/internal/dto/request"
	"dingcan_server/internal/service"

	"github.com/gin-gonic/gin"
)

// GroupHandler 群组请求处理器
// 通过构造函数注入 GroupService，遵循依赖倒置原则
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建群组处理器实例
// groupSvc: 群组服务接口
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建群组
// POST /group/createGroup
// 请求体: request.CreateGroupRequest
// 响应: respond.GroupInfoRespond
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req request.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateGroup(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// LoadMyGroups 获取我所在的群组列表
// GET /group/loadMyGroups
// 响应: []respond.GroupInfoRespond
func (h *GroupHandler) LoadMyGroups(c *gin.Context) {
	data, err := h.groupSvc.LoadMyGroups(currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// GetGroupInfo 获取群组详情
// GET /group/getGroupInfo?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: respond.GroupInfoRespond
func (h *GroupHandler) GetGroupInfo(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.GetGroupInfo(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateGroupInfo 更新群组信息
// POST /group/updateGroupInfo
// 请求体: request.UpdateGroupInfoRequest
// 响应: nil
func (h *GroupHandler) UpdateGroupInfo(c *gin.Context) {
	var req request.UpdateGroupInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.UpdateGroupInfo(currentUser(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// DismissGroup 解散群组（仅群主或站点管理员）
// POST /group/dismissGroup
// 请求体: request.DismissGroupRequest
// 响应: nil
func (h *GroupHandler) DismissGroup(c *gin.Context) {
	var req request.DismissGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.DismissGroup(currentUser(c), req.GroupId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetGroupMemberList 获取群成员列表（含角色与权限）
// GET /group/getGroupMemberList?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: []respond.GroupMemberRespond
func (h *GroupHandler) GetGroupMemberList(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.GetGroupMemberList(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AddMember 直接添加成员
// POST /group/addMember
// 请求体: request.AddMemberRequest
// 响应: respond.GroupMemberRespond
func (h *GroupHandler) AddMember(c *gin.Context) {
	var req request.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.AddMember(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// UpdateMemberRole 变更成员角色
// POST /group/updateMemberRole
// 请求体: request.UpdateMemberRoleRequest
// 响应: nil
func (h *GroupHandler) UpdateMemberRole(c *gin.Context) {
	var req request.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.UpdateMemberRole(currentUser(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// SetMemberPermission 单项覆盖成员权限
// POST /group/setMemberPermission
// 请求体: request.SetMemberPermissionRequest
// 响应: nil
func (h *GroupHandler) SetMemberPermission(c *gin.Context) {
	var req request.SetMemberPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.SetMemberPermission(currentUser(c), req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// RemoveMember 移出成员（user_id 为本人时即退群）
// POST /group/removeMember
// 请求体: request.RemoveMemberRequest
// 响应: nil
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	var req request.RemoveMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.RemoveMember(currentUser(c), req.GroupId, req.UserId); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// CreateInvitation 创建邮件邀请
// POST /invitation/create
// 请求体: request.CreateInvitationRequest
// 响应: respond.InvitationRespond
func (h *GroupHandler) CreateInvitation(c *gin.Context) {
	var req request.CreateInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.CreateInvitation(currentUser(c), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListGroupInvitations 查看群组邀请列表
// GET /invitation/groupList?group_id=xxx
// 查询参数: request.GroupQueryRequest
// 响应: []respond.InvitationRespond
func (h *GroupHandler) ListGroupInvitations(c *gin.Context) {
	var req request.GroupQueryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.ListGroupInvitations(currentUser(c), req.GroupId)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// ListMyInvitations 查看发给我的邀请
// GET /invitation/myList
// 响应: []respond.InvitationRespond
func (h *GroupHandler) ListMyInvitations(c *gin.Context) {
	data, err := h.groupSvc.ListMyInvitations(currentUser(c))
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// AcceptInvitation 接受邀请并入群
// POST /invitation/accept
// 请求体: request.InvitationTokenRequest
// 响应: respond.GroupInfoRespond
func (h *GroupHandler) AcceptInvitation(c *gin.Context) {
	var req request.InvitationTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	data, err := h.groupSvc.AcceptInvitation(currentUser(c), req.Token)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, data)
}

// DeclineInvitation 拒绝邀请
// POST /invitation/decline
// 请求体: request.InvitationTokenRequest
// 响应: nil
func (h *GroupHandler) DeclineInvitation(c *gin.Context) {
	var req request.InvitationTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if err := h.groupSvc.DeclineInvitation(currentUser(c), req.Token); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
