package request

// UpdateMemberRoleRequest 变更成员角色请求
// 使用位置:
//   - internal/handler/group_handler.go: UpdateMemberRole
//   - internal/service/group/service.go: UpdateMemberRole
type UpdateMemberRoleRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	UserId  string `json:"user_id" binding:"required"`
	Role    string `json:"role" binding:"required"`
	// Permissions 资源类型到级别的单项覆盖，与角色预设在同一事务内生效
	Permissions map[string]string `json:"permissions"`
}
