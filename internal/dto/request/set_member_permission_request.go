package request

// SetMemberPermissionRequest 单项覆盖成员权限请求
// 使用位置:
//   - internal/handler/group_handler.go: SetMemberPermission
//   - internal/service/group/service.go: SetMemberPermission
type SetMemberPermissionRequest struct {
	GroupId      string `json:"group_id" binding:"required"`
	UserId       string `json:"user_id" binding:"required"`
	ResourceType string `json:"resource_type" binding:"required"`
	Level        string `json:"level" binding:"required"`
}
