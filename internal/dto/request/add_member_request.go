package request

// AddMemberRequest 添加群组成员请求
// 使用位置:
//   - internal/handler/group_handler.go: AddMember
//   - internal/service/group/service.go: AddMember
type AddMemberRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	UserId  string `json:"user_id" binding:"required"`
	Role    string `json:"role"` // 空值默认 member
	// Permissions 资源类型到级别的单项覆盖，与角色预设在同一事务内生效
	Permissions map[string]string `json:"permissions"`
}
