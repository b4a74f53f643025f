package respond

// GroupMemberRespond 群组成员响应
// Permissions 为资源类型到权限级别的映射
// 使用位置:
//   - internal/service/group/service.go: GetGroupMemberList, AddMember
type GroupMemberRespond struct {
	UserId      string            `json:"user_id"`
	FullName    string            `json:"full_name"`
	Email       string            `json:"email"`
	Role        string            `json:"role"`
	Permissions map[string]string `json:"permissions"`
}
