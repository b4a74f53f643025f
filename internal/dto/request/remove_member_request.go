package request

// RemoveMemberRequest 移出成员/本人退群请求
// 使用位置:
//   - internal/handler/group_handler.go: RemoveMember
type RemoveMemberRequest struct {
	GroupId string `json:"group_id" binding:"required"`
	UserId  string `json:"user_id" binding:"required"`
}
