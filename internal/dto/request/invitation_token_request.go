package request

// InvitationTokenRequest 接受/拒绝邀请请求
// 使用位置:
//   - internal/handler/group_handler.go: AcceptInvitation, DeclineInvitation
type InvitationTokenRequest struct {
	Token string `json:"token" binding:"required"`
}
