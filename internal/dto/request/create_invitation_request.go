package request

// CreateInvitationRequest 创建邮件邀请请求
// 使用位置:
//   - internal/handler/group_handler.go: CreateInvitation
//   - internal/service/group/service.go: CreateInvitation
type CreateInvitationRequest struct {
	GroupId      string `json:"group_id" binding:"required"`
	InviteeEmail string `json:"invitee_email" binding:"required,email"`
}
