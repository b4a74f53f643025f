package respond

// InvitationRespond 群组邀请响应
// 使用位置:
//   - internal/service/group/service.go: CreateInvitation, ListGroupInvitations, ListMyInvitations
type InvitationRespond struct {
	Uuid         string `json:"uuid"`
	GroupId      string `json:"group_id"`
	GroupName    string `json:"group_name"`
	InviterId    string `json:"inviter_id"`
	InviteeEmail string `json:"invitee_email"`
	Token        string `json:"token"`
	Status       string `json:"status"`
	ExpiresAt    string `json:"expires_at"`
}
