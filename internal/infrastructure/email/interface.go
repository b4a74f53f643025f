// Package email 提供邀请邮件服务
// 本文件定义邮件服务接口，遵循依赖倒置原则
package email

// InvitationMail 邀请邮件内容
type InvitationMail struct {
	To          string // 收件人邮箱
	GroupName   string // 群组名称
	InviterName string // 邀请人姓名
	Token       string // 邀请令牌，用于拼接接受链接
}

// EmailService 邮件服务接口
// 抽象邮件发送操作，支持多种实现（SMTP、本地 mock 等）
// 调用方应依赖此接口而非具体实现
type EmailService interface {
	// SendInvitation 发送群组邀请邮件
	// 返回: 操作错误
	SendInvitation(mail InvitationMail) error
}

// 确保两种实现都满足 EmailService 接口
var (
	_ EmailService = (*localEmailService)(nil)
	_ EmailService = (*smtpEmailService)(nil)
)
