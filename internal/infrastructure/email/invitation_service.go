package email

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"dingcan_server/internal/config"
)

// localEmailService 本地 mock 实现
// 不发真实邮件，只打印内容，便于本机跑通邀请链路
type localEmailService struct {
	frontendUrl string
}

func (s *localEmailService) SendInvitation(mail InvitationMail) error {
	fmt.Printf("【MockEmail】收件人: %s, 群组: %s, 邀请链接: %s\n",
		mail.To, mail.GroupName, acceptLink(s.frontendUrl, mail.Token))
	return nil
}

func shouldUseMock(cfg config.EmailConfig) bool {
	provider := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if provider == "local" || provider == "mock" || provider == "test" {
		return true
	}
	// configs/config.toml 默认是占位字符串；没配真实 SMTP 时默认走 mock
	if strings.TrimSpace(cfg.SmtpHost) == "" || strings.TrimSpace(cfg.FromAddress) == "" {
		return true
	}
	return false
}

// smtpEmailService SMTP 实现
// 使用 gomail 经 SMTP 发送真实邮件
type smtpEmailService struct {
	dialer      *gomail.Dialer
	from        string
	frontendUrl string
}

// Init 根据配置创建邮件服务实例
// 未配置真实 SMTP 时返回本地 mock 实现
func Init() EmailService {
	cfg := config.GetConfig().EmailConfig
	if shouldUseMock(cfg) {
		zap.L().Warn("Email Service 使用本地 Mock 模式（仅打印邮件内容，不经 SMTP 发送）")
		return &localEmailService{frontendUrl: cfg.FrontendUrl}
	}
	return &smtpEmailService{
		dialer:      gomail.NewDialer(cfg.SmtpHost, cfg.SmtpPort, cfg.SmtpUser, cfg.SmtpPass),
		from:        cfg.FromAddress,
		frontendUrl: cfg.FrontendUrl,
	}
}

// SendInvitation 发送群组邀请邮件
// 拼接前端接受链接，以 HTML 正文发出
func (s *smtpEmailService) SendInvitation(mail InvitationMail) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", fmt.Sprintf("%s 邀请您加入拼单群组「%s」", mail.InviterName, mail.GroupName))
	m.SetBody("text/html", fmt.Sprintf(
		"<p>%s 邀请您加入拼单群组「%s」。</p><p><a href=%q>点击接受邀请</a></p><p>邀请 7 天内有效。</p>",
		mail.InviterName, mail.GroupName, acceptLink(s.frontendUrl, mail.Token)))

	if err := s.dialer.DialAndSend(m); err != nil {
		zap.L().Error("邀请邮件发送失败", zap.Error(err), zap.String("to", mail.To))
		return err
	}
	return nil
}

// acceptLink 拼接前端接受邀请的链接
func acceptLink(frontendUrl, token string) string {
	return strings.TrimRight(frontendUrl, "/") + "/invitations/accept?token=" + token
}
