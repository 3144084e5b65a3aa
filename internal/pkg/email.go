package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

// Enabled 未配置 SMTP 时邮件通道整体关闭
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Port > 0
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// EventReminderHTML 活动提醒邮件正文
func EventReminderHTML(eventTitle string) string {
	return fmt.Sprintf(`<p>您好，</p><p>您报名的活动 <b>%s</b> 将在一小时内开始，请准时参加。</p>`, eventTitle)
}
