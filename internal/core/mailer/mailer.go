// Package mailer delivers account activation tokens to users.
package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

const activationSubject = "Account Activation"

var activationTmpl = template.Must(template.New("activation").Parse(`<b>Please click below link to activate your account</b>
<br/>
<a href="{{.Link}}">Activate</a>
Token is {{.Token}}
`))

type Options struct {
	Host               string
	Port               int
	Username           string
	Password           string
	From               string
	InsecureSkipVerify bool
	ActivationURL      string // 例：http://localhost:8080/#/login?token=%s
}

// RenderActivation 返回 (subject, html body)
func RenderActivation(activationURL, token string) (string, string, error) {
	link := activationURL
	if strings.Contains(link, "%s") {
		link = fmt.Sprintf(activationURL, token)
	}
	var buf bytes.Buffer
	if err := activationTmpl.Execute(&buf, struct{ Link, Token string }{link, token}); err != nil {
		return "", "", err
	}
	return activationSubject, buf.String(), nil
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type SMTP struct {
	opts   Options
	dialer sender
	log    *zap.Logger
}

func NewSMTP(o Options, l *zap.Logger) *SMTP {
	// gomail.Dialer 连接超时固定为 10s，没有可配置项
	d := gomail.NewDialer(o.Host, o.Port, o.Username, o.Password)
	if o.InsecureSkipVerify {
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return &SMTP{opts: o, dialer: d, log: l}
}

func (s *SMTP) SendAccountActivation(ctx context.Context, email, token string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	subject, body, err := RenderActivation(s.opts.ActivationURL, token)
	if err != nil {
		return fmt.Errorf("render activation mail: %w", err)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.opts.From)
	m.SetHeader("To", email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Warn("activation mail failed", zap.String("to", email), zap.Error(err))
		return fmt.Errorf("send activation mail: %w", err)
	}
	s.log.Debug("activation mail sent", zap.String("to", email))
	return nil
}

// Log 不发信，只记录激活链接（本地开发用）
type Log struct {
	activationURL string
	log           *zap.Logger
}

func NewLog(activationURL string, l *zap.Logger) *Log {
	return &Log{activationURL: activationURL, log: l}
}

func (n *Log) SendAccountActivation(_ context.Context, email, token string) error {
	link := n.activationURL
	if strings.Contains(link, "%s") {
		link = fmt.Sprintf(n.activationURL, token)
	}
	n.log.Info("activation mail (log driver)", zap.String("to", email), zap.String("link", link))
	return nil
}
