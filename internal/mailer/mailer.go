package mailer

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"go.uber.org/zap"
)

const (
	MAX_RETRY        = 3
	WELCOME_TEMPLATE = "welcome.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, toUsername, toEmail string, data any) (int, error)
}

// WelcomeData is rendered by templates/welcome.tmpl.
type WelcomeData struct {
	AppName  string
	Username string
	LoginURL string
	LogoURL  string
}

func NewWelcomeData(username, frontURL string) WelcomeData {
	return WelcomeData{
		AppName:  util.GetAppName(),
		Username: username,
		LoginURL: frontURL + "/login",
		LogoURL:  util.GetAppLogoURL(frontURL),
	}
}

// render executes the "subject" and "body" blocks of a template.
func render(templateFile string, data any) (string, string, error) {
	tmpl, err := template.ParseFS(FS, "templates/"+templateFile)
	if err != nil {
		return "", "", err
	}

	subject := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(subject, "subject", data); err != nil {
		return "", "", err
	}

	body := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(body, "body", data); err != nil {
		return "", "", err
	}

	return subject.String(), body.String(), nil
}

// NewMailer picks the mail driver from config. An unknown or empty driver disables mail.
func NewMailer(cfg config.MailConfig, isProduction bool, logger *zap.SugaredLogger) Client {
	switch cfg.DRIVER {
	case "sendgrid":
		return NewSendgrid(cfg.SEND_GRID.API_KEY, cfg.FROM_EMAIL, isProduction, logger)
	case "smtp":
		return NewSMTPMailer(cfg.SMTP, cfg.FROM_EMAIL, logger)
	default:
		return NewNoopMailer(logger)
	}
}

// NoopMailer renders templates and logs instead of sending.
type NoopMailer struct {
	logger *zap.SugaredLogger
}

func NewNoopMailer(logger *zap.SugaredLogger) *NoopMailer {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}
	return &NoopMailer{logger: logger}
}

func (m NoopMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	subject, _, err := render(templateFile, data)
	if err != nil {
		return -1, err
	}

	m.logger.Infof("Mail disabled, skip sending %q to %s", subject, toEmail)
	return 0, nil
}
