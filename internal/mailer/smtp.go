package mailer

import (
	"fmt"
	"net/http"

	"github.com/SeakMengs/ProjectHub/internal/config"
	"github.com/SeakMengs/ProjectHub/internal/util"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

type SMTPMailer struct {
	fromEmail string
	fromName  string
	host      string
	port      int
	username  string
	password  string
	logger    *zap.SugaredLogger
}

func NewSMTPMailer(cfg config.SMTPConfig, fromEmail string, logger *zap.SugaredLogger) *SMTPMailer {
	// For unit test
	if logger == nil {
		logger = util.NewLogger("development")
	}

	if fromEmail == "" {
		fromEmail = cfg.USERNAME
	}

	return &SMTPMailer{
		fromEmail: fromEmail,
		fromName:  util.GetAppName(),
		host:      cfg.HOST,
		port:      cfg.PORT,
		username:  cfg.USERNAME,
		password:  cfg.PASSWORD,
		logger:    logger,
	}
}

func (sm *SMTPMailer) message(templateFile, toUsername, toEmail string, data any) (*gomail.Message, error) {
	subject, body, err := render(templateFile, data)
	if err != nil {
		return nil, err
	}

	message := gomail.NewMessage()
	message.SetHeader("From", message.FormatAddress(sm.fromEmail, sm.fromName))
	message.SetHeader("To", message.FormatAddress(toEmail, toUsername))
	message.SetHeader("Subject", subject)
	message.SetBody("text/html", body)
	return message, nil
}

func (sm *SMTPMailer) Send(templateFile, toUsername, toEmail string, data any) (int, error) {
	message, err := sm.message(templateFile, toUsername, toEmail, data)
	if err != nil {
		sm.logger.Errorw("failed to render email template", "error", err, "templateFile", templateFile)
		return http.StatusInternalServerError, err
	}

	dialer := gomail.NewDialer(sm.host, sm.port, sm.username, sm.password)

	if err := dialer.DialAndSend(message); err != nil {
		sm.logger.Errorw("failed to send email", "error", err, "toEmail", toEmail, "templateFile", templateFile)
		return http.StatusInternalServerError, fmt.Errorf("failed to send email: %w", err)
	}

	sm.logger.Infow("email sent successfully", "toEmail", toEmail, "templateFile", templateFile)

	return http.StatusOK, nil
}
