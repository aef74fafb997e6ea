package utils

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends account-recovery email. Implementations must not block the
// calling request on delivery problems; callers log errors and move on.
type Mailer interface {
	SendPasswordReset(toEmail, nombre, resetURL string) error
}

// SMTPMailer delivers mail through a plain SMTP dialer.
type SMTPMailer struct {
	Host   string
	Port   int
	User   string
	Pass   string
	Sender string
}

func (m *SMTPMailer) SendPasswordReset(toEmail, nombre, resetURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.Sender)
	msg.SetHeader("To", toEmail)
	msg.SetHeader("Subject", "Recuperación de Contraseña - EFI Inmobiliaria")
	msg.SetBody("text/plain", fmt.Sprintf(
		"Hola %s,\n\n"+
			"Recibimos una solicitud para restablecer la contraseña de tu cuenta en EFI Inmobiliaria.\n\n"+
			"Visita el siguiente enlace para crear una nueva contraseña:\n%s\n\n"+
			"Este enlace expirará en 1 hora por motivos de seguridad.\n\n"+
			"Si no solicitaste restablecer tu contraseña, puedes ignorar este correo de forma segura.",
		nombre, resetURL))

	d := gomail.NewDialer(m.Host, m.Port, m.User, m.Pass)
	return d.DialAndSend(msg)
}
