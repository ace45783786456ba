// utils/mailer.go
package utils

import (
	"fmt"
	"log"
	"net/smtp"

	"github.com/YugalRajVimal/dairy-management-server-sub000/config"
)

// SendOTPMail delivers the sign-in code over SMTP. Delivery is
// best-effort: callers fire it in a goroutine and a failure must never
// block or roll back the request that triggered it.
func SendOTPMail(to, name, otp string) {
	if config.SMTPHost == "" {
		log.Printf("SMTP not configured, OTP for %s not mailed", to)
		return
	}

	body := fmt.Sprintf("To: %s\r\nSubject: Your dairy back-office sign-in code\r\n\r\n"+
		"Hello %s,\r\n\r\nYour one-time sign-in code is %s. It expires in %s.\r\n",
		to, name, otp, config.OTPTTL)

	addr := config.SMTPHost + ":" + config.SMTPPort
	var auth smtp.Auth
	if config.SMTPUser != "" {
		auth = smtp.PlainAuth("", config.SMTPUser, config.SMTPPassword, config.SMTPHost)
	}

	if err := smtp.SendMail(addr, auth, config.MailFrom, []string{to}, []byte(body)); err != nil {
		log.Printf("OTP mail to %s failed: %v", to, err)
		return
	}
	log.Printf("OTP mail sent to %s", to)
}
