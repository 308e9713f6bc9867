// Package email sends payment receipt emails. It supports a log-only
// development mode (the default) and an SMTP production mode.
package email

import (
	"fmt"
	"log/slog"
	"net/smtp"
	"os"
	"strconv"
)

// Sender delivers receipt emails
type Sender interface {
	SendPaymentReceipt(to, name, transactionID string, amount int64, method string) error
}

// Config holds email configuration
type Config struct {
	Mode     string // "log" or "smtp"
	Host     string
	Port     int
	User     string
	Password string
	From     string
	FromName string
}

// NewConfig creates a new email configuration from environment variables
func NewConfig() *Config {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	return &Config{
		Mode:     getEnvOrDefault("EMAIL_MODE", "log"),
		Host:     os.Getenv("SMTP_HOST"),
		Port:     port,
		User:     os.Getenv("SMTP_USER"),
		Password: os.Getenv("SMTP_PASSWORD"),
		From:     getEnvOrDefault("SMTP_FROM", "noreply@feeportal.example"),
		FromName: getEnvOrDefault("SMTP_FROM_NAME", "Student Fee Portal"),
	}
}

// NewSender creates a new email sender based on configuration
func NewSender(cfg *Config) Sender {
	if cfg.Mode == "smtp" {
		return &smtpSender{config: cfg}
	}
	return &logSender{}
}

// logSender logs receipts instead of sending them (development mode)
type logSender struct{}

func (s *logSender) SendPaymentReceipt(to, name, transactionID string, amount int64, method string) error {
	slog.Info("[DEV] Payment receipt",
		"to", to,
		"name", name,
		"transaction_id", transactionID,
		"amount", amount,
		"method", method,
	)
	return nil
}

// smtpSender sends receipts via SMTP (production mode)
type smtpSender struct {
	config *Config
}

func (s *smtpSender) SendPaymentReceipt(to, name, transactionID string, amount int64, method string) error {
	subject := "Your Fee Payment Receipt"
	body := s.buildReceiptBody(name, transactionID, amount, method)

	message := fmt.Sprintf("From: %s <%s>\r\n", s.config.FromName, s.config.From)
	message += fmt.Sprintf("To: %s\r\n", to)
	message += fmt.Sprintf("Subject: %s\r\n", subject)
	message += "MIME-Version: 1.0\r\n"
	message += "Content-Type: text/html; charset=UTF-8\r\n"
	message += "\r\n"
	message += body

	auth := smtp.PlainAuth("", s.config.User, s.config.Password, s.config.Host)
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if err := smtp.SendMail(addr, auth, s.config.From, []string{to}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	slog.Info("Payment receipt sent via SMTP", "to", to, "transaction_id", transactionID)
	return nil
}

func (s *smtpSender) buildReceiptBody(name, transactionID string, amount int64, method string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Payment Receipt</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h1>Payment Receipt</h1>
    <p>Hello %s,</p>
    <p>Your fee payment has been processed successfully.</p>
    <table style="border-collapse: collapse;">
        <tr><td style="padding: 4px 12px;">Transaction ID</td><td style="padding: 4px 12px;"><strong>%s</strong></td></tr>
        <tr><td style="padding: 4px 12px;">Amount</td><td style="padding: 4px 12px;">%d</td></tr>
        <tr><td style="padding: 4px 12px;">Payment method</td><td style="padding: 4px 12px;">%s</td></tr>
    </table>
    <p>Thank you!</p>
</body>
</html>`, name, transactionID, amount, method)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
