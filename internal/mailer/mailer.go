// Package mailer sends transactional email over SMTP. When no SMTP
// credentials are configured it runs in dev mode: messages are logged
// instead of sent, so local flows that trigger email still complete.
package mailer

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"log/slog"
	"net/smtp"
	"strings"
	"time"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
}

type Mailer struct {
	cfg     Config
	devMode bool
	log     *slog.Logger
	send    func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func New(cfg Config, log *slog.Logger) *Mailer {
	return &Mailer{
		cfg:     cfg,
		devMode: cfg.Username == "" || cfg.Password == "",
		log:     log,
		send:    smtp.SendMail,
	}
}

type Attachment struct {
	Filename string
	MimeType string
	Data     []byte
}

type Message struct {
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []Attachment
}

func (m *Mailer) Send(msg Message) error {
	const op = "mailer.Mailer.Send"

	if m.devMode {
		m.log.Info("dev mode: skipping email send",
			"to", strings.Join(msg.To, ","),
			"subject", msg.Subject,
			"attachments", len(msg.Attachments),
		)
		return nil
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	var body bytes.Buffer
	boundary := fmt.Sprintf("boundary_%d", time.Now().UnixNano())

	fmt.Fprintf(&body, "From: %s <%s>\r\n", m.cfg.FromName, m.cfg.From)
	fmt.Fprintf(&body, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&body, "Subject: %s\r\n", msg.Subject)
	fmt.Fprintf(&body, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&body, "Content-Type: multipart/mixed; boundary=%s\r\n\r\n", boundary)

	fmt.Fprintf(&body, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, msg.HTMLBody)

	for _, att := range msg.Attachments {
		fmt.Fprintf(&body,
			"--%s\r\nContent-Type: %s; name=%q\r\nContent-Transfer-Encoding: base64\r\nContent-Disposition: attachment; filename=%q\r\n\r\n%s\r\n",
			boundary, att.MimeType, att.Filename, att.Filename,
			base64.StdEncoding.EncodeToString(att.Data),
		)
	}
	fmt.Fprintf(&body, "--%s--\r\n", boundary)

	if err := m.send(addr, auth, m.cfg.From, msg.To, body.Bytes()); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	return nil
}

var otpTmpl = template.Must(template.New("otp").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;background:#f5f5f5;padding:32px;">
<div style="max-width:560px;margin:0 auto;background:#fff;border-radius:12px;padding:32px;">
<h2 style="color:#1a1a2e;margin-top:0;">{{.Title}}</h2>
<p>{{.Intro}}</p>
<div style="border:2px dashed #1a1a2e;border-radius:8px;padding:20px;text-align:center;">
<span style="font-size:36px;font-weight:bold;letter-spacing:8px;">{{.Code}}</span>
</div>
<p style="color:#888;font-size:13px;margin-top:24px;">The code expires in {{.TTLMinutes}} minutes. If you did not request it, ignore this email.</p>
</div></body></html>`))

type otpData struct {
	Title      string
	Intro      string
	Code       string
	TTLMinutes int
}

// SendOTP delivers a verification code. Purpose picks the wording; the flows
// that mint codes are email verification and invitation acceptance.
func (m *Mailer) SendOTP(to, purpose, code string, ttl time.Duration) error {
	data := otpData{
		Title:      "Verification Code",
		Intro:      "Use the code below to continue.",
		Code:       code,
		TTLMinutes: int(ttl.Minutes()),
	}
	switch purpose {
	case "email_verification":
		data.Title = "Verify Your Email"
		data.Intro = "Welcome! Confirm your email address with the code below."
	case "invitation":
		data.Title = "You Have Been Invited"
		data.Intro = "You were added to a group registration. Confirm with the code below to claim your slot."
	}

	var buf bytes.Buffer
	if err := otpTmpl.Execute(&buf, data); err != nil {
		return err
	}

	return m.Send(Message{
		To:       []string{to},
		Subject:  data.Title,
		HTMLBody: buf.String(),
	})
}

var invitationTmpl = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;background:#f5f5f5;padding:32px;">
<div style="max-width:560px;margin:0 auto;background:#fff;border-radius:12px;padding:32px;">
<h2 style="color:#1a1a2e;margin-top:0;">Group Registration Invitation</h2>
<p>Hello {{.Name}},</p>
<p>{{.InviterName}} has reserved a slot for you under group registration <strong>{{.BulkNumber}}</strong>.</p>
<p>Your verification code:</p>
<div style="border:2px dashed #1a1a2e;border-radius:8px;padding:20px;text-align:center;">
<span style="font-size:36px;font-weight:bold;letter-spacing:8px;">{{.Code}}</span>
</div>
<p>Verify the code to start your contestant registration. Your slot's fee is already covered.</p>
<p style="color:#888;font-size:13px;margin-top:24px;">The code expires in {{.TTLMinutes}} minutes.</p>
</div></body></html>`))

type InvitationData struct {
	Name        string
	Email       string
	InviterName string
	BulkNumber  string
	Code        string
	TTLMinutes  int
}

func (m *Mailer) SendInvitation(data InvitationData) error {
	var buf bytes.Buffer
	if err := invitationTmpl.Execute(&buf, data); err != nil {
		return err
	}

	return m.Send(Message{
		To:       []string{data.Email},
		Subject:  fmt.Sprintf("Invitation to group registration %s", data.BulkNumber),
		HTMLBody: buf.String(),
	})
}

var ticketTmpl = template.Must(template.New("ticket").Parse(`<!DOCTYPE html>
<html><body style="font-family:Arial,sans-serif;background:#f5f5f5;padding:32px;">
<div style="max-width:560px;margin:0 auto;background:#fff;border-radius:12px;padding:32px;">
<h2 style="color:#1a1a2e;margin-top:0;">Your Tickets Are Confirmed</h2>
<p>Hello {{.Name}}, your payment of <strong>{{.Amount}}</strong> was successful.</p>
<p>Ticket numbers:</p>
<ul>{{range .TicketNumbers}}<li><strong>{{.}}</strong></li>{{end}}</ul>
<p>Your tickets are attached as a PDF. Present the QR code at the entrance.</p>
</div></body></html>`))

type TicketEmailData struct {
	Name          string
	Email         string
	Amount        string
	TicketNumbers []string
	PDF           []byte
}

func (m *Mailer) SendTickets(data TicketEmailData) error {
	var buf bytes.Buffer
	if err := ticketTmpl.Execute(&buf, data); err != nil {
		return err
	}

	msg := Message{
		To:       []string{data.Email},
		Subject:  fmt.Sprintf("Your %d event ticket(s)", len(data.TicketNumbers)),
		HTMLBody: buf.String(),
	}
	if len(data.PDF) > 0 {
		msg.Attachments = []Attachment{{
			Filename: "tickets.pdf",
			MimeType: "application/pdf",
			Data:     data.PDF,
		}}
	}

	return m.Send(msg)
}
