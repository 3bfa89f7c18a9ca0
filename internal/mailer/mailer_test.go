package mailer

import (
	"log/slog"
	"net/smtp"
	"strings"
	"testing"
	"time"
)

func newCaptureMailer() (*Mailer, *captured) {
	cap := &captured{}
	m := New(Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@example.com",
		FromName: "Talent Hunt",
	}, slog.Default())
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		cap.addr = addr
		cap.from = from
		cap.to = to
		cap.msg = string(msg)
		return nil
	}
	return m, cap
}

type captured struct {
	addr string
	from string
	to   []string
	msg  string
}

func TestSendOTP(t *testing.T) {
	m, cap := newCaptureMailer()

	if err := m.SendOTP("user@example.com", "email_verification", "482913", 10*time.Minute); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}

	if cap.addr != "smtp.example.com:587" {
		t.Errorf("addr = %s", cap.addr)
	}
	if len(cap.to) != 1 || cap.to[0] != "user@example.com" {
		t.Errorf("to = %v", cap.to)
	}
	if !strings.Contains(cap.msg, "482913") {
		t.Error("OTP code missing from body")
	}
	if !strings.Contains(cap.msg, "Verify Your Email") {
		t.Error("purpose-specific subject missing")
	}
	if !strings.Contains(cap.msg, "10 minutes") {
		t.Error("TTL hint missing from body")
	}
}

func TestSendInvitation(t *testing.T) {
	m, cap := newCaptureMailer()

	err := m.SendInvitation(InvitationData{
		Name:        "Ada",
		Email:       "ada@example.com",
		InviterName: "Grace",
		BulkNumber:  "BULK-ETH2024000001",
		Code:        "771204",
		TTLMinutes:  1440,
	})
	if err != nil {
		t.Fatalf("SendInvitation: %v", err)
	}

	for _, want := range []string{"Ada", "Grace", "BULK-ETH2024000001", "771204", "1440 minutes"} {
		if !strings.Contains(cap.msg, want) {
			t.Errorf("body missing %q", want)
		}
	}
}

func TestSendTicketsAttachesPDF(t *testing.T) {
	m, cap := newCaptureMailer()

	err := m.SendTickets(TicketEmailData{
		Name:          "Ada",
		Email:         "ada@example.com",
		Amount:        "NGN 20,000",
		TicketNumbers: []string{"TKT-AB12CD34-001", "TKT-AB12CD34-002"},
		PDF:           []byte("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("SendTickets: %v", err)
	}

	if !strings.Contains(cap.msg, "Content-Type: application/pdf") {
		t.Error("PDF attachment missing")
	}
	if !strings.Contains(cap.msg, "TKT-AB12CD34-002") {
		t.Error("ticket numbers missing from body")
	}
	if !strings.Contains(cap.msg, "Subject: Your 2 event ticket(s)") {
		t.Error("subject missing ticket count")
	}
}

func TestDevModeSkipsSend(t *testing.T) {
	m := New(Config{Host: "smtp.example.com", Port: 587}, slog.Default())

	sent := false
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = true
		return nil
	}

	if err := m.SendOTP("user@example.com", "email_verification", "111111", time.Minute); err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if sent {
		t.Error("dev mode must not hit SMTP")
	}
}
