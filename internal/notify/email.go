package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/smtp"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/ktantikarun/petrolprice-line-bot/internal/prices"
)

// EmailConfig configures the optional secondary email channel. The broadcast
// contract is unchanged; email goes to a single fixed operator address.
type EmailConfig struct {
	Enabled     bool
	Provider    string // "smtp", "sendgrid", "resend"
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
	APIKey      string
	To          string
	UseTLS      bool
}

// EmailNotifier renders the same price table as an HTML email.
type EmailNotifier struct {
	cfg EmailConfig
}

func NewEmailNotifier(cfg EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

func (n *EmailNotifier) Name() string { return "email" }

func (n *EmailNotifier) Notify(ctx context.Context, snap *prices.Snapshot) error {
	subject := fmt.Sprintf("Fuel price change for %s", snap.ReportDate)
	body, err := renderEmailHTML(snap)
	if err != nil {
		return fmt.Errorf("render email: %w", err)
	}

	switch n.cfg.Provider {
	case "smtp", "gmail":
		return n.sendSMTP(subject, body)
	case "sendgrid":
		return n.sendSendgrid(subject, body)
	case "resend":
		return n.sendResend(ctx, subject, body)
	default:
		return fmt.Errorf("unknown email provider: %s", n.cfg.Provider)
	}
}

var emailTemplate = template.Must(template.New("prices").Parse(`
<h3>Fuel prices for {{.ReportDate}}</h3>
<p>Tomorrow's prices differ from today's.</p>
<table border="1" cellpadding="4" cellspacing="0">
<tr><th>Fuel type</th><th>Today</th><th>Tomorrow</th><th>Change</th></tr>
{{range .Rows}}<tr><td>{{.FuelType}}</td><td>{{.Today}}</td><td>{{.Tomorrow}}</td><td>{{.Diff}}</td></tr>
{{end}}</table>
`))

type emailRow struct {
	FuelType, Today, Tomorrow, Diff string
}

func renderEmailHTML(snap *prices.Snapshot) (string, error) {
	data := struct {
		ReportDate string
		Rows       []emailRow
	}{ReportDate: snap.ReportDate}
	for _, r := range snap.Rows {
		data.Rows = append(data.Rows, emailRow{
			FuelType: r.FuelType,
			Today:    prices.FormatPrice(r.Today),
			Tomorrow: prices.FormatPrice(r.Tomorrow),
			Diff:     prices.DiffText(r.Today, r.Tomorrow),
		})
	}
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (n *EmailNotifier) sendSMTP(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	msg := []byte(fmt.Sprintf("To: %s\r\n"+
		"Subject: %s\r\n"+
		"MIME-Version: 1.0\r\n"+
		"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
		"\r\n"+
		"%s\r\n", n.cfg.To, subject, body))

	if !n.cfg.UseTLS {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		return smtp.SendMail(addr, auth, n.cfg.FromAddress, []string{n.cfg.To}, msg)
	}

	c, err := smtp.Dial(addr)
	if err != nil {
		return err
	}
	defer c.Quit()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: n.cfg.Host}); err != nil {
			return err
		}
	}
	if n.cfg.Username != "" && n.cfg.Password != "" {
		auth := smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, n.cfg.Host)
		if err := c.Auth(auth); err != nil {
			return err
		}
	}
	if err := c.Mail(n.cfg.FromAddress); err != nil {
		return err
	}
	if err := c.Rcpt(n.cfg.To); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	return w.Close()
}

func (n *EmailNotifier) sendSendgrid(subject, body string) error {
	from := mail.NewEmail(n.cfg.FromName, n.cfg.FromAddress)
	to := mail.NewEmail("", n.cfg.To)
	message := mail.NewSingleEmail(from, subject, to, body, body)
	client := sendgrid.NewSendClient(n.cfg.APIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: %d %s", resp.StatusCode, resp.Body)
	}
	return nil
}

func (n *EmailNotifier) sendResend(ctx context.Context, subject, body string) error {
	payload, err := json.Marshal(map[string]string{
		"from":    fmt.Sprintf("%s <%s>", n.cfg.FromName, n.cfg.FromAddress),
		"to":      n.cfg.To,
		"subject": subject,
		"html":    body,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("resend error: %d %s", resp.StatusCode, msg)
	}
	return nil
}
