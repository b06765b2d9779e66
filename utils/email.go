package utils

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

type OrderConfirmationData struct {
	RestaurantName string
	OrderNumber    uint
	Total          float64
	PaymentMethod  string
	ItemCount      int
}

var orderConfirmationTmpl = template.Must(template.New("order").Parse(
	`<p>Thanks for your order at {{.RestaurantName}}.</p>` +
		`<p>Order #{{.OrderNumber}}: {{.ItemCount}} item(s), total {{printf "%.2f" .Total}} ({{.PaymentMethod}}).</p>`))

type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer returns nil when SMTP is not configured; a nil Mailer drops mail.
func NewMailer(host string, port int, username, password, from string) *Mailer {
	if host == "" || from == "" {
		return nil
	}
	return &Mailer{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (m *Mailer) SendOrderConfirmation(to string, data OrderConfirmationData) error {
	if m == nil || to == "" {
		return nil
	}
	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, data); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order #%d confirmation", data.OrderNumber))
	msg.SetBody("text/html", body.String())
	return m.dialer.DialAndSend(msg)
}

// SendOrderConfirmationAsync sends without blocking the caller.
func (m *Mailer) SendOrderConfirmationAsync(to string, data OrderConfirmationData) {
	if m == nil || to == "" {
		return
	}
	go func() {
		if err := m.SendOrderConfirmation(to, data); err != nil {
			logrus.WithFields(logrus.Fields{"to": to, "order_number": data.OrderNumber, "error": err}).
				Warn("order confirmation email failed")
		}
	}()
}
