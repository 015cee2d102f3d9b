package mailer

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// layout wraps body content in the shared HTML frame.
func layout(title, body string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<style>
		body { font-family: 'Helvetica Neue', Helvetica, Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0; }
		.container { max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden; }
		.header { background-color: #1E3A8A; padding: 24px; text-align: center; }
		.header h1 { color: #FFFFFF; margin: 0; font-size: 22px; }
		.content { padding: 32px 28px; color: #111827; line-height: 1.6; }
		.row { margin: 6px 0; }
		.label { font-weight: bold; }
		.footer { background: #F3F4F6; padding: 16px; text-align: center; font-size: 12px; color: #6B7280; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header"><h1>%s</h1></div>
		<div class="content">%s</div>
		<div class="footer">&copy; %d Learnly</div>
	</div>
</body>
</html>`, html.EscapeString(title), body, time.Now().Year())
}

// LeadField is one label/value pair shown in a lead notification.
type LeadField struct {
	Label string
	Value string
}

// LeadNotification tells a landing page owner about a new lead.
func LeadNotification(ownerName, ownerEmail, pageTitle string, fields []LeadField) Message {
	var rows, text strings.Builder
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		fmt.Fprintf(&rows, `<p class="row"><span class="label">%s:</span> %s</p>`, html.EscapeString(f.Label), html.EscapeString(f.Value))
		fmt.Fprintf(&text, "%s: %s\n", f.Label, f.Value)
	}

	subject := fmt.Sprintf("New lead from %s", pageTitle)
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Your landing page <b>%s</b> received a new contact:</p>%s`,
		html.EscapeString(ownerName), html.EscapeString(pageTitle), rows.String())

	return Message{
		ToName:  ownerName,
		ToEmail: ownerEmail,
		Subject: subject,
		Text:    text.String(),
		HTML:    layout("New lead", body),
	}
}

// PaymentApproved confirms a purchase to the buyer.
func PaymentApproved(name, email, productName string, amount float64, currency string) Message {
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Your payment of <b>%s %.2f</b> for <b>%s</b> was approved. Enjoy!</p>`,
		html.EscapeString(name), html.EscapeString(currency), amount, html.EscapeString(productName))
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Payment approved: " + productName,
		Text:    fmt.Sprintf("Your payment of %s %.2f for %s was approved.", currency, amount, productName),
		HTML:    layout("Payment approved", body),
	}
}

// Welcome greets a new account.
func Welcome(name, email string) Message {
	body := fmt.Sprintf(`<p>Hello %s,</p><p>Your account was created. You can now browse the trainings catalog.</p>`, html.EscapeString(name))
	return Message{
		ToName:  name,
		ToEmail: email,
		Subject: "Welcome to Learnly",
		Text:    "Your account was created.",
		HTML:    layout("Welcome", body),
	}
}
