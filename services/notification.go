package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"sync"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"google.golang.org/api/option"

	"tripmate-backend/config"
	"tripmate-backend/database"
	"tripmate-backend/models"
)

type NotificationService struct {
	messaging *messaging.Client
}

var notifService *NotificationService
var notifOnce sync.Once

func GetNotificationService() *NotificationService {
	notifOnce.Do(func() {
		notifService = &NotificationService{}

		app, err := firebase.NewApp(context.Background(), nil,
			option.WithCredentialsFile(config.AppConfig.FirebaseCredPath))
		if err != nil {
			log.Printf("⚠️  Firebase unavailable, push notifications disabled: %v", err)
			return
		}

		client, err := app.Messaging(context.Background())
		if err != nil {
			log.Printf("⚠️  FCM client init failed, push notifications disabled: %v", err)
			return
		}
		notifService.messaging = client
	})
	return notifService
}

// ============================================================
// PUSH NOTIFICATIONS via FCM
// ============================================================

func (ns *NotificationService) sendPush(travelerID, title, body string, data map[string]string) {
	if ns.messaging == nil {
		return
	}

	var device models.Device
	if err := database.DB.First(&device, "traveler_id = ?", travelerID).Error; err != nil {
		return // no device registered for this traveler
	}
	if device.FCMToken == "" {
		return
	}

	_, err := ns.messaging.Send(context.Background(), &messaging.Message{
		Token: device.FCMToken,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	})
	if err != nil {
		log.Printf("❌ Push send failed for %s: %v", travelerID, err)
		return
	}
	log.Printf("✅ Push notification sent to %s", travelerID)
}

func otherTraveler(travelerID string) string {
	if travelerID == config.AppConfig.TravelerOne {
		return config.AppConfig.TravelerTwo
	}
	return config.AppConfig.TravelerOne
}

// NotifyExpenseChanged pushes a ledger change to the traveler who did not
// make it. action is "added", "updated" or "deleted".
func (ns *NotificationService) NotifyExpenseChanged(action string, expense models.SharedExpense) {
	title := fmt.Sprintf("%s %s an expense", expense.PaidBy, action)
	body := fmt.Sprintf("\"%s\" (%s %.0f)", expense.Description, expense.Currency, expense.Amount)

	ns.sendPush(otherTraveler(expense.PaidBy), title, body, map[string]string{
		"type":       "expense_" + action,
		"expense_id": expense.ID.String(),
	})
}

// ============================================================
// EMAIL via SendGrid
// ============================================================

// SendSettlementEmail mails the current settlement summary.
func (ns *NotificationService) SendSettlementEmail(toEmail string, result models.SettlementResult) error {
	if config.AppConfig.SendGridAPIKey == "" {
		return fmt.Errorf("email delivery is not configured")
	}

	subject := fmt.Sprintf("%s — settlement summary", config.AppConfig.AppName)

	var plain string
	if result.Settled {
		plain = fmt.Sprintf("All settled! Total spent: %s %.0f", result.Currency, result.TotalSpent)
	} else {
		plain = fmt.Sprintf("%s pays %s %s %.0f (total spent %s %.0f)",
			result.TransferFrom, result.TransferTo, result.Currency, result.TransferAmount,
			result.Currency, result.TotalSpent)
	}

	from := mail.NewEmail(config.AppConfig.AppName, config.AppConfig.SendGridFrom)
	to := mail.NewEmail("", toEmail)
	message := mail.NewSingleEmail(from, subject, to, plain, buildSettlementEmailHTML(result))

	client := sendgrid.NewSendClient(config.AppConfig.SendGridAPIKey)
	resp, err := client.Send(message)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}

	log.Printf("✅ Settlement summary emailed to %s", toEmail)
	return nil
}

// ============================================================
// EMAIL TEMPLATES
// ============================================================

func buildSettlementEmailHTML(result models.SettlementResult) string {
	tmpl := `
<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5;">
	<div style="background: white; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,0.1);">
		<h2 style="color: #1DB954; margin-top: 0;">🧾 Trip Settlement Summary</h2>
		<div style="background: #f8f9fa; border-radius: 8px; padding: 16px; margin: 16px 0;">
			<p style="margin: 4px 0; color: #666;">Total spent: {{.Currency}} {{printf "%.0f" .TotalSpent}}</p>
			{{if .Settled}}
			<p style="margin: 4px 0; font-size: 18px;"><strong>All settled — no transfer needed 🎉</strong></p>
			{{else}}
			<p style="margin: 4px 0; font-size: 18px;"><strong>{{.TransferFrom}} pays {{.TransferTo}} {{.Currency}} {{printf "%.0f" .TransferAmount}}</strong></p>
			{{end}}
		</div>
		<p style="color: #999; font-size: 12px; margin-top: 24px;">— {{.AppName}}</p>
	</div>
</body>
</html>`

	t, _ := template.New("settlement").Parse(tmpl)
	var buf bytes.Buffer
	t.Execute(&buf, map[string]interface{}{
		"Currency":       result.Currency,
		"TotalSpent":     result.TotalSpent,
		"Settled":        result.Settled,
		"TransferFrom":   result.TransferFrom,
		"TransferTo":     result.TransferTo,
		"TransferAmount": result.TransferAmount,
		"AppName":        config.AppConfig.AppName,
	})
	return buf.String()
}
