package common

import (
	"fmt"
	"log"
	"os"

	"ebw/src/db"
	"ebw/src/lib"
	"ebw/src/lib/mailer"
	"ebw/src/models"

	"github.com/tidwall/gjson"
)

// MailDispatcher sends booking lifecycle emails. Every call runs in its
// own goroutine and only logs failures; a lost email never blocks or
// fails a booking.
type MailDispatcher struct{}

func (m *MailDispatcher) BookingWhitelisted(bookingID uint) {
	go m.send(bookingID, "You are on the waiting list", func(b *models.Booking, ev *models.Event) string {
		return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>%s is currently fully booked. Your registration has been added to the waiting list.</p>
		<p>We will notify you as soon as a spot opens up. No payment has been taken.</p>
		<p>This is a system-generated message. Do not reply to this email.</p>
		`, b.FirstName, ev.Title)
	})
}

func (m *MailDispatcher) ApprovalRequested(bookingID uint) {
	go m.send(bookingID, "Your registration is pending approval", func(b *models.Booking, ev *models.Event) string {
		return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your registration for %s has been received and is awaiting review by the organizer.</p>
		<p>You will receive a confirmation once it has been approved.</p>
		<p>This is a system-generated message. Do not reply to this email.</p>
		`, b.FirstName, ev.Title)
	})
}

func (m *MailDispatcher) BookingConfirmed(bookingID uint) {
	go m.send(bookingID, "Your booking is confirmed", func(b *models.Booking, ev *models.Event) string {
		return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking for %s is confirmed.</p>
		<p>Booking reference: %d</p>
		<p>View your booking <a href="%s/bookings/%d">here</a>.</p>
		<p>This is a system-generated message. Do not reply to this email.</p>
		`, b.FirstName, ev.Title, b.ID, os.Getenv("APP_HOST"), b.ID)
	})
}

func (m *MailDispatcher) PaymentPending(bookingID uint) {
	go m.send(bookingID, "Complete your booking", func(b *models.Booking, ev *models.Event) string {
		return fmt.Sprintf(`
		<p>Hi %s,</p>
		<p>Your booking for %s has been saved and is awaiting payment.</p>
		<p>It will be held for one hour. You can resume it any time before then via <a href="%s/events/%d/book?resume=%d">this link</a>.</p>
		<p>This is a system-generated message. Do not reply to this email.</p>
		`, b.FirstName, ev.Title, os.Getenv("APP_HOST"), b.EventID, b.ID)
	})
}

func (m *MailDispatcher) send(bookingID uint, subject string, body func(b *models.Booking, ev *models.Event) string) {
	conn := db.GetDb()
	var b models.Booking
	if err := conn.
		Where(&models.Booking{ID: bookingID}).
		Preload("Event").
		First(&b).
		Error; err != nil {
		log.Printf("[Notify] Could not load booking [%d]: %s\n", bookingID, err.Error())
		return
	}
	if b.Email == "" {
		log.Printf("[Notify] Booking [%d] has no contact email. Skipping\n", bookingID)
		return
	}
	input := &lib.SendMailInput{
		From:     os.Getenv("SMTP_FROM"),
		FromName: "Bookings",
		To:       []string{b.Email},
		Subject:  subject,
		Body:     body(&b, b.Event),
		Html:     true,
	}
	if err := mailer.NewMailerMessage(input); err != nil {
		log.Printf("[mailer] Error sending message: %s\n", err.Error())
	}
}

// KafkaEmailsConsumer drains the email queue topic and delivers each
// message over SMTP.
func KafkaEmailsConsumer(spayload string) {
	if !gjson.Valid(spayload) {
		log.Println("[emails]: Received invalid json body. Aborting")
		return
	}
	to := []string{}
	for _, v := range gjson.Get(spayload, "to").Array() {
		to = append(to, v.String())
	}
	cc := []string{}
	for _, v := range gjson.Get(spayload, "cc").Array() {
		cc = append(cc, v.String())
	}
	bcc := []string{}
	for _, v := range gjson.Get(spayload, "bcc").Array() {
		bcc = append(bcc, v.String())
	}
	input := &lib.SendMailInput{
		From:     gjson.Get(spayload, "from").String(),
		FromName: gjson.Get(spayload, "from-name").String(),
		To:       to,
		Cc:       cc,
		Bcc:      bcc,
		ReplyTo:  gjson.Get(spayload, "reply-to").String(),
		Subject:  gjson.Get(spayload, "subject").String(),
		Body:     gjson.Get(spayload, "body").String(),
		Html:     gjson.Get(spayload, "html").Bool(),
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("[emails] Error delivering mail: %s\n", err.Error())
	}
}

func QueueConsumers() {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	lib.KafkaConsumeTopic("emails", emailQueue, func(value []byte) {
		KafkaEmailsConsumer(string(value))
	})
}
