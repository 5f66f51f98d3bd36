package mailer

import (
	"fmt"
	"log"
	"os"

	"ebw/src/lib"
)

// NewMailerMessage enqueues an email on the queue topic. Outside of
// local mode there is no broker and the message is sent directly; the
// caller treats either path as fire-and-forget.
func NewMailerMessage(input *lib.SendMailInput) error {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	apiEnv := os.Getenv("API_ENV")
	emailBody := map[string]any{
		"from":      input.From,
		"from-name": input.FromName,
		"to":        input.To,
		"cc":        input.Cc,
		"bcc":       input.Bcc,
		"reply-to":  input.ReplyTo,
		"body":      input.Body,
		"html":      input.Html,
		"subject":   input.Subject,
	}
	if apiEnv == "local" {
		if err := lib.KafkaProduceMessage("emails", emailQueue, emailBody); err != nil {
			return fmt.Errorf("error sending message to queue: %s", err.Error())
		}
		return nil
	}
	if err := lib.SendMail(input); err != nil {
		log.Printf("[Mailer] Error sending mail: %s\n", err.Error())
		return err
	}
	return nil
}
