package boot

import (
	"log"
	"os"

	"ebw/src/common"
	"ebw/src/db"
	"ebw/src/lib"
	"ebw/src/models"
	"ebw/src/utils"

	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	conn := db.GetDb()

	err := conn.AutoMigrate(
		&models.User{},
		&models.BannedAttendee{},
		&models.MailingListSubscriber{},
		&models.Event{},
		&models.EventSection{},
		&models.SectionPricing{},
		&models.EventPricing{},
		&models.FormField{},
		&models.Discount{},
		&models.Booking{},
		&models.SectionBooking{},
		&models.Participant{},
		&models.DiscountApplication{},
		&models.Transaction{},
		&models.JobTask{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return conn
}

func InitScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	sched.Start()
	jobsWaitingInQueue := len(sched.Jobs())
	log.Println("Jobs in queue:", jobsWaitingInQueue)

	// Pending expiry timers are lost on restart; re-arm them from
	// their persisted job rows.
	go utils.EnqueueJobs()
}

func StopScheduler() {
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("Error retrieving Scheduler. Check logs for info")
		return
	}
	err = sched.Shutdown()
	if err != nil {
		log.Println("An error has occurred while stopping Scheduler. Check logs for info")
		return
	}
}

func InitBroker() {
	emailQueue := os.Getenv("EMAIL_QUEUE")
	go lib.KafkaCreateTopics(emailQueue)
	common.QueueConsumers()
}
