package boot

import (
	"log"
	"time"
	"uems/src/common"
	"uems/src/db"
	"uems/src/lib"
	"uems/src/models"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

func InitDb() *gorm.DB {
	db := db.GetDb()

	err := db.AutoMigrate(
		&models.User{},
		&models.ExternalPartner{},
		&models.Event{},
		&models.Ticket{},
		&models.Transaction{},
		&models.Registration{},
		&models.CheckIn{},
		&models.Subscription{},
		&models.ServiceListing{},
		&models.PlatformSettings{},
	)
	if err != nil {
		log.Fatalf("error migration: %s", err.Error())
	}

	return db
}

func InitBroker() {
	go lib.KafkaCreateTopics(lib.TopicTicketsIssued, lib.TopicCheckIns)
}

func InitScheduler() {
	// Sweeps back up the lazy checks done on read.
	id, err := lib.CreateCronJob(common.DeactivateLapsedSubscriptions, 24*time.Hour)
	if err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)
	id, err = lib.CreateCronJob(func() {
		common.ExpireStalePendingTickets(24 * time.Hour)
	}, time.Hour)
	if err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	log.Printf("Job ID: %s\n", *id)
	// Catch-up run shortly after boot so a long outage does not wait a full
	// interval before the sweeps fire.
	_, err = lib.CreateOneTimeCronJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(time.Minute))),
		gocron.NewTask(func() {
			common.DeactivateLapsedSubscriptions()
			common.ExpireStalePendingTickets(24 * time.Hour)
		}),
	)
	if err != nil {
		log.Printf("Error scheduling job: %s\n", err.Error())
		return
	}
	sched, err := lib.GetScheduler()
	if err != nil {
		log.Println("An error has occurred. Check logs for info")
		return
	}
	log.Println("Jobs in queue:", len(sched.Jobs()))
	sched.Start()
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
