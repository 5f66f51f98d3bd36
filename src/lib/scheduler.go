package lib

import (
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
)

var scheduler gocron.Scheduler

func NewScheduler(s gocron.Scheduler) {
	scheduler = s
}

func GetScheduler() (gocron.Scheduler, error) {
	if scheduler != nil {
		return scheduler, nil
	}
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("Error initializing Scheduler: %s\n", err.Error())
		return nil, err
	}
	scheduler = sched
	numJobs := len(sched.Jobs())
	log.Printf("Jobs in queue: %d\n", numJobs)
	return sched, nil
}

func CreateOneTimeJob(startDate time.Time, handler any, args ...any) (*uuid.UUID, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(startDate)),
		gocron.NewTask(handler, args...),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID()
	log.Printf("New Job scheduled: %s at %s\n", id.String(), startDate)
	return &id, nil
}

func CreateCronJob(handler any, duration time.Duration, args ...any) (*string, error) {
	sched, err := GetScheduler()
	if err != nil {
		return nil, err
	}
	j, err := sched.NewJob(
		gocron.DurationJob(duration),
		gocron.NewTask(handler, args...),
	)
	if err != nil {
		return nil, err
	}
	id := j.ID().String()
	return &id, nil
}

// RedirectTimers owns the deferred post-confirmation redirects. One
// timer per booking; scheduling again replaces the previous one.
type RedirectTimers struct {
	mu     sync.Mutex
	jobs   map[uint]uuid.UUID
	OnFire func(bookingID uint)
}

func NewRedirectTimers(onFire func(bookingID uint)) *RedirectTimers {
	return &RedirectTimers{jobs: make(map[uint]uuid.UUID), OnFire: onFire}
}

func (r *RedirectTimers) ScheduleRedirect(bookingID uint, after time.Duration) {
	r.CancelRedirect(bookingID)
	id, err := CreateOneTimeJob(time.Now().Add(after), func(id uint) {
		r.mu.Lock()
		delete(r.jobs, id)
		r.mu.Unlock()
		if r.OnFire != nil {
			r.OnFire(id)
		}
	}, bookingID)
	if err != nil {
		log.Printf("[Redirect] Error scheduling redirect for booking [%d]: %s\n", bookingID, err.Error())
		return
	}
	r.mu.Lock()
	r.jobs[bookingID] = *id
	r.mu.Unlock()
}

func (r *RedirectTimers) CancelRedirect(bookingID uint) {
	r.mu.Lock()
	jobID, ok := r.jobs[bookingID]
	if ok {
		delete(r.jobs, bookingID)
	}
	r.mu.Unlock()
	if !ok {
		return
	}
	sched, err := GetScheduler()
	if err != nil {
		return
	}
	if err := sched.RemoveJob(jobID); err != nil {
		log.Printf("[Redirect] Error removing job for booking [%d]: %s\n", bookingID, err.Error())
	}
}
