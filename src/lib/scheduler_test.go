package lib

import (
	"testing"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/stretchr/testify/assert"
)

func TestNewSchedulerReplacesSingleton(t *testing.T) {
	s, err := gocron.NewScheduler()
	assert.Nil(t, err)
	NewScheduler(s)
	got, err := GetScheduler()
	assert.Nil(t, err)
	assert.Equal(t, s, got)
}

func TestCreateCronJob(t *testing.T) {
	s, err := gocron.NewScheduler()
	assert.Nil(t, err)
	NewScheduler(s)
	id, err := CreateCronJob(func() {}, time.Hour)
	assert.Nil(t, err)
	assert.NotNil(t, id)
	assert.NotEmpty(t, *id)
	assert.Equal(t, 1, len(s.Jobs()))
}

func TestCreateOneTimeCronJob(t *testing.T) {
	s, err := gocron.NewScheduler()
	assert.Nil(t, err)
	NewScheduler(s)
	id, err := CreateOneTimeCronJob(
		gocron.OneTimeJob(gocron.OneTimeJobStartDateTime(time.Now().Add(time.Minute))),
		gocron.NewTask(func() {}),
	)
	assert.Nil(t, err)
	assert.NotNil(t, id)
}
