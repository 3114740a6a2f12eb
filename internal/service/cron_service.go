// Package service contains the service layer for the NSE gateway
package service

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/nsvirk/nsegateway/pkg/utils/zaplogger"
)

// CronService runs the background jobs of the gateway
type CronService struct {
	c        *cron.Cron
	proxy    *ProxyService
	schedule string
}

// NewCronService creates a new CronService; an empty schedule disables the probe
func NewCronService(proxy *ProxyService, schedule string) *CronService {
	return &CronService{
		c:        cron.New(),
		proxy:    proxy,
		schedule: schedule,
	}
}

// Start starts the cron service
func (cs *CronService) Start() {
	if cs.schedule == "" {
		zaplogger.Info("CronService disabled, no probe schedule configured")
		return
	}
	zaplogger.Info("Initializing CronService")

	cs.addScheduledJob("MarketStatus PROBE Job", cs.marketStatusProbeJob, cs.schedule)
	cs.addStartupJob("MarketStatus PROBE Job", cs.marketStatusProbeJob, 2*time.Second)

	cs.c.Start()
}

// Stop stops the scheduler and waits for running jobs
func (cs *CronService) Stop() {
	<-cs.c.Stop().Done()
}

// addStartupJob runs job once after delay
func (cs *CronService) addStartupJob(name string, job func(), delay time.Duration) {
	go func() {
		time.Sleep(delay)
		zaplogger.Info("STARTED STARTUP job", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED STARTUP job", zaplogger.Fields{
			"job": name,
		})
	}()
	zaplogger.Info("QUEUED STARTUP job", zaplogger.Fields{
		"job": name,
	})
}

func (cs *CronService) addScheduledJob(name string, job func(), schedule string) {
	_, err := cs.c.AddFunc(schedule, func() {
		zaplogger.Info("STARTED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
		job()
		zaplogger.Info("COMPLETED SCHEDULED JOB", zaplogger.Fields{
			"job": name,
		})
	})
	if err != nil {
		zaplogger.Error("FAILED TO QUEUE SCHEDULED JOB", zaplogger.Fields{
			"job":      name,
			"schedule": schedule,
			"error":    err.Error(),
		})
		return
	}
	zaplogger.Info("QUEUED SCHEDULED job", zaplogger.Fields{
		"job":      name,
		"schedule": schedule,
	})
}

// marketStatusProbeJob checks that a session can be obtained and the market status read
func (cs *CronService) marketStatusProbeJob() {
	jobName := "MarketStatus PROBE Job "

	payload, err := cs.proxy.MarketStatus(context.Background())
	if err != nil {
		zaplogger.Error(jobName, zaplogger.Fields{
			"step":  "MarketStatus",
			"error": err.Error(),
		})
		return
	}
	zaplogger.Info(jobName, zaplogger.Fields{
		"step":  "MarketStatus",
		"bytes": len(payload),
	})
}
