package CronJobs

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rodrigoberna1996/api-scania/Scania"
	"github.com/rodrigoberna1996/api-scania/SharePoint"
)

// TokenRefresher keeps the upstream API tokens warm so request paths never
// pay the full challenge handshake.
type TokenRefresher struct {
	cronScheduler  *cron.Cron
	scaniaAuth     *Scania.AuthService
	sharePointAuth *SharePoint.AuthClient
	jobID          cron.EntryID
}

// NewTokenRefresher creates a new token refresher for both providers
func NewTokenRefresher(scaniaAuth *Scania.AuthService, sharePointAuth *SharePoint.AuthClient) *TokenRefresher {
	return &TokenRefresher{
		cronScheduler:  cron.New(),
		scaniaAuth:     scaniaAuth,
		sharePointAuth: sharePointAuth,
	}
}

// Start schedules the refresh every five minutes
func (t *TokenRefresher) Start() error {
	var err error
	t.jobID, err = t.cronScheduler.AddFunc("@every 5m", t.refresh)
	if err != nil {
		return err
	}
	t.cronScheduler.Start()
	log.Println("Token refresher started")
	return nil
}

// Stop halts the scheduler
func (t *TokenRefresher) Stop() {
	t.cronScheduler.Stop()
}

func (t *TokenRefresher) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := t.scaniaAuth.RefreshToken(ctx); err != nil {
		log.Printf("Scania token refresh failed: %v", err)
	}
	if err := t.sharePointAuth.RefreshToken(ctx); err != nil {
		log.Printf("SharePoint token refresh failed: %v", err)
	}
}
