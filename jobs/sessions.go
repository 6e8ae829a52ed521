package jobs

import (
	"time"

	tasks "fairbet/task"
)

func StartSessionCleanupScheduler() {
	ticker := time.NewTicker(10 * time.Minute)
	go func() {
		for {
			<-ticker.C
			tasks.CleanupExpiredSessions()
		}
	}()
}
