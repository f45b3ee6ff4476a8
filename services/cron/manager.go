package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"github.com/howdyplanner/api/model"
	"github.com/howdyplanner/api/services/spaces"
	"github.com/howdyplanner/api/utils/cache"
)

// CronManager manages all scheduled maintenance jobs
type CronManager struct {
	cron    *cron.Cron
	db      *gorm.DB
	cache   *cache.RedisCache
	archive *spaces.ArchiveClient
}

// NewCronManager creates a new cron manager. The cache and archive
// clients may be nil; jobs that need them are skipped.
func NewCronManager(db *gorm.DB, rc *cache.RedisCache, archive *spaces.ArchiveClient) *CronManager {
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:    c,
		db:      db,
		cache:   rc,
		archive: archive,
	}
}

// Start starts all cron jobs
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// 1. Every 30 minutes: remove transcript rows whose student is gone
	_, err := m.cron.AddFunc("0 */30 * * * *", func() {
		m.logJobStart("cleanup_orphaned_courses")
		m.CleanupOrphanedCourses()
	})
	if err != nil {
		return err
	}

	// 2. Daily at 2 AM: cleanup old job logs
	_, err = m.cron.AddFunc("0 0 2 * * *", func() {
		m.logJobStart("cleanup_old_data")
		m.CleanupOldData()
	})
	if err != nil {
		return err
	}

	// 3. Daily at 3 AM: sweep old archived transcript PDFs
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("sweep_transcript_archive")
		m.SweepTranscriptArchive()
	})
	if err != nil {
		return err
	}

	// 4. Hourly: drop cached transcripts for deleted students
	_, err = m.cron.AddFunc("0 15 * * * *", func() {
		m.logJobStart("cleanup_stale_transcript_caches")
		m.CleanupStaleTranscriptCaches()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
