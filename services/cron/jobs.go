package cron

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/howdyplanner/api/model"
)

const (
	cronJobLogRetention  = 90 * 24 * time.Hour
	archivedPDFRetention = 180 * 24 * time.Hour
)

// CleanupOrphanedCourses removes transcript rows whose student record no
// longer exists. Runs every 30 minutes.
func (m *CronManager) CleanupOrphanedCourses() {
	jobName := "cleanup_orphaned_courses"

	result := m.db.Exec(`
		DELETE FROM student_courses
		WHERE student_id NOT IN (SELECT id FROM students WHERE deleted_at IS NULL)
	`)
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete orphaned rows: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d orphaned transcript rows", result.RowsAffected))
}

// CleanupOldData removes stale cron job logs. Runs daily at 2 AM.
func (m *CronManager) CleanupOldData() {
	jobName := "cleanup_old_data"

	cutoff := time.Now().Add(-cronJobLogRetention)
	result := m.db.Unscoped().
		Where("started_at < ?", cutoff).
		Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, fmt.Errorf("failed to delete old job logs: %w", result.Error))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d job logs older than %s", result.RowsAffected, cutoff.Format("2006-01-02")))
}

// CleanupStaleTranscriptCaches drops cached transcript JSON for students
// that no longer exist, so a deleted student's data does not linger in
// Redis for the rest of its TTL. Runs hourly. No-op when Redis is not
// configured.
func (m *CronManager) CleanupStaleTranscriptCaches() {
	jobName := "cleanup_stale_transcript_caches"

	if m.cache == nil {
		m.logJobComplete(jobName, "Cache not configured, nothing to clean")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	keys, err := m.cache.Keys(ctx, "transcript:*")
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list cache keys: %w", err))
		return
	}

	removed := 0
	for _, key := range keys {
		id, ok := studentIDFromCacheKey(key)
		if !ok {
			continue
		}
		var count int64
		if err := m.db.Model(&model.Student{}).Where("id = ?", id).Count(&count).Error; err != nil {
			m.logJobError(jobName, fmt.Errorf("failed to check student %d: %w", id, err))
			return
		}
		if count > 0 {
			continue
		}
		if err := m.cache.Delete(ctx, key); err != nil {
			m.logJobError(jobName, fmt.Errorf("failed to delete %s: %w", key, err))
			return
		}
		removed++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Removed %d cache entries for deleted students", removed))
}

// studentIDFromCacheKey parses "transcript:<id>". Upload lock keys and
// anything else under the prefix are left alone.
func studentIDFromCacheKey(key string) (uint64, bool) {
	rest := strings.TrimPrefix(key, "transcript:")
	id, err := strconv.ParseUint(rest, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// SweepTranscriptArchive deletes archived transcript PDFs past retention.
// Runs daily at 3 AM. No-op when Spaces is not configured.
func (m *CronManager) SweepTranscriptArchive() {
	jobName := "sweep_transcript_archive"

	if m.archive == nil {
		m.logJobComplete(jobName, "Archive not configured, nothing to sweep")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	objects, err := m.archive.ListArchived(ctx, "transcripts/")
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to list archive: %w", err))
		return
	}

	cutoff := time.Now().Add(-archivedPDFRetention)
	deleted := 0
	for key, modified := range objects {
		if modified.IsZero() || modified.After(cutoff) {
			continue
		}
		if err := m.archive.Delete(ctx, key); err != nil {
			m.logJobError(jobName, fmt.Errorf("failed to delete %s: %w", key, err))
			return
		}
		deleted++
	}

	m.logJobComplete(jobName, fmt.Sprintf("Deleted %d archived transcripts older than %s", deleted, cutoff.Format("2006-01-02")))
}
