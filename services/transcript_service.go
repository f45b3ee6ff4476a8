package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/howdyplanner/api/model"
	"github.com/howdyplanner/api/utils/cache"
)

var (
	// ErrNoTermsDetected is the terminal condition after both extraction
	// paths produced zero recognizable terms. The document opened fine;
	// it just carries no recoverable transcript data.
	ErrNoTermsDetected = errors.New("no terms detected in transcript")

	// ErrUnreadableDocument is the terminal condition when the document
	// cannot be opened or rendered at all.
	ErrUnreadableDocument = errors.New("unable to read this file")
)

var courseCodeRe = regexp.MustCompile(`([A-Z]{2,4})\s+(\d{3})`)

const transcriptCacheTTL = 15 * time.Minute

// TranscriptService owns the ingestion pipeline (PDF text layer, OCR
// fallback, line parser) and the transcript persistence boundary.
type TranscriptService struct {
	db        *gorm.DB
	extractor *PDFExtractor
	ocr       *OCRClient
	parser    *TranscriptParser
	cache     *cache.RedisCache // nil disables caching
}

// NewTranscriptService creates a transcript service. The cache is
// optional; a nil cache silently disables the read-through layer.
func NewTranscriptService(db *gorm.DB, redisCache *cache.RedisCache) *TranscriptService {
	return &TranscriptService{
		db:        db,
		extractor: NewPDFExtractor(),
		ocr:       NewOCRClient(),
		parser:    NewTranscriptParser(),
		cache:     redisCache,
	}
}

// ParseTranscript runs the sequential ingestion stages: direct text-layer
// extraction, then the shared line parser, then the OCR fallback when no
// term header was recognized. Stages run one after another; term order is
// strictly input order.
func (s *TranscriptService) ParseTranscript(ctx context.Context, content []byte, filename string) (*ParseResult, error) {
	lines, err := s.extractor.ExtractLines(content)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableDocument, err)
	}

	result := s.parser.ParseLines(lines)
	if len(result.Terms) > 0 {
		return result, nil
	}

	log.Printf("Transcript Service: no term headers in text layer of %s, taking OCR path", filename)
	ocrResp, err := s.ocr.ProcessPDFFile(ctx, content, filename)
	if err != nil {
		return nil, fmt.Errorf("%w: OCR fallback failed: %v", ErrNoTermsDetected, err)
	}

	result = s.parser.ParseText(ocrResp.Text)
	if len(result.Terms) == 0 {
		return nil, ErrNoTermsDetected
	}
	log.Printf("Transcript Service: OCR recovered %d terms from %s", len(result.Terms), filename)
	return result, nil
}

// GetOrCreateStudent finds a student by email or registers a new row.
// Uploads without an email always create a fresh anonymous student.
func (s *TranscriptService) GetOrCreateStudent(email, name string) (*model.Student, error) {
	first, last := splitName(name)
	student := model.Student{FirstName: first, LastName: last, Email: email}

	if email != "" {
		var existing model.Student
		err := s.db.Where("lower(email) = lower(?)", email).First(&existing).Error
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if err := s.db.Create(&student).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

// SaveTerms replaces the student's stored transcript with the given
// terms. Course rows are deduplicated into the shared catalog table keyed
// by (department, number); term status is re-derived from the grade when
// the caller left it blank. The whole replace runs in one transaction so
// concurrent saves for the same student serialize at the database.
func (s *TranscriptService) SaveTerms(ctx context.Context, studentID uint, terms []TranscriptTerm) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("student_id = ?", studentID).Delete(&model.StudentCourse{}).Error; err != nil {
			return err
		}

		for _, term := range terms {
			season, year, labelErr := ParseTermLabel(term.Label)
			if labelErr != nil {
				log.Printf("Transcript Service: skipping term with bad label %q: %v", term.Label, labelErr)
				continue
			}

			for _, course := range term.Courses {
				m := courseCodeRe.FindStringSubmatch(course.Code)
				if m == nil {
					continue
				}

				record := model.Course{Department: m[1], CourseNumber: m[2]}
				if err := tx.Where(&record).
					Attrs(model.Course{Title: course.Title, Credits: course.Credits}).
					FirstOrCreate(&record).Error; err != nil {
					return err
				}

				entry := model.StudentCourse{
					StudentID: studentID,
					CourseID:  record.ID,
					Term:      season,
					Year:      year,
					Grade:     course.Grade,
					Status:    deriveStatus(term.Status, course.Grade),
				}
				if err := tx.Create(&entry).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.Delete(ctx, transcriptCacheKey(studentID)); err != nil {
			log.Printf("Transcript Service: cache invalidation failed for student %d: %v", studentID, err)
		}
	}
	return nil
}

// LoadTerms rebuilds the student's ordered term list from storage. An
// empty slice with a nil error means no transcript is stored.
func (s *TranscriptService) LoadTerms(ctx context.Context, studentID uint) ([]TranscriptTerm, error) {
	if s.cache != nil {
		var cached []TranscriptTerm
		if err := s.cache.GetJSON(ctx, transcriptCacheKey(studentID), &cached); err == nil {
			return cached, nil
		}
	}

	var entries []model.StudentCourse
	if err := s.db.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	byLabel := make(map[string]*TranscriptTerm)
	var order []string
	for _, entry := range entries {
		label := TermLabel(entry.Term, entry.Year)
		term, ok := byLabel[label]
		if !ok {
			status := TermStatus(entry.Status)
			if status == "" {
				status = TermEvaluated
			}
			term = &TranscriptTerm{Label: label, Status: status}
			byLabel[label] = term
			order = append(order, label)
		}
		term.Courses = append(term.Courses, TranscriptCourse{
			Code:     entry.Course.Code(),
			Title:    entry.Course.Title,
			Credits:  entry.Course.Credits,
			Grade:    entry.Grade,
			Transfer: entry.Grade == "TA",
		})
		if entry.Status == string(TermInProgress) {
			term.Status = TermInProgress
		}
	}

	sort.Slice(order, func(i, j int) bool { return CompareTerms(order[i], order[j]) < 0 })
	terms := make([]TranscriptTerm, 0, len(order))
	for _, label := range order {
		terms = append(terms, *byLabel[label])
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, transcriptCacheKey(studentID), terms, transcriptCacheTTL); err != nil {
			log.Printf("Transcript Service: cache write failed for student %d: %v", studentID, err)
		}
	}
	return terms, nil
}

// deriveStatus fills in a term status the caller did not supply: IP means
// in progress, TA means transfer, anything else evaluated.
func deriveStatus(supplied TermStatus, grade string) string {
	if supplied != "" {
		return string(supplied)
	}
	switch grade {
	case "IP":
		return string(TermInProgress)
	case "TA":
		return string(TermTransfer)
	default:
		return string(TermEvaluated)
	}
}

func transcriptCacheKey(studentID uint) string {
	return "transcript:" + strconv.FormatUint(uint64(studentID), 10)
}

func splitName(name string) (string, string) {
	parts := strings.Fields(name)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	default:
		return parts[0], strings.Join(parts[1:], " ")
	}
}
