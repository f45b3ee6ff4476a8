package database

import (
	"fmt"
	"log"
	"regexp"
	"sort"

	"github.com/howdyplanner/api/catalog"
	"github.com/howdyplanner/api/model"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

var seedCodeRe = regexp.MustCompile(`^([A-Z]{2,4})\s+(\d{3})$`)

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedCatalogCourses(); err != nil {
		return fmt.Errorf("failed to seed catalog courses: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedCatalogCourses loads the built-in degree catalog into the courses table
func (s *Seeder) SeedCatalogCourses() error {
	var count int64
	if err := s.db.Model(&model.Course{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Courses already exist, skipping...")
		return nil
	}

	cat := catalog.Default()

	codes := make([]string, 0, len(cat.Courses))
	for code := range cat.Courses {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var courses []model.Course
	for _, code := range codes {
		m := seedCodeRe.FindStringSubmatch(code)
		if m == nil {
			log.Printf("Seeder: skipping catalog entry with unparseable code %q\n", code)
			continue
		}
		entry := cat.Courses[code]
		courses = append(courses, model.Course{
			Department:   m[1],
			CourseNumber: m[2],
			Title:        entry.Title,
			Credits:      entry.Credits,
		})
	}

	if err := s.db.Create(&courses).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d catalog courses\n", len(courses))
	return nil
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
