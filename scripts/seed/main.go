// Command seed populates an empty course catalog with a starter set of
// offerings. Intended for local development and demo environments; it
// refuses to touch a non-empty catalog unless -force is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/omran-academy/academy-api/internal/models"
	"github.com/omran-academy/academy-api/internal/repository"
	"github.com/omran-academy/academy-api/pkg/config"
	"github.com/omran-academy/academy-api/pkg/database"
)

var starterCatalog = []models.Course{
	{Name: "English Basics", Description: "Everyday vocabulary, greetings and simple conversation for absolute beginners.", Price: 99, Duration: "8 weeks", Level: models.CourseLevelBeginner, Instructor: "Sara Haddad"},
	{Name: "English Conversation", Description: "Fluency practice in small groups with a focus on listening and speaking.", Price: 129, Duration: "10 weeks", Level: models.CourseLevelIntermediate, Instructor: "Sara Haddad"},
	{Name: "French Intensive", Description: "Grammar, composition and conversation for learners with prior exposure.", Price: 149, Duration: "12 weeks", Level: models.CourseLevelIntermediate, Instructor: "Marc Dupont"},
	{Name: "Spanish for Travel", Description: "Practical phrases and situational dialogue for upcoming trips.", Price: 89, Duration: "6 weeks", Level: models.CourseLevelBeginner, Instructor: "Lucia Perez"},
	{Name: "Business English", Description: "Presentations, negotiation language and professional writing.", Price: 199, Duration: "10 weeks", Level: models.CourseLevelAdvanced, Instructor: "James Carter"},
}

func main() {
	var (
		force   bool
		timeout time.Duration
	)
	flag.BoolVar(&force, "force", false, "seed even when the catalog already has courses")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "overall timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	repo := repository.NewCourseRepository(db)

	existing, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("failed to count courses: %v", err)
	}
	if existing > 0 && !force {
		log.Fatalf("catalog already has %d courses; re-run with -force to seed anyway", existing)
	}

	seeded := 0
	for i := range starterCatalog {
		course := starterCatalog[i]
		if err := repo.Create(ctx, &course); err != nil {
			log.Fatalf("failed to create course %q: %v", course.Name, err)
		}
		fmt.Printf("seeded %-22s %-12s %s\n", course.Name, course.Level, course.ID)
		seeded++
	}
	fmt.Printf("done: %d courses seeded\n", seeded)
}
