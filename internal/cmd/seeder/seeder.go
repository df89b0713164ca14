// Package seeder loads a small sample hierarchy and a demo campaign.
package seeder

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/classfund/classfund/internal/campaign/domain"
	campaignservice "github.com/classfund/classfund/internal/campaign/service"
	"github.com/classfund/classfund/internal/faculty"
	"github.com/classfund/classfund/internal/hierarchy"
	"github.com/classfund/classfund/internal/platform/config"
	"github.com/classfund/classfund/internal/storage/sqlite"
)

// Config holds seed command configuration.
type Config struct {
	DBPath string `env:"CLASSFUND_DB_PATH" envDefault:"classfund.db"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the SQLite database file")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run writes the sample records. It is not idempotent: seeding a
// database twice fails on the uniqueness indexes.
func Run(ctx context.Context, cfg Config) error {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("close storage: %v", err)
		}
	}()

	hierarchySvc := hierarchy.NewService(store, store, store)
	facultySvc := faculty.NewService(store, store)
	campaignSvc := campaignservice.New(campaignservice.Stores{
		Campaigns:     store,
		States:        store,
		Districts:     store,
		Schools:       store,
		Teachers:      store,
		Contributions: store,
	})

	utah, err := hierarchySvc.CreateState(ctx, hierarchy.CreateStateInput{Name: "Utah", Abbr: "UT"})
	if err != nil {
		return fmt.Errorf("seed state: %w", err)
	}
	washington, err := hierarchySvc.CreateDistrict(ctx, hierarchy.CreateDistrictInput{
		StateID: utah.ID,
		Name:    "Washington County",
	})
	if err != nil {
		return fmt.Errorf("seed district: %w", err)
	}
	snowCanyon, err := hierarchySvc.CreateSchool(ctx, hierarchy.CreateSchoolInput{
		DistrictID: washington.ID,
		Name:       "Snow Canyon",
	})
	if err != nil {
		return fmt.Errorf("seed school: %w", err)
	}
	desertHills, err := hierarchySvc.CreateSchool(ctx, hierarchy.CreateSchoolInput{
		DistrictID: washington.ID,
		Name:       "Desert Hills",
	})
	if err != nil {
		return fmt.Errorf("seed school: %w", err)
	}

	mark, err := facultySvc.CreateTeacher(ctx, faculty.CreateTeacherInput{
		SchoolID:  snowCanyon.ID,
		FirstName: "Mark",
		LastName:  "Holmberg",
	})
	if err != nil {
		return fmt.Errorf("seed teacher: %w", err)
	}
	if _, err := facultySvc.CreateTeacher(ctx, faculty.CreateTeacherInput{
		SchoolID:  desertHills.ID,
		FirstName: "Scott",
		LastName:  "Holmberg",
	}); err != nil {
		return fmt.Errorf("seed teacher: %w", err)
	}

	schoolWide := true
	classroom := false
	library, err := campaignSvc.CreateCampaign(ctx, campaignservice.CampaignInput{
		Name:       "Snow Canyon Library Fund",
		StateID:    utah.ID,
		DistrictID: washington.ID,
		SchoolID:   snowCanyon.ID,
		Campaignable: domain.Campaignable{
			Kind:  domain.CampaignableSchool,
			RefID: snowCanyon.ID,
		},
		SchoolWide: &schoolWide,
		GoalCents:  500000,
	})
	if err != nil {
		return fmt.Errorf("seed campaign: %w", err)
	}
	classroomFund, err := campaignSvc.CreateCampaign(ctx, campaignservice.CampaignInput{
		Name:       "Mr. Holmberg's Classroom Fund",
		StateID:    utah.ID,
		DistrictID: washington.ID,
		SchoolID:   snowCanyon.ID,
		Campaignable: domain.Campaignable{
			Kind:  domain.CampaignableTeacher,
			RefID: mark.ID,
		},
		SchoolWide: &classroom,
		GoalCents:  150000,
	})
	if err != nil {
		return fmt.Errorf("seed campaign: %w", err)
	}

	log.Printf("seeded campaigns %s and %s", library.Slug, classroomFund.Slug)
	return nil
}
