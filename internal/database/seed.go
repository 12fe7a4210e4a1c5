package database

import (
	"context"
	"strings"
	"time"

	"github.com/logiscore/logiscore-backend/internal/domain"
	"github.com/logiscore/logiscore-backend/internal/observability"

	"gorm.io/gorm"
)

var sampleForwarders = []domain.FreightForwarder{
	{Name: "DHL Global Forwarding", Website: "https://www.dhl.com", Headquarters: "Bonn, Germany", IsActive: true},
	{Name: "Kuehne + Nagel", Website: "https://www.kuehne-nagel.com", Headquarters: "Schindellegi, Switzerland", IsActive: true},
	{Name: "DB Schenker", Website: "https://www.dbschenker.com", Headquarters: "Essen, Germany", IsActive: true},
	{Name: "Expeditors", Website: "https://www.expeditors.com", Headquarters: "Seattle, USA", IsActive: true},
}

type SeedReport struct {
	CreatedForwarders int  `json:"created_forwarders"`
	PromotedAdmin     bool `json:"promoted_admin"`
	Noop              bool `json:"noop"`
}

func Seed(db *gorm.DB, bootstrapAdminEmail string) error {
	_, err := SeedSync(db, bootstrapAdminEmail)
	return err
}

// SeedSync is idempotent: forwarders are matched by name and the
// bootstrap admin is only promoted when the account exists and is not
// already an admin.
func SeedSync(db *gorm.DB, bootstrapAdminEmail string) (*SeedReport, error) {
	start := time.Now()
	defer func() {
		observability.RecordDatabaseStartupDuration(context.Background(), "seed", time.Since(start))
	}()

	report := &SeedReport{}

	for _, f := range sampleForwarders {
		res := db.Where("name = ?", f.Name).FirstOrCreate(&f)
		if res.Error != nil {
			observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
			return nil, res.Error
		}
		if res.RowsAffected > 0 {
			report.CreatedForwarders++
		}
	}

	email := strings.TrimSpace(strings.ToLower(bootstrapAdminEmail))
	if email != "" {
		var u domain.User
		if err := db.Where("email = ?", email).First(&u).Error; err != nil {
			if err != gorm.ErrRecordNotFound {
				observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
				return nil, err
			}
		} else if u.UserType != domain.UserTypeAdmin {
			if err := db.Model(&u).Update("user_type", domain.UserTypeAdmin).Error; err != nil {
				observability.RecordDatabaseStartupEvent(context.Background(), "seed", "error")
				return nil, err
			}
			report.PromotedAdmin = true
		}
	}

	report.Noop = report.CreatedForwarders == 0 && !report.PromotedAdmin
	observability.RecordDatabaseStartupEvent(context.Background(), "seed", "success")
	return report, nil
}
