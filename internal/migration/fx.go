package migration

import (
	"github.com/smallbiznis/printbill/internal/config"
	contractdomain "github.com/smallbiznis/printbill/internal/contract/domain"
	customerdomain "github.com/smallbiznis/printbill/internal/customer/domain"
	meterlogdomain "github.com/smallbiznis/printbill/internal/meterlog/domain"
	"github.com/smallbiznis/printbill/internal/seed"
	summarydomain "github.com/smallbiznis/printbill/internal/summary/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// AutoMigrate builds the schema through gorm for the sqlite/mysql deployments;
// postgres gets the versioned embedded migrations instead.
func AutoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&customerdomain.Customer{},
		&contractdomain.Contract{},
		&contractdomain.ContractTerm{},
		&meterlogdomain.MeterReading{},
		&summarydomain.BillingSummary{},
		&summarydomain.BillingSummaryLine{},
	)
}

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := AutoMigrate(conn); err != nil {
				return err
			}
		}

		if cfg.SeedDemoData {
			return seed.EnsureDemoFleet(conn)
		}
		return nil
	}),
)
