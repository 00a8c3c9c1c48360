// Package migration applies the gorm schema for all persisted models at
// startup.
package migration

import (
	invoicedomain "github.com/spendlens/spendlens/internal/invoice/domain"
	partydomain "github.com/spendlens/spendlens/internal/party/domain"
	referencedomain "github.com/spendlens/spendlens/internal/reference/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migration",
	fx.Invoke(Run),
)

// Models lists every persisted model in dependency order.
func Models() []any {
	return []any{
		&referencedomain.Organization{},
		&referencedomain.Department{},
		&referencedomain.User{},
		&partydomain.Vendor{},
		&partydomain.Customer{},
		&invoicedomain.Invoice{},
		&invoicedomain.LineItem{},
		&invoicedomain.Payment{},
	}
}

// Run applies the schema.
func Run(conn *gorm.DB, log *zap.Logger) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		log.Error("auto migrate failed", zap.Error(err))
		return err
	}
	return nil
}
