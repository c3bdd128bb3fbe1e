package db

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/booking-engine/internal/config"
	"github.com/BruksfildServices01/booking-engine/internal/models"
	"github.com/BruksfildServices01/booking-engine/internal/timezone"
)

func TestOpenSQLiteMigratesAndBackfillsTimezone(t *testing.T) {
	nop := zerolog.Nop()
	db, err := Open(config.DatabaseConfig{
		Driver: "sqlite",
		URL:    "file:dbtest?mode=memory&cache=shared",
	}, &nop)
	require.NoError(t, err)

	for _, m := range []any{
		&models.Tenant{}, &models.Employee{}, &models.Service{},
		&models.Client{}, &models.Appointment{}, &models.ScheduleBlock{}, &models.AuditLog{},
	} {
		assert.True(t, db.Migrator().HasTable(m))
	}

	require.NoError(t, db.Create(&models.Tenant{Name: "Shop", Slug: "shop"}).Error)
	require.NoError(t, Migrate(db))

	var tenant models.Tenant
	require.NoError(t, db.Where("slug = ?", "shop").First(&tenant).Error)
	assert.Equal(t, timezone.DefaultTimezone, tenant.Timezone)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	nop := zerolog.Nop()
	_, err := Open(config.DatabaseConfig{Driver: "oracle"}, &nop)
	assert.Error(t, err)
}
