package mock

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"winecalc/internal/db"
	applog "winecalc/internal/log"
	"winecalc/models"
)

// DemoEmail and DemoPassword sign in to the seeded cellar.
const (
	DemoEmail    = "cellar@winecalc.app"
	DemoPassword = "assemblage"
)

// New returns an in-memory sqlite database seeded with a demo cellar.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:winecalc-mock?mode=memory&cache=shared"), db.GormConfig(logger.Silent))
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, database); err != nil {
		return nil, err
	}

	var existing int64
	if err := database.WithContext(ctx).Model(&models.User{}).Where("email = ?", DemoEmail).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing == 0 {
		if err := seed(ctx, database); err != nil {
			return nil, err
		}
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func ptr(v float64) *float64 { return &v }

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	password, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:         "Domaine Demo",
		Email:        DemoEmail,
		PasswordHash: string(password),
	}
	if err := database.WithContext(ctx).Create(user).Error; err != nil {
		return err
	}

	tanks := []models.Tank{
		{
			Name: "Cuve 1 Merlot", Capacity: 50, CapacityUnit: "hL", Volume: 42, VolumeUnit: "hL",
			AlcoholPercent: 13.8, TotalAcidity: ptr(5.4), VolatileAcid: ptr(0.42), PH: ptr(3.62),
			ResidualSugars: ptr(1.8), FreeSO2: ptr(24), TotalSO2: ptr(78),
			Notes: "Ripe, round, needs lift.",
		},
		{
			Name: "Cuve 2 Cabernet Franc", Capacity: 30, CapacityUnit: "hL", Volume: 2600, VolumeUnit: "L",
			AlcoholPercent: 12.1, TotalAcidity: ptr(6.6), VolatileAcid: ptr(0.38), PH: ptr(3.34),
			ResidualSugars: ptr(1.2), FreeSO2: ptr(28), TotalSO2: ptr(85),
		},
		{
			Name: "Barrique 7 Press", Capacity: 225, CapacityUnit: "L", Volume: 210, VolumeUnit: "L",
			AlcoholPercent: 14.6, TotalAcidity: ptr(5.1), VolatileAcid: ptr(0.71), PH: ptr(3.78),
			ResidualSugars: ptr(2.4), FreeSO2: ptr(18), TotalSO2: ptr(96),
			Notes: "Press fraction, watch VA.",
		},
		{
			Name: "Cuve 4 Rosé de saignée", Capacity: 20, CapacityUnit: "hL", Volume: 1500, VolumeUnit: "L",
			AlcoholPercent: 11.4, TotalAcidity: ptr(7.2), PH: ptr(3.21),
			ResidualSugars: ptr(3.5),
		},
	}
	for i := range tanks {
		tanks[i].OwnerID = user.ID
		if err := database.WithContext(ctx).Create(&tanks[i]).Error; err != nil {
			return err
		}
	}

	applog.Debug(ctx, "mock database seeded", "tanks", len(tanks))
	return nil
}
