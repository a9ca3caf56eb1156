// Package seed creates the initial data a fresh deployment needs: one
// guidance center and one admin account able to issue invitation codes.
package seed

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/dmoran/orienta/internal/app/models"
	appRepos "github.com/dmoran/orienta/internal/app/repositories"
	"github.com/dmoran/orienta/internal/db"
	"github.com/dmoran/orienta/internal/pkg/auth"
)

const (
	defaultAdminEmail    = "admin@orienta.app"
	defaultAdminPassword = "Admin123!"
)

// CreateDefaultData creates the default center and admin profile if the
// database is empty. Every profile belongs to a center, so without this a
// fresh deployment has no way to mint the first invitation.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	centerRepo := appRepos.NewCenterRepository(database)
	profileRepo := appRepos.NewProfileRepository(database)

	count, err := centerRepo.Count(ctx)
	if err != nil {
		lgr.Error().Err(err).Msg("Error counting centers")
		return err
	}
	if count > 0 {
		lgr.Debug().Msg("Centers already exist, skipping default data creation")
		return nil
	}

	lgr.Info().Msg("Creating default center and admin profile...")

	city := "Madrid"
	center := &appModels.Center{
		Name:     "Default Guidance Center",
		Type:     appModels.CenterMixed,
		City:     &city,
		IsActive: true,
	}
	if err := centerRepo.Create(ctx, center); err != nil {
		lgr.Error().Err(err).Msg("Error creating default center")
		return err
	}

	exists, err := profileRepo.EmailExists(ctx, defaultAdminEmail)
	if err != nil {
		lgr.Error().Err(err).Msg("Error checking if admin profile exists")
		return err
	}
	if exists {
		lgr.Info().Msg("Admin profile already exists, skipping creation")
		return nil
	}

	hashedPassword, err := auth.HashPassword(defaultAdminPassword)
	if err != nil {
		lgr.Error().Err(err).Msg("Error hashing admin password")
		return err
	}

	admin := &appModels.Profile{
		Email:     defaultAdminEmail,
		Password:  hashedPassword,
		Role:      appModels.RoleAdmin,
		CenterID:  &center.ID,
		FirstName: "System",
		LastName:  "Administrator",
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return profileRepo.CreateTx(ctx, tx, admin)
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating admin profile")
		return err
	}

	lgr.Info().
		Int64("centerID", center.ID).
		Int64("adminID", admin.ID).
		Msg("Default center and admin profile created")
	return nil
}
