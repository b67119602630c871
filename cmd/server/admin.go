package main

import (
	"errors"
	"fmt"

	"alcyxob/workout-tracker/internal/domain"
	"alcyxob/workout-tracker/internal/service"

	"github.com/spf13/cobra"
)

var (
	adminEmail    string
	adminPassword string
	adminUsername string
)

// Self-registration only creates regular users, so the first admin has to be
// created out of band.
var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE:  runCreateAdmin,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Admin email (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Admin password, at least 8 characters (required)")
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Optional username")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	if cfg.JWT.Secret == "" {
		return errors.New("jwt.secret must be set (JWT_SECRET)")
	}
	store, closeStore, err := openStore(cmd.Context(), cfg.Database, false)
	if err != nil {
		return err
	}
	defer closeStore()

	auth := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	user, err := auth.Register(cmd.Context(), service.RegisterInput{
		Email:    adminEmail,
		Password: adminPassword,
		Username: adminUsername,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Email, user.ID)
	return nil
}
