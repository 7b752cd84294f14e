package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"procurement/db"
	"procurement/internal/config"
	"procurement/models"
)

// Сотрудников NEEPCO регистрирует только администратор через CLI
func createUserCmd() *cobra.Command {
	var email, name, role, password string
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account with any role",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !models.ValidRole(models.Role(role)) {
				return errors.Errorf("unknown role %q", role)
			}
			if len(password) < 8 {
				return errors.New("password must be at least 8 characters")
			}

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			dbConn, err := connect(cfg)
			if err != nil {
				return err
			}
			defer dbConn.Close()

			hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return errors.Wrap(err, "hash password")
			}
			user := &models.User{
				Email:        models.NormalizeEmail(email),
				Name:         name,
				Role:         models.Role(role),
				PasswordHash: string(hash),
			}
			if err := db.NewStorage(dbConn).CreateUser(cmd.Context(), user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s, %s)\n", user.ID, user.Email, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&role, "role", string(models.RoleProcurementOfficer), "admin | procurement_officer | finance_officer | vendor")
	cmd.Flags().StringVar(&password, "password", "", "initial password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
