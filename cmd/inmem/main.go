// Package main runs the admin panel without a database using the in-memory
// repositories. Useful for quick development, demos and learning the API
// without database setup.
//
// Note: all data is lost when the server stops. For production, use
// cmd/admin with PostgreSQL.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/tendant/chi-demo/app"

	"github.com/simple-admin/simple-admin/auth"
	"github.com/simple-admin/simple-admin/pkg/bootstrap"
	"github.com/simple-admin/simple-admin/pkg/login"
	"github.com/simple-admin/simple-admin/pkg/role"
	"github.com/simple-admin/simple-admin/pkg/user"
)

const jwtSecret = "inmem-dev-secret-change-in-production"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	slog.Info("Starting in-memory admin panel (no database required)")

	roleRepo := role.NewInMemoryRoleRepository()
	userRepo := user.NewInMemoryUserRepository()

	roleService := role.NewRoleService(roleRepo)
	hasher := login.NewBcryptHasher()
	userService := user.NewUserService(userRepo, roleService, hasher)
	loginService := login.NewLoginService(userRepo, hasher)

	_, err := bootstrap.Seed(context.Background(), bootstrap.Config{
		RoleService: roleService,
		UserService: userService,
		Admin: bootstrap.SeedUser{
			FirstName: "Admin",
			LastName:  "Admin",
			Age:       26,
			Email:     "admin@example.com",
			Username:  "admin",
			Password:  "admin",
			RoleName:  bootstrap.AdminRoleName,
		},
		User: bootstrap.SeedUser{
			FirstName: "User",
			LastName:  "User",
			Age:       31,
			Email:     "user@example.com",
			Username:  "user",
			Password:  "user",
			RoleName:  bootstrap.UserRoleName,
		},
	})
	if err != nil {
		slog.Error("Failed seeding demo data", "err", err)
		os.Exit(-1)
	}

	server := app.DefaultApp()
	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	jwtService := auth.NewJwtServiceOptions(jwtSecret)
	loginHandle := login.NewHandle(loginService, userService, *jwtService)
	loginHandle.RegisterPublicRoutes(server.R)

	tokenAuth := jwtauth.New("HS256", []byte(jwtSecret), nil)

	server.R.Group(func(r chi.Router) {
		r.Use(login.Verifier(tokenAuth))
		r.Use(jwtauth.Authenticator(tokenAuth))
		r.Use(login.AuthUserMiddleware)

		loginHandle.RegisterProtectedRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(login.AdminRoleMiddleware)
			user.NewHandler(userService).RegisterRoutes(r)
			role.NewHandler(roleService).RegisterRoutes(r)
		})
	})

	slog.Info("Demo credentials", "admin", "admin/admin", "user", "user/user")
	server.Run()
}
