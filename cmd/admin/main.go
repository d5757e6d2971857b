package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jinzhu/copier"
	"github.com/tendant/chi-demo/app"
	dbutils "github.com/tendant/db-utils/db"

	"github.com/simple-admin/simple-admin/auth"
	"github.com/simple-admin/simple-admin/pkg/bootstrap"
	"github.com/simple-admin/simple-admin/pkg/login"
	"github.com/simple-admin/simple-admin/pkg/notification"
	"github.com/simple-admin/simple-admin/pkg/role"
	"github.com/simple-admin/simple-admin/pkg/user"
)

type AdminDbConfig struct {
	Host     string `env:"ADMIN_PG_HOST" env-default:"localhost"`
	Port     uint16 `env:"ADMIN_PG_PORT" env-default:"5432"`
	Database string `env:"ADMIN_PG_DATABASE" env-default:"admin_db"`
	User     string `env:"ADMIN_PG_USER" env-default:"admin"`
	Password string `env:"ADMIN_PG_PASSWORD" env-default:"pwd"`
}

func (d AdminDbConfig) toDbConfig() dbutils.DbConfig {
	return dbutils.DbConfig{
		Host:     d.Host,
		Port:     d.Port,
		Database: d.Database,
		User:     d.User,
		Password: d.Password,
	}
}

type JwtConfig struct {
	JwtSecret         string        `env:"JWT_SECRET" env-default:"very-secure-jwt-secret"`
	CookieHttpOnly    bool          `env:"COOKIE_HTTP_ONLY" env-default:"true"`
	CookieSecure      bool          `env:"COOKIE_SECURE" env-default:"false"`
	AccessTokenExpiry time.Duration `env:"ACCESS_TOKEN_EXPIRY" env-default:"15m"`
}

type SeedConfig struct {
	AdminUsername  string `env:"SEED_ADMIN_USERNAME" env-default:"admin"`
	AdminPassword  string `env:"SEED_ADMIN_PASSWORD" env-default:"changeme"`
	AdminEmail     string `env:"SEED_ADMIN_EMAIL" env-default:"admin@example.com"`
	AdminFirstName string `env:"SEED_ADMIN_FIRSTNAME" env-default:"Admin"`
	AdminLastName  string `env:"SEED_ADMIN_LASTNAME" env-default:"Admin"`
	UserUsername   string `env:"SEED_USER_USERNAME" env-default:"user"`
	UserPassword   string `env:"SEED_USER_PASSWORD" env-default:"changeme"`
	UserEmail      string `env:"SEED_USER_EMAIL" env-default:"user@example.com"`
	UserFirstName  string `env:"SEED_USER_FIRSTNAME" env-default:"User"`
	UserLastName   string `env:"SEED_USER_LASTNAME" env-default:"User"`
}

type SmtpConfig struct {
	Enabled  bool   `env:"SMTP_ENABLED" env-default:"false"`
	Host     string `env:"SMTP_HOST" env-default:"localhost"`
	Port     int    `env:"SMTP_PORT" env-default:"1025"`
	TLS      bool   `env:"SMTP_TLS" env-default:"false"`
	Username string `env:"SMTP_USERNAME" env-default:""`
	Password string `env:"SMTP_PASSWORD" env-default:""`
	From     string `env:"SMTP_FROM" env-default:"noreply@example.com"`
}

type Config struct {
	AdminDbConfig AdminDbConfig
	AppConfig     app.AppConfig
	JwtConfig     JwtConfig
	SeedConfig    SeedConfig
	SmtpConfig    SmtpConfig
}

func main() {
	config := Config{}
	cleanenv.ReadEnv(&config)

	server := app.DefaultApp()

	app.RoutesHealthz(server.R)
	app.RoutesHealthzReady(server.R)

	dbConfig := config.AdminDbConfig.toDbConfig()
	pool, err := dbutils.NewDbPool(context.Background(), dbConfig)
	if err != nil {
		slog.Error("Failed creating dbpool", "db", dbConfig.Database, "host", dbConfig.Host, "port", dbConfig.Port, "user", dbConfig.User)
		os.Exit(-1)
	}

	roleRepo := role.NewPostgresRoleRepository(pool)
	userRepo := user.NewPostgresUserRepository(pool)

	roleService := role.NewRoleService(roleRepo)
	hasher := login.NewBcryptHasher()

	var userOpts []user.Option
	if config.SmtpConfig.Enabled {
		smtpConfig := notification.SMTPConfig{}
		copier.Copy(&smtpConfig, &config.SmtpConfig)
		notifier, err := notification.NewEmailNotifier(smtpConfig)
		if err != nil {
			slog.Error("Failed creating email notifier", "err", err)
			os.Exit(-1)
		}
		userOpts = append(userOpts, user.WithNotifications(notification.NewNotificationManager(notifier)))
	}

	userService := user.NewUserService(userRepo, roleService, hasher, userOpts...)
	loginService := login.NewLoginService(userRepo, hasher)

	seedResult, err := bootstrap.Seed(context.Background(), bootstrap.Config{
		RoleService: roleService,
		UserService: userService,
		Admin: bootstrap.SeedUser{
			FirstName: config.SeedConfig.AdminFirstName,
			LastName:  config.SeedConfig.AdminLastName,
			Email:     config.SeedConfig.AdminEmail,
			Username:  config.SeedConfig.AdminUsername,
			Password:  config.SeedConfig.AdminPassword,
			RoleName:  bootstrap.AdminRoleName,
		},
		User: bootstrap.SeedUser{
			FirstName: config.SeedConfig.UserFirstName,
			LastName:  config.SeedConfig.UserLastName,
			Email:     config.SeedConfig.UserEmail,
			Username:  config.SeedConfig.UserUsername,
			Password:  config.SeedConfig.UserPassword,
			RoleName:  bootstrap.UserRoleName,
		},
	})
	if err != nil {
		slog.Error("Failed seeding bootstrap data", "err", err)
		os.Exit(-1)
	}
	slog.Info("Seed done", "roles_created", seedResult.RolesCreated, "users_created", seedResult.UsersCreated)

	jwtService := auth.NewJwtServiceOptions(
		config.JwtConfig.JwtSecret,
		auth.WithCookieHttpOnly(config.JwtConfig.CookieHttpOnly),
		auth.WithCookieSecure(config.JwtConfig.CookieSecure),
		auth.WithAccessTokenExpiry(config.JwtConfig.AccessTokenExpiry),
	)

	loginHandle := login.NewHandle(loginService, userService, *jwtService)
	loginHandle.RegisterPublicRoutes(server.R)

	tokenAuth := jwtauth.New("HS256", []byte(config.JwtConfig.JwtSecret), nil)

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

	server.Run()
}
