package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/gradevault-backend/internal/users"
	"github.com/angelmondragon/gradevault-backend/pkg/auth/session"
	"github.com/angelmondragon/gradevault-backend/pkg/config"
	"github.com/angelmondragon/gradevault-backend/pkg/db"
	"github.com/angelmondragon/gradevault-backend/pkg/db/models"
	"github.com/angelmondragon/gradevault-backend/pkg/enums"
	"github.com/angelmondragon/gradevault-backend/pkg/logger"
	"github.com/angelmondragon/gradevault-backend/pkg/redis"
)

// issue-token prints a bearer token for an existing user. With -create it
// first inserts the user, which is how local admins are bootstrapped.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "issue-token"})

	_ = godotenv.Load()

	email := flag.String("email", "", "email of the user to issue a token for")
	create := flag.Bool("create", false, "create the user when it does not exist")
	name := flag.String("name", "", "display name used with -create")
	role := flag.String("role", string(enums.UserRoleUser), "role used with -create: USER|SELLER|ADMIN")
	flag.Parse()

	if *email == "" {
		fmt.Fprintln(os.Stderr, "missing -email")
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "issue-token",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Env:         cfg.App.Env,
		Format:      cfg.App.LogFormat,
	})
	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "email": *email})

	dbClient, err := db.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer redisClient.Close()

	manager, err := session.NewManager(redisClient, cfg.JWT.AccessTokenTTL())
	requireResource(ctx, logg, "session manager", err)

	repo := users.NewRepository(dbClient.DB())
	var user *models.User
	if *create {
		parsedRole, roleErr := enums.ParseUserRole(*role)
		requireResource(ctx, logg, "role", roleErr)
		displayName := *name
		if displayName == "" {
			displayName = *email
		}
		var created bool
		user, created, err = repo.FindOrCreate(ctx, users.CreateUserDTO{Name: displayName, Email: *email, Role: parsedRole})
		requireResource(ctx, logg, "user create", err)
		if created {
			logg.Info(logg.WithField(ctx, "user_id", user.ID.String()), "issue_token.user_created")
		}
	} else {
		user, err = repo.FindByEmail(ctx, *email)
		requireResource(ctx, logg, "user lookup", err)
	}

	token, err := manager.Issue(ctx, cfg.JWT, time.Now().UTC(), user.ID, user.Role)
	requireResource(ctx, logg, "token", err)

	logg.Info(logg.WithFields(ctx, map[string]any{
		"user_id": user.ID.String(),
		"role":    string(user.Role),
	}), "issue_token.issued")
	fmt.Println(token)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
