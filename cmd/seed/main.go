// Command seed creates the initial account set. The service itself has no
// self-registration flow; accounts exist because an operator ran this tool.
//
// Usage:
//
//	seed -role manager -username boss -password s3cret -first Pat -last Lee -email boss@example.com
package main

import (
	"context"
	"flag"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/nimbushr/expense-system/internal/core/domain"
	"github.com/nimbushr/expense-system/internal/infrastructure/config"
	mongostore "github.com/nimbushr/expense-system/internal/infrastructure/db/mongo"
	"github.com/nimbushr/expense-system/pkg/logger"
)

func main() {
	role := flag.String("role", "employee", "account role: employee or manager")
	username := flag.String("username", "", "unique username")
	password := flag.String("password", "", "initial password")
	first := flag.String("first", "", "first name")
	last := flag.String("last", "", "last name")
	email := flag.String("email", "", "unique email address")
	flag.Parse()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true})

	if *username == "" || *password == "" || *email == "" {
		log.Fatal().Msg("username, password and email are required")
	}

	userRole := domain.UserRole(*role)
	if userRole != domain.RoleEmployee && userRole != domain.RoleManager {
		log.Fatal().Str("role", *role).Msg("role must be employee or manager")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, db, err := mongostore.Connect(ctx, mongostore.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer client.Disconnect(context.Background())

	users := mongostore.NewUserProfileRepository(db)

	if taken, err := users.ExistsUsername(ctx, *username); err != nil {
		log.Fatal().Err(err).Msg("username check failed")
	} else if taken {
		log.Fatal().Str("username", *username).Msg("username already in use")
	}
	if taken, err := users.ExistsEmail(ctx, *email); err != nil {
		log.Fatal().Err(err).Msg("email check failed")
	} else if taken {
		log.Fatal().Str("email", *email).Msg("email already in use")
	}

	id, err := users.Save(ctx, domain.UserProfile{
		ID:        domain.NullID,
		Role:      userRole,
		Username:  *username,
		FirstName: *first,
		LastName:  *last,
		Email:     *email,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("profile save failed")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("password hashing failed")
	}
	if err := users.SetPasswordHash(ctx, id, string(hash)); err != nil {
		log.Fatal().Err(err).Msg("credential save failed")
	}

	log.Info().Int64("id", id).Str("username", *username).Str("role", *role).Msg("account seeded")
}
