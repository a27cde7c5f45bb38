package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"photostream/internal/postgres"
	cl "photostream/pkg/gallery"

	"golang.org/x/crypto/bcrypt"
)

var (
	db       = flag.String("database", "photostream", "")
	host     = flag.String("host", "localhost", "")
	port     = flag.Int("port", 5432, "")
	dbUser   = flag.String("db-user", "postgres", "")
	dbPass   = flag.String("db-password", "", "")
	username = flag.String("username", "", "username of the user to create")
	password = flag.String("password", "", "password of the user to create")
)

func main() {
	flag.Parse()
	if *username == "" || *password == "" {
		log.Fatal("username and password must be provided")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	pg, err := postgres.New(postgres.Config{
		Host:       *host,
		Port:       *port,
		Name:       *db,
		Username:   *dbUser,
		Password:   *dbPass,
		DisableSSL: true,
	}, nil)
	if err != nil {
		log.Fatal(err)
	}

	user, err := pg.CreateUser(context.Background(), cl.CreateUserRequest{
		Username:     *username,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("created user %q with id %d\n", user.Username, user.ID)
}
