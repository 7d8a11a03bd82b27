package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"golang.org/x/term"

	"github.com/SergeyParamoshkin/news/internal/article"
	"github.com/SergeyParamoshkin/news/internal/authz"
	"github.com/SergeyParamoshkin/news/internal/config"
	"github.com/SergeyParamoshkin/news/internal/db"
	"github.com/SergeyParamoshkin/news/internal/group"
	"github.com/SergeyParamoshkin/news/internal/user"
)

// runInit implements the "init" sub-command which prepares a database:
// categories, users, group membership and superusers.
func runInit(args []string) int {
	cfg, err := config.Load()
	if err != nil {
		log.Println(err)
		return 1
	}

	initFlags := flag.NewFlagSet("init", flag.ExitOnError)
	initFlags.StringVar(&cfg.DB, "db", cfg.DB, "sql database url, see github.com/xo/dburl")
	category := initFlags.String("category", "", "inserts a category with this `name`")
	username := initFlags.String("user", "", "specifies a user `name`, inserted unless -join or -superuser is given")
	password := initFlags.String("password", "", "password for the new user, asked for if empty")
	groupname := initFlags.String("group", "", "specifies a group `name`")
	join := initFlags.Bool("join", false, "joins the given user to the given group")
	superuser := initFlags.Bool("superuser", false, "gives the given user every permission")
	_ = initFlags.Parse(args)

	sqlDB, err := db.OpenURL(cfg.DB)
	if err != nil {
		log.Println(err)
		return 1
	}
	defer sqlDB.Close()

	ctx := context.Background()
	groups := group.NewStore(sqlDB)
	if err := authz.SeedRoles(ctx, groups); err != nil {
		log.Println(err)
		return 1
	}
	users := user.NewStore(sqlDB)

	if *category != "" {
		if _, err := article.NewStore(sqlDB).CreateCategory(ctx, *category); err != nil {
			log.Printf("error creating category %q: %v", *category, err)
			return 1
		}
	}

	if *username == "" {
		return 0
	}

	switch {
	case *join:
		if *groupname == "" {
			log.Println("-join needs -group")
			return 2
		}
		u, err := users.GetByName(ctx, *username)
		if err != nil {
			log.Printf("error getting user %s: %v", *username, err)
			return 1
		}
		if err := groups.Join(ctx, *groupname, u.ID); err != nil {
			log.Printf("error joining: %v", err)
			return 1
		}
	case *superuser:
		u, err := users.GetByName(ctx, *username)
		if err != nil {
			log.Printf("error getting user %s: %v", *username, err)
			return 1
		}
		if err := users.SetSuperuser(ctx, u.ID, true); err != nil {
			log.Printf("error promoting user %s: %v", *username, err)
			return 1
		}
	default:
		if *password == "" {
			if *password, err = readPassword(*username); err != nil {
				log.Println(err)
				return 1
			}
		}
		if _, err := users.Create(ctx, *username, *password); err != nil {
			log.Printf("error creating user %s: %v", *username, err)
			return 1
		}
	}
	return 0
}

func readPassword(username string) (string, error) {
	fmt.Printf("password for user %s: ", username)
	pass1, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	fmt.Printf("repeat password: ")
	pass2, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("error reading password: %w", err)
	}

	if string(pass1) != string(pass2) {
		return "", fmt.Errorf("passwords don't match")
	}
	return string(pass1), nil
}
