// Command adminctl runs operator tasks against the MySQL database:
// promoting admins, checking roles, deleting users and purging stale
// refresh tokens.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/divyansh01440/nirvana-agency/internal/database"
	"github.com/divyansh01440/nirvana-agency/internal/logger"
	"github.com/divyansh01440/nirvana-agency/internal/repository"
	"github.com/divyansh01440/nirvana-agency/internal/service"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	_ = godotenv.Load()

	log, err := logger.New(logger.ForEnv(os.Getenv("APP_ENV"), os.Getenv("LOG_LEVEL")))
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := database.Open(database.Settings{
		User: os.Getenv("DB_USER"),
		Pass: os.Getenv("DB_PASS"),
		Host: os.Getenv("DB_HOST"),
		Port: os.Getenv("DB_PORT"),
		Name: os.Getenv("DB_NAME"),
	})
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	dir := service.NewDirectoryService(service.NewGateway(users), users, log)

	switch cmd := args[0]; cmd {
	case "make-admin":
		u, err := dir.MakeAdmin(ctx, emailArg(args))
		exitOn(log, cmd, err)
		printJSON(u)
	case "check-admin":
		res, err := dir.CheckAdmin(ctx, emailArg(args))
		exitOn(log, cmd, err)
		printJSON(res)
	case "delete-user":
		email := emailArg(args)
		exitOn(log, cmd, dir.DeleteUserByEmail(ctx, email))
		printJSON(map[string]string{"deleted": email})
	case "cleanup-tokens":
		n, err := repository.NewTokenRepo(db).PurgeStale(ctx, time.Now().UTC())
		exitOn(log, cmd, err)
		log.Info("stale refresh tokens purged", zap.Int64("deleted", n))
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}
}

func emailArg(args []string) string {
	if len(args) < 2 || args[1] == "" {
		fmt.Fprintf(os.Stderr, "%s: email argument required\n", args[0])
		os.Exit(2)
	}
	return args[1]
}

func exitOn(log *zap.Logger, cmd string, err error) {
	if err == nil {
		return
	}
	log.Error(cmd+" failed", zap.String("reason", service.Message(err)), zap.Error(err))
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func usage() {
	fmt.Fprint(os.Stderr, `usage: adminctl <command> [args]

commands:
  make-admin <email>     grant the admin role
  check-admin <email>    print the user's role
  delete-user <email>    delete a user and their bookings, queries and reviews
  cleanup-tokens         delete expired and revoked refresh tokens

Database settings come from DB_USER, DB_PASS, DB_HOST, DB_PORT and DB_NAME.
`)
}
