// Package main is the entry point for the mediahub web application.
// It runs the web server and provides maintenance commands for the database
// and user accounts.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/mhsanaei/mediahub/config"
	"github.com/mhsanaei/mediahub/database"
	"github.com/mhsanaei/mediahub/logger"
	"github.com/mhsanaei/mediahub/web"
	"github.com/mhsanaei/mediahub/web/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func openDB() (*gorm.DB, error) {
	dbConfig, err := config.GetDatabaseConfig()
	if err != nil {
		return nil, err
	}
	if err := dbConfig.ValidateConfig(); err != nil {
		return nil, err
	}
	return database.InitDB(dbConfig)
}

// runWebServer starts the web server and blocks until SIGINT or SIGTERM.
// SIGHUP restarts the server in place.
func runWebServer() {
	log.Printf("Starting %v %v", config.GetName(), config.GetVersion())

	level, err := logger.ParseLevel(config.GetLogLevel())
	if err != nil {
		log.Fatal(err)
	}
	logger.InitLogger(level)
	defer logger.CloseLogger()

	db, err := openDB()
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer func() {
		if err := database.CloseDB(db); err != nil {
			logger.Warning("close database err:", err)
		}
	}()

	server := web.NewServer(db)
	if err := server.Start(); err != nil {
		logger.Error("Error starting web server:", err)
		return
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	for {
		sig := <-sigCh

		switch sig {
		case syscall.SIGHUP:
			logger.Info("Received SIGHUP signal. Restarting web server...")
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			server = web.NewServer(db)
			if err := server.Start(); err != nil {
				logger.Error("Error restarting web server:", err)
				return
			}
			logger.Info("Web server restarted successfully.")
		default:
			logger.Infof("Received %s, shutting down", sig)
			if err := server.Stop(); err != nil {
				logger.Warning("stop server err:", err)
			}
			return
		}
	}
}

func migrateDb() {
	db, err := openDB()
	if err != nil {
		fmt.Println("migrate failed:", err)
		os.Exit(1)
	}
	defer database.CloseDB(db)
	fmt.Println("migration done")
}

func setCreator(username string, isCreator bool) {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	userService := service.NewUserService(db)
	if err := userService.SetCreator(username, isCreator); err != nil {
		fmt.Println("update user failed:", err)
		os.Exit(1)
	}
	fmt.Printf("%s creator=%v\n", username, isCreator)
}

func listUsers() {
	db, err := openDB()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer database.CloseDB(db)

	users, err := service.NewUserService(db).GetUsers()
	if err != nil {
		fmt.Println("list users failed:", err)
		os.Exit(1)
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tUSERNAME\tEMAIL\tCREATOR")
	for _, u := range users {
		fmt.Fprintf(w, "%d\t%s\t%s\t%v\n", u.Id, u.Username, u.Email, u.IsCreator)
	}
	_ = w.Flush()
}

func main() {
	if err := config.LoadEnv(); err != nil {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	rootCmd := &cobra.Command{
		Use:     config.GetName(),
		Short:   "Media sharing web application",
		Version: config.GetVersion(),
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run the web server",
		Run: func(cmd *cobra.Command, args []string) {
			runWebServer()
		},
	}

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Run: func(cmd *cobra.Command, args []string) {
			migrateDb()
		},
	}

	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
	}

	creatorCmd := &cobra.Command{
		Use:   "creator <username>",
		Short: "Grant or revoke the creator role",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			revoke, _ := cmd.Flags().GetBool("revoke")
			setCreator(args[0], !revoke)
		},
	}
	creatorCmd.Flags().Bool("revoke", false, "remove the creator role instead of granting it")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List registered users",
		Run: func(cmd *cobra.Command, args []string) {
			listUsers()
		},
	}

	userCmd.AddCommand(creatorCmd, listCmd)
	rootCmd.AddCommand(runCmd, migrateCmd, userCmd)

	// no subcommand behaves like "run"
	rootCmd.Run = runCmd.Run

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
