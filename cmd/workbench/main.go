package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/workbenchhq/workbench/internal/profile"
	"github.com/workbenchhq/workbench/server"
	"github.com/workbenchhq/workbench/store"
	"github.com/workbenchhq/workbench/store/db"
)

const (
	greetingBanner = `Workbench - knowledge-base chat for your workspace.`
)

var (
	rootCmd = &cobra.Command{
		Use:   "workbench",
		Short: "Multi-tenant knowledge-base chat backend",
		Run: func(_ *cobra.Command, _ []string) {
			logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
			instanceProfile := &profile.Profile{
				Mode:      viper.GetString("mode"),
				Addr:      viper.GetString("addr"),
				Port:      viper.GetInt("port"),
				Data:      viper.GetString("data"),
				Driver:    viper.GetString("driver"),
				DSN:       viper.GetString("dsn"),
				JWTSecret: viper.GetString("jwt-secret"),
			}
			instanceProfile.FromEnv()
			if err := instanceProfile.Validate(); err != nil {
				logger.Error("invalid configuration", slog.String("error", err.Error()))
				os.Exit(1)
			}

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			dbDriver, err := db.NewDBDriver(instanceProfile)
			if err != nil {
				logger.Error("failed to create db driver", slog.String("error", err.Error()))
				os.Exit(1)
			}

			storeInstance := store.New(dbDriver, instanceProfile)
			s, err := server.NewServer(ctx, instanceProfile, storeInstance, logger)
			if err != nil {
				logger.Error("failed to create server", slog.String("error", err.Error()))
				os.Exit(1)
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				sig := <-sigCh
				logger.Info("received signal, shutting down", slog.String("signal", sig.String()))
				s.Shutdown(ctx)
				cancel()
			}()

			fmt.Println(greetingBanner)
			if err := s.Start(ctx); err != nil {
				logger.Error("failed to start server", slog.String("error", err.Error()))
				cancel()
			}

			<-ctx.Done()
		},
	}
)

func init() {
	viper.SetDefault("mode", "dev")
	viper.SetDefault("addr", "")
	viper.SetDefault("port", 8081)
	viper.SetDefault("data", ".")
	viper.SetDefault("driver", "sqlite")

	rootCmd.PersistentFlags().String("mode", "dev", `mode of the server, can be "prod", "dev" or "demo"`)
	rootCmd.PersistentFlags().String("addr", "", "address of the server")
	rootCmd.PersistentFlags().Int("port", 8081, "port of the server")
	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().String("driver", "sqlite", `database driver, "sqlite" or "postgres"`)
	rootCmd.PersistentFlags().String("dsn", "", "database source name")
	rootCmd.PersistentFlags().String("jwt-secret", "workbench-secret", "secret used to sign access tokens")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}

	viper.SetEnvPrefix("workbench")
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		panic(err)
	}
}
