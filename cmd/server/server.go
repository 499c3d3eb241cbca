package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/axellelanca/quickurl/cmd"
	"github.com/axellelanca/quickurl/internal/api"
	"github.com/axellelanca/quickurl/internal/bot"
	"github.com/axellelanca/quickurl/internal/database"
	"github.com/axellelanca/quickurl/internal/monitor"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur API de raccourcissement d'URLs et les processus de fond.",
	Long: `Cette commande initialise la base de données, configure les APIs,
démarre le moniteur de liens et le bot Discord s'ils sont activés,
puis lance le serveur HTTP.`,
	RunE: func(c *cobra.Command, args []string) error {
		cfg := cmd.Cfg
		log := cmd.Log

		// Initialiser la base de données (migration comprise)
		db, err := cmd.OpenDatabase()
		if err != nil {
			return fmt.Errorf("échec de l'ouverture de la base de données : %w", err)
		}
		defer func() {
			if err := database.Close(db); err != nil {
				log.Error().Err(err).Msg("échec de la fermeture de la base de données")
			}
		}()

		linkService, linkRepo := cmd.NewLinkService(db)
		log.Info().Msg("Services métiers initialisés.")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		var background sync.WaitGroup

		// Moniteur de liens, désactivé par défaut.
		if cfg.Monitor.Enabled {
			linkMonitor := monitor.NewLinkMonitor(linkRepo, cmd.NewMonitorChecker(), cfg.MonitorInterval(), log)
			background.Add(1)
			go func() {
				defer background.Done()
				linkMonitor.Start(ctx)
			}()
		}

		// Bot Discord, désactivé par défaut.
		if cfg.Discord.Enabled {
			discordBot, err := bot.New(cfg.Discord.Token, cfg.Discord.GuildID, linkService, cfg.ValidationTimeout(), log)
			if err != nil {
				return err
			}
			background.Add(1)
			go func() {
				defer background.Done()
				if err := discordBot.Start(ctx); err != nil {
					log.Error().Err(err).Msg("le bot Discord s'est arrêté avec une erreur")
				}
			}()
		}

		// Configurer le routeur Gin et les handlers API.
		gin.SetMode(gin.ReleaseMode)
		router := api.NewRouter(linkService, log)
		log.Info().Msg("Routes API configurées.")

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:         serverAddr,
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout(),
			WriteTimeout: cfg.WriteTimeout(),
		}

		// Démarrer le serveur dans une goroutine pour ne pas bloquer.
		serverErr := make(chan error, 1)
		go func() {
			log.Info().Str("addr", serverAddr).Str("base_url", cfg.Server.BaseURL).Msg("Démarrage du serveur")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()

		// Attendre Ctrl+C, SIGTERM ou l'échec du serveur.
		select {
		case <-ctx.Done():
			log.Info().Msg("Signal d'arrêt reçu. Arrêt du serveur...")
		case err := <-serverErr:
			stop()
			background.Wait()
			return fmt.Errorf("échec du démarrage du serveur : %w", err)
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("arrêt forcé du serveur")
		}

		background.Wait()
		log.Info().Msg("Serveur arrêté proprement.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
