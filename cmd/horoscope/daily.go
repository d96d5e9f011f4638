package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mcmodersd/astrology"
	"github.com/mcmodersd/astrology/internal/config"
	"github.com/mcmodersd/astrology/internal/telemetry"
	"github.com/mcmodersd/astrology/prokerala"
	"github.com/mcmodersd/astrology/zodiac"
)

func dailyCmd() *cobra.Command {
	var (
		configPath   string
		signName     string
		date         string
		clientID     string
		clientSecret string
	)

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Fetch today's prediction for a zodiac sign or calendar date",
		RunE: func(cmd *cobra.Command, args []string) error {
			coordinator, err := buildCoordinator(configPath, clientID, clientSecret)
			if err != nil {
				return err
			}

			collector := telemetry.NewCollector(prometheus.NewRegistry())
			coordinator.SetMetricsCallback(collector.Record)

			var prediction *prokerala.Prediction
			switch {
			case signName != "":
				sign, err := zodiac.FromName(signName)
				if err != nil {
					return err
				}
				prediction, err = coordinator.DailyPrediction(cmd.Context(), sign)
				if err != nil {
					return err
				}
			case date != "":
				var month, day int
				if _, err := fmt.Sscanf(date, "%d-%d", &month, &day); err != nil {
					return fmt.Errorf("date must be MM-DD: %w", err)
				}
				prediction, err = coordinator.DailyPredictionForDate(cmd.Context(), month, day)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("either --sign or --date is required")
			}

			fmt.Printf("%s (%s)\n%s\n", prediction.SignName, prediction.DateString(), prediction.Text)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to a YAML config file")
	cmd.Flags().StringVar(&signName, "sign", "", "zodiac sign name, e.g. aries")
	cmd.Flags().StringVar(&date, "date", "", "calendar date as MM-DD, e.g. 05-04")
	cmd.Flags().StringVar(&clientID, "client-id", "", "Prokerala client id (alternative to --config)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "Prokerala client secret")

	return cmd
}

func buildCoordinator(configPath, clientID, clientSecret string) (*astrology.Astrology, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		log.Debug().
			Int("credentials", len(cfg.Credentials.ClientIDs)).
			Str("config", configPath).
			Msg("coordinator configured from file")
		return astrology.NewWithConfig(cfg.ClientConfig(),
			cfg.Credentials.ClientIDs, cfg.Credentials.ClientSecrets)
	}

	if clientID == "" {
		return nil, fmt.Errorf("either --config or --client-id is required")
	}
	if clientSecret == "" {
		secret, err := promptSecret()
		if err != nil {
			return nil, err
		}
		clientSecret = secret
	}
	return astrology.NewSingle(clientID, clientSecret)
}

// promptSecret reads the client secret from the terminal without echo.
func promptSecret() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--client-secret is required when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Client secret: ")
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading client secret: %w", err)
	}
	return strings.TrimSpace(string(secret)), nil
}
