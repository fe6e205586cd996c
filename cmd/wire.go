package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	chainsource "github.com/bnema/shotbot/internal/adapters/credentials/chain"
	logevents "github.com/bnema/shotbot/internal/adapters/events/log"
	mqttevents "github.com/bnema/shotbot/internal/adapters/events/mqtt"
	statusadapter "github.com/bnema/shotbot/internal/adapters/render/status"
	bridgerobot "github.com/bnema/shotbot/internal/adapters/robot/bridge"
	simrobot "github.com/bnema/shotbot/internal/adapters/robot/sim"
	redisstore "github.com/bnema/shotbot/internal/adapters/store/redis"
	tomlstore "github.com/bnema/shotbot/internal/adapters/store/toml"
	"github.com/bnema/shotbot/internal/application"
	"github.com/bnema/shotbot/internal/config"
	"github.com/bnema/shotbot/internal/domain"
	"github.com/bnema/shotbot/internal/logging"
	"github.com/bnema/shotbot/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg              config.Config
	viper            *viper.Viper
	logger           *slog.Logger
	clock            ports.Clock
	random           application.Random
	credentials      ports.CredentialSource
	statusRenderer   func(application.SessionStatus) (string, error)
	sessionsRenderer func([]domain.Session) (string, error)
}

func wireApp() (*app, error) {
	v := viper.New()

	cfg, err := config.Load(v, config.LoadOptions{
		EnvFile: envOrDefault("SHOTBOT_ENV_FILE", ".env"),
	})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	credentials, err := chainsource.NewPassFirstWithFileFallback(filepath.Join(homeDir, ".shotbot", "secrets"))
	if err != nil {
		return nil, fmt.Errorf("wire credential chain: %w", err)
	}

	return &app{
		cfg:              cfg,
		viper:            v,
		logger:           logger,
		clock:            ports.SystemClock{},
		credentials:      credentials,
		statusRenderer:   statusadapter.Render,
		sessionsRenderer: statusadapter.RenderSessions,
	}, nil
}

func (a *app) openStore(ctx context.Context) (ports.InviteeStore, error) {
	switch a.cfg.Store.Backend {
	case config.StoreTOML:
		store, err := tomlstore.NewStore(a.viper)
		if err != nil {
			return nil, fmt.Errorf("open toml store: %w", err)
		}
		a.logger.Debug("using toml store", "path", store.Path())
		return store, nil
	default:
		password, err := a.cfg.Redis.RedisPassword(ctx, a.credentials)
		if err != nil {
			return nil, err
		}

		store, err := redisstore.NewStore(redisstore.Options{
			Host:        a.cfg.Redis.Host,
			Port:        a.cfg.Redis.Port,
			Password:    password,
			DB:          a.cfg.Redis.DB,
			TLS:         a.cfg.Redis.TLS,
			DialTimeout: a.cfg.Redis.DialTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		return store, nil
	}
}

func (a *app) connectRobot(ctx context.Context, simulate bool, progress io.Writer) (ports.Robot, error) {
	if simulate || a.cfg.Robot.Backend == config.RobotSim {
		a.logger.Info("using simulated robot")
		return simrobot.NewParty(), nil
	}

	var client *bridgerobot.Client
	err := dialBridgeWithProgress(ctx, progress, a.cfg.Robot.BridgeURL, func(ctx context.Context) error {
		var dialErr error
		client, dialErr = bridgerobot.Dial(ctx, a.cfg.Robot.BridgeURL, bridgerobot.Options{
			CallTimeout: a.cfg.Robot.CallTimeout,
			Logger:      a.logger,
		})
		return dialErr
	})
	if err != nil {
		return nil, err
	}

	return client, nil
}

func (a *app) openEvents(ctx context.Context) (ports.EventPublisher, func() error, error) {
	if a.cfg.MQTT.Broker == "" {
		return logevents.NewPublisher(a.logger), func() error { return nil }, nil
	}

	publisher, err := mqttevents.Connect(ctx, mqttevents.Options{
		Broker:   a.cfg.MQTT.Broker,
		ClientID: a.cfg.MQTT.ClientID,
		Topic:    a.cfg.MQTT.Topic,
		Logger:   a.logger,
	})
	if err != nil {
		return nil, nil, err
	}

	return publisher, publisher.Close, nil
}

func (a *app) sessionService(store ports.InviteeStore, events ports.EventPublisher) *application.SessionService {
	return application.NewSessionService(store, events, a.clock, a.logger)
}

func (a *app) newParty(store ports.InviteeStore, robot ports.Robot, events ports.EventPublisher) *application.Party {
	party := a.cfg.Party
	prompt := application.NewTolerancePrompt(robot, a.clock, party.ToleranceWindow, party.ButtonPoll)

	return application.NewParty(
		a.sessionService(store, events),
		application.NewInviteeService(store, robot, prompt, events, a.clock, a.logger),
		application.NewPerception(robot, a.clock, application.PerceptionOptions{
			IdentifyAttempts: party.IdentifyAttempts,
			SearchRounds:     party.SearchRounds,
			Random:           a.random,
			Logger:           a.logger,
		}),
		application.NewBartender(robot, domain.DefaultCupMarker, domain.DefaultPourParams, a.logger),
		application.NewRoamer(robot, a.clock, a.random, a.logger),
		robot,
		events,
		a.clock,
		application.PartyOptions{
			ServeWindow:  party.ServeWindow,
			RoamDuration: party.RoamDuration,
			Logger:       a.logger,
		},
	)
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
