package main

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/fiber/v2"
	"github.com/teamup/teamup-server/config"
	"github.com/teamup/teamup-server/controllers"
	"github.com/teamup/teamup-server/models"
	"github.com/teamup/teamup-server/repos"
	"github.com/teamup/teamup-server/server"
	"github.com/teamup/teamup-server/services"
	"github.com/teamup/teamup-server/utils"
	"go.uber.org/fx"
)

func main() {

	opts := []fx.Option{}
	opts = append(opts, provideOptions()...)
	opts = append(opts, fx.Invoke(run))

	app := fx.New(opts...)

	app.Run()
}

func provideOptions() []fx.Option {
	return []fx.Option{
		fx.Invoke(utils.ConfigureLogger),
		fx.Provide(config.Parse),
		fx.Invoke(func(config *config.Config) {
			utils.InitSharedConstants(*config.JwtParsedPublicKey)
		}),
		fx.Provide(config.ProvidePostgres),
		fx.Provide(config.ProvideRedis),
		fx.Provide(server.CreateServer),
		fx.Provide(utils.GetDefaultRouter),
		fx.Invoke(models.InitModelRegistrations),
		fx.Provide(repos.NewTeamRepo),
		fx.Provide(repos.NewTeamUserRepo),
		fx.Provide(repos.NewUserRepo),
		fx.Provide(func(client *redis.Client, config *config.Config) *utils.RedisLock {
			return utils.NewRedisLock(client, config.Lock)
		}),
		fx.Provide(func(r *repos.TeamRepo) services.TeamStore { return r }),
		fx.Provide(func(r *repos.TeamUserRepo) services.MemberStore { return r }),
		fx.Provide(func(r *repos.UserRepo) services.UserStore { return r }),
		fx.Provide(services.NewRedisLocker),
		fx.Provide(services.NewTeamService),
		fx.Provide(services.NewMatchService),
		fx.Invoke(controllers.RegisterTeamController),
		fx.Invoke(controllers.RegisterUserController),
	}
}

func run(app *fiber.App, config *config.Config, lc fx.Lifecycle) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			errChan := make(chan error)

			go func() {
				errChan <- app.Listen(config.Port)
			}()

			select {
			case err := <-errChan:
				return err
			case <-time.After(100 * time.Millisecond):
				return nil
			}
		},
		OnStop: func(ctx context.Context) error {
			return app.Shutdown()
		},
	})
}
