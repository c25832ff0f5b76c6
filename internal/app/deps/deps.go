package deps

import (
	"context"
	"sync"
	"time"

	"gatekeeper/internal/config"
	dl "gatekeeper/internal/core/domain/logging"
	drl "gatekeeper/internal/core/domain/rate_limiter"
	"gatekeeper/internal/core/domain/user"
	dbuser "gatekeeper/internal/db/user"
	"gatekeeper/internal/implementations/email"
	"gatekeeper/internal/implementations/logging"
	passwordhasher "gatekeeper/internal/implementations/password_hasher"
	passwordresettoken "gatekeeper/internal/implementations/password_reset_token"
	ratelimiter "gatekeeper/internal/implementations/rate_limiter"
	"gatekeeper/internal/implementations/session"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/aws/retry"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/go-redis/redis/v9"
	"github.com/jackc/pgx/v4/pgxpool"
)

type Deps struct {
	Config    *config.Config
	AwsConfig aws.Config
	Logger    dl.Logger

	DB    *pgxpool.Pool
	Redis *redis.Client

	Now func() time.Time

	UserRepository    user.UserRepository
	SessionRepository user.SessionRepository

	RateLimiter drl.RateLimiter

	EmailSender *email.EmailSender

	PasswordResetTokenGenerator       user.PasswordResetTokenGenerator
	PasswordResetTokenSender          user.PasswordResetTokenSender
	PasswordChangedNotificationSender user.PasswordChangedNotificationSender
	PasswordHasher                    user.PasswordHasher
	SessionTokenGenerator             user.SessionTokenGenerator
}

func InitDeps() (*Deps, func()) {
	deps := &Deps{}

	deps.initConfig()
	deps.initAwsConfig()

	closeLogger := deps.initLogger()
	closePgxPool := deps.initPgxPool()
	closeRedisClient := deps.initRedisClient()

	deps.Now = func() time.Time { return time.Now().UTC() }

	deps.UserRepository = dbuser.NewPgxRepository(deps.DB)
	deps.SessionRepository = dbuser.NewPgxSessionRepository(deps.DB)
	deps.RateLimiter = ratelimiter.NewRedis(deps.Redis, deps.Logger, deps.Now)

	deps.EmailSender = email.NewEmailSender(
		deps.AwsConfig,
		deps.Config.AwsEmailSender,
		deps.Config.AwsEmailPasswordResetTemplate,
		deps.Config.PasswordResetBaseURL,
		deps.Config.AwsEmailPasswordChangedTemplate,
	)

	deps.PasswordResetTokenGenerator = passwordresettoken.NewGenerator()
	deps.PasswordResetTokenSender = deps.EmailSender
	deps.PasswordChangedNotificationSender = deps.EmailSender
	deps.PasswordHasher = passwordhasher.NewBcrypt(deps.Config.Secret, deps.Config.BcryptHasherCost)
	deps.SessionTokenGenerator = session.NewUUID()

	return deps, func() {
		closeFuncs := []func(){
			closeRedisClient,
			closePgxPool,
			closeLogger,
		}

		var wg sync.WaitGroup
		wg.Add(len(closeFuncs))
		for _, closeFunc := range closeFuncs {
			closeFunc := closeFunc
			go func() {
				closeFunc()
				wg.Done()
			}()
		}

		wg.Wait()
	}
}

func (deps *Deps) initConfig() {
	config, err := config.Load()
	if err != nil {
		panic(err)
	}
	deps.Config = config
}

func (deps *Deps) initAwsConfig() {
	cfg, err := awsConfig.LoadDefaultConfig(
		context.Background(),
		awsConfig.WithRegion(deps.Config.AwsRegion),
		awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				deps.Config.AwsAccessKey,
				deps.Config.AwsSecretKey,
				"",
			),
		),
		awsConfig.WithRetryer(func() aws.Retryer {
			return retry.AddWithMaxAttempts(
				retry.AddWithMaxBackoffDelay(retry.NewStandard(), time.Second*5),
				3,
			)
		}),
	)
	if err != nil {
		panic(err)
	}
	deps.AwsConfig = cfg
}

func (deps *Deps) initLogger() func() {
	logger := logging.NewZapLogger()
	deps.Logger = logger
	return func() { logger.Sync() }
}

func (deps *Deps) initPgxPool() func() {
	db, err := pgxpool.Connect(context.Background(), deps.Config.PostgresqlURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to DB.", dl.Entry("err", err))
		panic(err)
	}
	deps.DB = db
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down DB connection.")
		db.Close()
		deps.Logger.Info(context.Background(), "DB connection shut down.")
	}
}

func (deps *Deps) initRedisClient() func() {
	redisOpt, err := redis.ParseURL(deps.Config.RedisURL)
	if err != nil {
		deps.Logger.Error(context.Background(), "Could not connect to Redis.", dl.Entry("err", err))
		panic(err)
	}
	redisClient := redis.NewClient(redisOpt)
	deps.Redis = redisClient
	return func() {
		deps.Logger.Info(context.Background(), "Shutting down Redis client.")
		redisClient.Close()
		deps.Logger.Info(context.Background(), "Redis client shut down.")
	}
}
