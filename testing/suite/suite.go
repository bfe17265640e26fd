// Package suite starts a disposable Redis container for repository tests.
package suite

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
)

const (
	// containerLifetime is in seconds; docker hard-kills the container after
	// it in case a test hangs without cleaning up.
	containerLifetime = 120
	maxWait           = 120 * time.Second
)

const (
	redisPort  = "6379/tcp"
	redisImage = "redis"
	redisTag   = "alpine"
)

// keyPrefixes are the namespaces the repositories write under.
var keyPrefixes = []string{"session:", "player:"}

type Suite struct {
	*testing.T
	Logger *slog.Logger

	Storage *redis.Client
}

func New(t *testing.T) (context.Context, *Suite) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), maxWait)
	t.Cleanup(cancel)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).
		With("component", "suite")

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("could not connect to docker: %v", err)
	}
	pool.MaxWait = maxWait

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: redisImage,
		Tag:        redisTag,
	}, func(config *docker.HostConfig) {
		// stopped containers go away by themselves
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("could not start redis container: %v", err)
	}

	// never returns error
	_ = resource.Expire(containerLifetime)

	addr := resource.GetHostPort(redisPort)

	var client *redis.Client
	// retry with backoff, the container might not accept connections yet
	if err = pool.Retry(func() error {
		client = redis.NewClient(&redis.Options{
			Addr: addr,
		})
		return client.Ping(ctx).Err()
	}); err != nil {
		if purgeErr := pool.Purge(resource); purgeErr != nil {
			t.Fatalf("could not purge resource: %v", purgeErr)
		}

		t.Fatalf("could not connect to redis: %v", err)
	}

	if err = client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("could not flush database: %v", err)
	}

	t.Cleanup(func() {
		t.Helper()

		if err := pool.Purge(resource); err != nil {
			t.Fatalf("could not purge resource: %v", err)
		}
	})

	return ctx, &Suite{
		T:       t,
		Logger:  logger,
		Storage: client,
	}
}

// FlushKeys removes every session and player record, so subtests can reuse
// IDs on a shared container instead of paying for a fresh one.
func (that *Suite) FlushKeys(ctx context.Context) {
	that.Helper()

	for _, prefix := range keyPrefixes {
		keys, err := that.Storage.Keys(ctx, prefix+"*").Result()
		if err != nil {
			that.Fatalf("could not list %q keys: %v", prefix, err)
		}

		if len(keys) == 0 {
			continue
		}

		if err = that.Storage.Del(ctx, keys...).Err(); err != nil {
			that.Fatalf("could not delete %q keys: %v", prefix, err)
		}
	}
}
