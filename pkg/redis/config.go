package redis

import "time"

type Config struct {
	ConnectionURL  string        `env:"REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL is the server URL, e.g. "redis://:password@localhost:6379/0".
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts before giving up.
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the pause between attempts.
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole retry loop.
}
