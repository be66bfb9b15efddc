// Package redis provides helpers for connecting to the Redis server backing
// the session store and the login rate limiter: a Connect with startup
// retries and a health-check probe.
//
// Configuration is described by Config, whose fields are populated from
// environment variables via github.com/caarlos0/env.
//
// # Usage
//
//	var cfg redis.Config
//	if err := env.Parse(&cfg); err != nil {
//	    panic(err)
//	}
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil {
//	    panic(err)
//	}
//	defer client.Close()
//
//	sessions := session.NewRedisStore(client)
//	limiter, err := ratelimit.NewSlidingWindow(ratelimit.NewRedisStore(client), 5, time.Minute)
package redis
