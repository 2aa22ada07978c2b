package config

import (
	"github.com/redis/rueidis"
	"github.com/sirupsen/logrus"
)

func NewRedisClient(addr string, log *logrus.Logger) rueidis.Client {
	redisClient, err := rueidis.NewClient(
		rueidis.ClientOption{
			InitAddress: []string{addr},
		},
	)
	if err != nil {
		log.Fatalf("failed to create redis client: %v", err)
	}

	return redisClient
}
