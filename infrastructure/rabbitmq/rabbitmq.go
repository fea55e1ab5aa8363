package rabbitmq

import (
	"time"

	"github.com/Shumail-AbdulRehman/Shahmeer-Backend/infrastructure/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const dialAttempts = 5

// NewConnection dials the broker, retrying a few times while it starts up.
func NewConnection(url string, backoff time.Duration) (*amqp.Connection, error) {
	var (
		conn *amqp.Connection
		err  error
	)
	for i := 1; i <= dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			logger.GetLogger().Info("RabbitMQ connected successfully")
			return conn, nil
		}
		logger.GetLogger().WithField("attempt", i).WithField("error", err).Warn("RabbitMQ dial failed, retrying")
		if i < dialAttempts {
			time.Sleep(backoff)
		}
	}
	return nil, err
}
