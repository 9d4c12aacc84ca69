package messaging

import (
	"fmt"
	"log"
	"medreport-service/internal/app/config"

	"github.com/rabbitmq/amqp091-go"
)

// NewRabbitMQ connects the broker that carries accepted-report events to
// downstream consumers. Queue declaration and publisher confirms live with
// the queue service, not here.
func NewRabbitMQ(driverConfig *config.DriverConfig) *amqp091.Connection {
	connectionString := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		driverConfig.RabbitMQ.Username,
		driverConfig.RabbitMQ.Password,
		driverConfig.RabbitMQ.Host,
		driverConfig.RabbitMQ.Port,
	)
	conn, err := amqp091.Dial(connectionString)
	if err != nil {
		log.Fatalf("Failed to connect to the event broker: %s", err.Error())
	}
	log.Println("Successfully connected to the event broker")
	return conn
}
