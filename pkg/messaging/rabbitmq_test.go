package messaging

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRabbitMQ_HealthNil(t *testing.T) {
	var rmq *RabbitMQ

	status := rmq.Health()
	assert.Equal(t, "down", status["status"])
	assert.Equal(t, "not configured", status["error"])
}
