package natsdelivery

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/Arthur-Ayvazyan/rest-api/internal/application/services"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure"
	"github.com/Arthur-Ayvazyan/rest-api/internal/infrastructure/db/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newResponder(t *testing.T) *Responder {
	t.Helper()
	limiter := infrastructure.NewRateLimiter(time.Minute, 100)
	t.Cleanup(limiter.Stop)
	auth := services.NewAuthService(
		memory.NewUserRepository(),
		infrastructure.NewJWTService("test-secret", time.Hour),
		nil,
		limiter,
		bcrypt.MinCost,
		nil,
	)
	return NewResponder(auth, ResponderConfig{Prefix: "test"}, nil)
}

func decodeReply(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestResponderSubjects(t *testing.T) {
	r := NewResponder(nil, ResponderConfig{}, nil)
	assert.Equal(t, "feed.auth.signup", r.SignUpSubject())
	assert.Equal(t, "feed.auth.login", r.LoginSubject())
	assert.Equal(t, "feed.health", r.HealthSubject())
	assert.Equal(t, defaultQueueGroup, r.queue)
	assert.Equal(t, defaultHandlerTimeout, r.timeout)
}

func TestResponderSignUpAndLogin(t *testing.T) {
	r := newResponder(t)

	reply := decodeReply(t, r.handle(r.SignUpSubject(), r.signUp,
		[]byte(`{"email":"nats@test.com","name":"Nats","password":"secret1"}`)))
	assert.Equal(t, "User created", reply["message"])
	userId, _ := reply["userId"].(string)
	require.NotEmpty(t, userId)

	reply = decodeReply(t, r.handle(r.LoginSubject(), r.login,
		[]byte(`{"email":"nats@test.com","password":"secret1"}`)))
	assert.Equal(t, userId, reply["userId"])
	assert.NotEmpty(t, reply["token"])
}

func TestResponderErrors(t *testing.T) {
	r := newResponder(t)

	reply := decodeReply(t, r.handle(r.SignUpSubject(), r.signUp, []byte(`not json`)))
	assert.Equal(t, "Invalid request body.", reply["error"])
	assert.EqualValues(t, 422, reply["status"])

	reply = decodeReply(t, r.handle(r.SignUpSubject(), r.signUp,
		[]byte(`{"email":"bad","name":"","password":"x"}`)))
	assert.EqualValues(t, 422, reply["status"])
	assert.NotEmpty(t, reply["data"])

	reply = decodeReply(t, r.handle(r.LoginSubject(), r.login,
		[]byte(`{"email":"ghost@test.com","password":"secret1"}`)))
	assert.Equal(t, "Wrong login or password.", reply["error"])
	assert.EqualValues(t, 401, reply["status"])
}

func TestResponderHealth(t *testing.T) {
	r := NewResponder(nil, ResponderConfig{}, nil)
	reply := decodeReply(t, r.health())
	assert.Equal(t, "healthy", reply["status"])
	assert.NotEmpty(t, reply["timestamp"])
}
