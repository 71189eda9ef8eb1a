package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aatumaykin/hubmon/internal/config"
	"github.com/aatumaykin/hubmon/internal/logger"
)

type fakeSender struct {
	params *telego.SendMessageParams
	err    error
}

func (f *fakeSender) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	f.params = params
	if f.err != nil {
		return nil, f.err
	}
	return &telego.Message{}, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(logger.Config{Level: "debug", Format: "text", Output: "stdout"})
	require.NoError(t, err)
	return log
}

func TestTelegramNotify(t *testing.T) {
	sender := &fakeSender{}
	tg := &Telegram{
		cfg:    config.TelegramConfig{Enabled: true, ChatID: 42},
		bot:    sender,
		logger: testLogger(t),
	}

	err := tg.Notify(context.Background(), "rebooting hub: free memory 40 MB below threshold")
	require.NoError(t, err)

	require.NotNil(t, sender.params)
	assert.Equal(t, int64(42), sender.params.ChatID.ID)
	assert.Contains(t, sender.params.Text, "rebooting hub")
}

func TestTelegramNotifyFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("network down")}
	tg := &Telegram{
		cfg:    config.TelegramConfig{Enabled: true, ChatID: 42},
		bot:    sender,
		logger: testLogger(t),
	}

	err := tg.Notify(context.Background(), "hello")
	assert.ErrorContains(t, err, "network down")
}

func TestNoop(t *testing.T) {
	assert.NoError(t, Noop{}.Notify(context.Background(), "anything"))
}
