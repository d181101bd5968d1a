package producers

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockKafkaWriter mocks KafkaWriter interface
type MockKafkaWriter struct {
	mock.Mock
}

func (m *MockKafkaWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *MockKafkaWriter) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLedgerEntryProducer_Publish(t *testing.T) {
	ctx := context.Background()
	topic := "test-ledger"

	t.Run("SuccessfulPublish", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &LedgerEntryProducer{logger: newTestLogger(), writer: mockWriter, topic: topic}
		payload := []byte(`{"type":"STAKE_DEBIT","amount":"10.00"}`)

		mockWriter.On("WriteMessages", ctx, mock.MatchedBy(func(msgs []kafka.Message) bool {
			if len(msgs) != 1 {
				return false
			}
			msg := msgs[0]
			return string(msg.Key) == "42" &&
				string(msg.Value) == string(payload) &&
				len(msg.Headers) == 1 &&
				msg.Headers[0].Key == CorrelationIDHeader &&
				string(msg.Headers[0].Value) == "corr-1"
		})).Return(nil).Once()

		err := producer.Publish(ctx, "42", payload, kafka.Header{Key: CorrelationIDHeader, Value: []byte("corr-1")})
		require.NoError(t, err)
		mockWriter.AssertExpectations(t)
	})

	t.Run("PublishReturnsErrorOnWriterError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &LedgerEntryProducer{logger: newTestLogger(), writer: mockWriter, topic: topic}
		writerError := errors.New("kafka write error")

		mockWriter.On("WriteMessages", ctx, mock.AnythingOfType("[]kafka.Message")).Return(writerError).Once()

		err := producer.Publish(ctx, "42", []byte(`{}`))
		require.Error(t, err)
		assert.ErrorIs(t, err, writerError)
		mockWriter.AssertExpectations(t)
	})
}

func TestLedgerEntryProducer_Close(t *testing.T) {
	t.Run("SuccessfulClose", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &LedgerEntryProducer{logger: newTestLogger(), writer: mockWriter, topic: "t"}
		mockWriter.On("Close").Return(nil).Once()

		require.NoError(t, producer.Close())
		mockWriter.AssertExpectations(t)
	})

	t.Run("CloseReturnsErrorOnWriterCloseError", func(t *testing.T) {
		mockWriter := new(MockKafkaWriter)
		producer := &LedgerEntryProducer{logger: newTestLogger(), writer: mockWriter, topic: "t"}
		closeError := errors.New("kafka close error")
		mockWriter.On("Close").Return(closeError).Once()

		err := producer.Close()
		assert.ErrorIs(t, err, closeError)
		mockWriter.AssertExpectations(t)
	})
}

// Verify interface implementation
var (
	_ KafkaWriter      = (*MockKafkaWriter)(nil)
	_ MessagePublisher = (*LedgerEntryProducer)(nil)
)
