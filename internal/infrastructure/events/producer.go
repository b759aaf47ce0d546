package events

import (
	"context"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/storefront-api/pkg/logger"
)

// MessageWriter lo que el producer necesita de *kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publica mensajes desde una goroutine propia; Publish nunca bloquea al request.
type Producer struct {
	w       MessageWriter
	inbox   chan kafka.Message
	closeCh chan struct{}
	mu      sync.RWMutex
	closed  bool
	log     *logger.Logger
}

// NewProducer crea el writer hacia los brokers. buf es la capacidad del buffer en memoria.
func NewProducer(brokers []string, topic string, buf int, log *logger.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return NewProducerWithWriter(w, buf, log)
}

// NewProducerWithWriter permite inyectar el writer (tests).
func NewProducerWithWriter(w MessageWriter, buf int, log *logger.Logger) *Producer {
	if buf <= 0 {
		buf = 256
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Producer{
		w:       w,
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
		log:     log.Component("kafka-producer"),
	}
}

// Start lanza el loop de envío. Termina al llamar Close: vacía lo pendiente y cierra el writer.
func (p *Producer) Start() {
	go func() {
		defer close(p.closeCh)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.log.Error().Err(err).Str("key", string(m.Key)).Msg("no se pudo publicar el evento")
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.log.Warn().Err(err).Msg("cerrar writer de kafka")
		}
	}()
}

// Publish encola el mensaje. Con el buffer lleno o el producer cerrado se descarta y se registra.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.log.Warn().Str("key", string(key)).Msg("producer cerrado, se descarta el mensaje")
		return
	}
	select {
	case p.inbox <- m:
	default:
		p.log.Warn().Str("key", string(key)).Msg("buffer de eventos lleno, se descarta el mensaje")
	}
}

// Close deja de aceptar mensajes; el loop envía lo pendiente y termina.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
}

// WaitClosed espera a que el loop termine.
func (p *Producer) WaitClosed() { <-p.closeCh }
