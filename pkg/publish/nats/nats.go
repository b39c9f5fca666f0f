package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/mpapenbr/racecontrol-service-go/log"
	"github.com/mpapenbr/racecontrol-service-go/pkg/model"
	"github.com/mpapenbr/racecontrol-service-go/pkg/publish"
)

const (
	DefaultSubjectPrefix = "racecontrol"
	DefaultBucket        = "racecontrol_results"
)

type (
	Publisher struct {
		conn      *nats.Conn
		kv        jetstream.KeyValue
		prefix    string
		bucket    string
		ttl       time.Duration
		ownedConn bool
		l         *log.Logger
	}
	Option func(*Publisher)
)

var (
	_ publish.Publisher    = (*Publisher)(nil)
	_ publish.ResultLoader = (*Publisher)(nil)
)

func WithSubjectPrefix(prefix string) Option {
	return func(p *Publisher) {
		p.prefix = prefix
	}
}

func WithBucket(bucket string) Option {
	return func(p *Publisher) {
		p.bucket = bucket
	}
}

// WithTTL sets how long stored results are kept (0 means forever)
func WithTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.ttl = ttl
	}
}

func WithLogger(l *log.Logger) Option {
	return func(p *Publisher) {
		p.l = l
	}
}

// Connect opens a connection to url. The connection is closed by Publisher.Close.
func Connect(ctx context.Context, url string, opts ...Option) (*Publisher, error) {
	conn, err := nats.Connect(url, nats.Name("racecontrol-service"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	ret, err := NewPublisher(ctx, conn, opts...)
	if err != nil {
		conn.Close()
		return nil, err
	}
	ret.ownedConn = true
	return ret, nil
}

func NewPublisher(ctx context.Context, conn *nats.Conn, opts ...Option) (*Publisher, error) {
	ret := &Publisher{
		conn:   conn,
		prefix: DefaultSubjectPrefix,
		bucket: DefaultBucket,
		l:      log.Default().Named("nats"),
	}
	for _, opt := range opts {
		opt(ret)
	}
	if err := ret.setupKV(ctx); err != nil {
		return nil, err
	}
	return ret, nil
}

func (p *Publisher) setupKV(ctx context.Context) error {
	var js jetstream.JetStream
	var err error
	if js, err = jetstream.New(p.conn); err != nil {
		return err
	}
	p.kv, err = js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket: p.bucket,
		TTL:    p.ttl,
	})
	return err
}

func ResultSubject(prefix string, raceID int) string {
	return fmt.Sprintf("%s.race.%d.result", prefix, raceID)
}

func LapSubject(prefix string, raceID int) string {
	return fmt.Sprintf("%s.race.%d.laps", prefix, raceID)
}

func resultKey(raceID int) string {
	return strconv.Itoa(raceID)
}

// PublishResult sends the result to subscribers and stores it as latest
// result of the race.
func (p *Publisher) PublishResult(ctx context.Context, env *publish.Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return err
	}
	subject := ResultSubject(p.prefix, env.RaceID)
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}
	if _, err := p.kv.Put(ctx, resultKey(env.RaceID), data); err != nil {
		return fmt.Errorf("store result: %w", err)
	}
	p.l.Debug("result published",
		log.String("subject", subject),
		log.String("runId", env.RunID),
		log.Int("bytes", len(data)))
	return nil
}

func (p *Publisher) PublishLap(_ context.Context, raceID int, upd model.LapUpdate) error {
	data, err := json.Marshal(upd)
	if err != nil {
		return err
	}
	return p.conn.Publish(LapSubject(p.prefix, raceID), data)
}

func (p *Publisher) LoadResult(ctx context.Context, raceID int) (*publish.Envelope, error) {
	kve, err := p.kv.Get(ctx, resultKey(raceID))
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %d", publish.ErrResultNotFound, raceID)
		}
		return nil, err
	}
	return publish.DecodeEnvelope(kve.Value())
}

func (p *Publisher) Close() {
	if err := p.conn.Flush(); err != nil {
		p.l.Warn("flush failed", log.ErrorField(err))
	}
	if p.ownedConn {
		p.conn.Close()
	}
}
