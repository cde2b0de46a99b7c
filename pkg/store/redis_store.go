// prtgcli/pkg/store/redis_store.go

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"rgehrsitz/prtgcli/pkg/engine"
	"rgehrsitz/prtgcli/pkg/logging"
	"rgehrsitz/prtgcli/pkg/object"
)

const (
	DefaultPrefix  = "prtgcli"
	DefaultChannel = "prtgcli:updates"
)

type Options struct {
	Addr     string
	Password string
	DB       int
	// TTL bounds how long a cached object set is served. Zero keeps it until
	// the next refresh.
	TTL     time.Duration
	Channel string
	Prefix  string
}

type RedisStore struct {
	client  *redis.Client
	ttl     time.Duration
	channel string
	prefix  string
}

// NewRedisStore connects and pings the server.
func NewRedisStore(ctx context.Context, opts Options) (*RedisStore, error) {
	logging.Logger.Debug().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Connecting to Redis")

	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, logging.NewError(logging.ErrorTypeStore, "failed to connect to Redis", err,
			map[string]interface{}{"addr": opts.Addr})
	}

	s := &RedisStore{client: client, ttl: opts.TTL, channel: opts.Channel, prefix: opts.Prefix}
	if s.channel == "" {
		s.channel = DefaultChannel
	}
	if s.prefix == "" {
		s.prefix = DefaultPrefix
	}
	return s, nil
}

func (s *RedisStore) objectsKey(content string) string {
	return fmt.Sprintf("%s:objects:%s", s.prefix, content)
}

func (s *RedisStore) pendingKey() string {
	return s.prefix + ":pending"
}

// SaveObjects replaces the cached set for content.
func (s *RedisStore) SaveObjects(ctx context.Context, content string, objects []object.MonitoredObject) error {
	if objects == nil {
		objects = []object.MonitoredObject{}
	}
	data, err := json.Marshal(objects)
	if err != nil {
		return logging.NewError(logging.ErrorTypeStore, "failed to encode objects", err, nil)
	}
	if err := s.client.Set(ctx, s.objectsKey(content), data, s.ttl).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("content", content).Msg("Failed to cache objects")
		return logging.NewError(logging.ErrorTypeStore, "failed to cache objects", err,
			map[string]interface{}{"content": content})
	}
	logging.Logger.Debug().Str("content", content).Int("count", len(objects)).Msg("Cached objects")
	return nil
}

func (s *RedisStore) LoadObjects(ctx context.Context, content string) ([]object.MonitoredObject, bool, error) {
	data, err := s.client.Get(ctx, s.objectsKey(content)).Bytes()
	if errors.Is(err, redis.Nil) {
		logging.Logger.Debug().Str("content", content).Msg("Cache miss")
		return nil, false, nil
	} else if err != nil {
		return nil, false, logging.NewError(logging.ErrorTypeStore, "failed to read cached objects", err,
			map[string]interface{}{"content": content})
	}

	var objects []object.MonitoredObject
	if err := json.Unmarshal(data, &objects); err != nil {
		logging.Logger.Error().Err(err).Str("content", content).Msg("Failed to unmarshal cached objects")
		return nil, false, logging.NewError(logging.ErrorTypeStore, "corrupt cached objects", err, nil)
	}
	return objects, true, nil
}

// StageUpdates appends commands to the pending queue in order.
func (s *RedisStore) StageUpdates(ctx context.Context, commands []engine.UpdateCommand) error {
	if len(commands) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(commands))
	for _, cmd := range commands {
		data, err := json.Marshal(cmd)
		if err != nil {
			return logging.NewError(logging.ErrorTypeStore, "failed to encode update", err, nil)
		}
		values = append(values, data)
	}
	if err := s.client.RPush(ctx, s.pendingKey(), values...).Err(); err != nil {
		return logging.NewError(logging.ErrorTypeStore, "failed to stage updates", err, nil)
	}
	return nil
}

func (s *RedisStore) PendingUpdates(ctx context.Context) ([]engine.UpdateCommand, error) {
	items, err := s.client.LRange(ctx, s.pendingKey(), 0, -1).Result()
	if err != nil {
		return nil, logging.NewError(logging.ErrorTypeStore, "failed to read pending updates", err, nil)
	}
	commands := make([]engine.UpdateCommand, 0, len(items))
	for _, item := range items {
		var cmd engine.UpdateCommand
		if err := json.Unmarshal([]byte(item), &cmd); err != nil {
			return nil, logging.NewError(logging.ErrorTypeStore, "corrupt pending update", err,
				map[string]interface{}{"data": item})
		}
		commands = append(commands, cmd)
	}
	return commands, nil
}

// TrimUpdates removes the first n staged commands, keeping anything staged
// after them.
func (s *RedisStore) TrimUpdates(ctx context.Context, n int) error {
	if n <= 0 {
		return nil
	}
	if err := s.client.LTrim(ctx, s.pendingKey(), int64(n), -1).Err(); err != nil {
		return logging.NewError(logging.ErrorTypeStore, "failed to trim pending updates", err,
			map[string]interface{}{"count": n})
	}
	return nil
}

// PublishUpdate announces a submitted command on the update channel as
// "objid:attribute=value".
func (s *RedisStore) PublishUpdate(ctx context.Context, cmd engine.UpdateCommand) error {
	msg := FormatUpdate(cmd)
	if err := s.client.Publish(ctx, s.channel, msg).Err(); err != nil {
		logging.Logger.Error().Err(err).Str("channel", s.channel).Msg("Failed to publish update")
		return logging.NewError(logging.ErrorTypeStore, "failed to publish update", err, nil)
	}
	return nil
}

// Subscribe listens on the update channel.
func (s *RedisStore) Subscribe(ctx context.Context) (*redis.PubSub, error) {
	pubsub := s.client.Subscribe(ctx, s.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, logging.NewError(logging.ErrorTypeStore, "failed to subscribe", err,
			map[string]interface{}{"channel": s.channel})
	}
	return pubsub, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

// FormatUpdate renders cmd as an update channel message.
func FormatUpdate(cmd engine.UpdateCommand) string {
	return fmt.Sprintf("%d:%s=%s", cmd.ObjectID, cmd.Attribute, cmd.Value)
}

// ParseUpdate reads an update channel message. The value may contain ':' and '='.
func ParseUpdate(msg string) (engine.UpdateCommand, error) {
	id, rest, ok := strings.Cut(msg, ":")
	if !ok {
		return engine.UpdateCommand{}, fmt.Errorf("invalid update message: %s", msg)
	}
	attribute, value, ok := strings.Cut(rest, "=")
	if !ok || attribute == "" {
		return engine.UpdateCommand{}, fmt.Errorf("invalid update message: %s", msg)
	}
	objID, err := strconv.Atoi(id)
	if err != nil {
		return engine.UpdateCommand{}, fmt.Errorf("invalid object id in update message %q: %w", msg, err)
	}
	return engine.UpdateCommand{ObjectID: objID, Attribute: attribute, Value: value}, nil
}
