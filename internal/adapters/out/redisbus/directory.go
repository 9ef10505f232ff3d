package redisbus

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fulfillment/internal/adapters/in/realtime"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/redis/go-redis/v9"
)

// removeScript deletes the entry only while ARGV[1] still owns it.
var removeScript = redis.NewScript(`
if redis.call('GET', KEYS[1]) ~= ARGV[1] then
	return 0
end
redis.call('DEL', KEYS[1], KEYS[2])
return 1
`)

// setPositionScript stores a position only for a registered driver.
var setPositionScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return 0
end
if tonumber(ARGV[2]) > 0 then
	redis.call('SET', KEYS[2], ARGV[1], 'PX', ARGV[2])
	redis.call('PEXPIRE', KEYS[1], ARGV[2])
else
	redis.call('SET', KEYS[2], ARGV[1])
end
return 1
`)

// DefaultEntryTTL outlives any realistic gap between two driver pings.
const DefaultEntryTTL = 30 * time.Minute

type storedPosition struct {
	Lat float64   `json:"lat"`
	Lng float64   `json:"lng"`
	At  time.Time `json:"at"`
}

// Directory is the realtime.Directory shared by every gateway node. Entries
// expire after ttl without a position update so a crashed node does not pin
// its drivers forever; a zero ttl keeps them until removed.
type Directory struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewDirectory(client *redis.Client, prefix string, ttl time.Duration) *Directory {
	return &Directory{client: client, prefix: prefix, ttl: ttl}
}

func (d *Directory) sessionKey(driverID kernel.UUID) string {
	return d.prefix + "driver:" + driverID.String() + ":session"
}

func (d *Directory) positionKey(driverID kernel.UUID) string {
	return d.prefix + "driver:" + driverID.String() + ":position"
}

func (d *Directory) Register(ctx context.Context, driverID kernel.UUID, sessionID string) error {
	_, err := d.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, d.sessionKey(driverID), sessionID, d.ttl)
		pipe.Del(ctx, d.positionKey(driverID))
		return nil
	})
	return err
}

func (d *Directory) Lookup(ctx context.Context, driverID kernel.UUID) (string, bool, error) {
	sessionID, err := d.client.Get(ctx, d.sessionKey(driverID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return sessionID, true, nil
}

func (d *Directory) Remove(ctx context.Context, driverID kernel.UUID, sessionID string) (bool, error) {
	removed, err := removeScript.Run(ctx, d.client,
		[]string{d.sessionKey(driverID), d.positionKey(driverID)},
		sessionID,
	).Int()
	if err != nil {
		return false, err
	}
	return removed == 1, nil
}

func (d *Directory) SetPosition(ctx context.Context, driverID kernel.UUID, position realtime.DriverPosition) error {
	payload, err := json.Marshal(storedPosition{
		Lat: position.Point.Lat(),
		Lng: position.Point.Lng(),
		At:  position.At.UTC(),
	})
	if err != nil {
		return err
	}
	return setPositionScript.Run(ctx, d.client,
		[]string{d.sessionKey(driverID), d.positionKey(driverID)},
		payload,
		d.ttl.Milliseconds(),
	).Err()
}

func (d *Directory) Position(ctx context.Context, driverID kernel.UUID) (realtime.DriverPosition, bool, error) {
	raw, err := d.client.Get(ctx, d.positionKey(driverID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return realtime.DriverPosition{}, false, nil
	}
	if err != nil {
		return realtime.DriverPosition{}, false, err
	}

	var stored storedPosition
	if err = json.Unmarshal(raw, &stored); err != nil {
		return realtime.DriverPosition{}, false, err
	}
	point, err := kernel.NewGeoPoint(stored.Lat, stored.Lng)
	if err != nil {
		return realtime.DriverPosition{}, false, err
	}
	return realtime.DriverPosition{Point: point, At: stored.At}, true, nil
}

var _ realtime.Directory = (*Directory)(nil)
var _ realtime.Backplane = (*Backplane)(nil)
