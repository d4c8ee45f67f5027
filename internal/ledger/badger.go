package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	badger "github.com/dgraph-io/badger/v2"
	"github.com/pkg/errors"

	"github.com/zkiot/revocation-registry/internal/curve"
)

// Key layout:
//
//	ev/<seq, 20 digits>      -> event JSON
//	dev/<device id>/<seq>    -> event JSON (per-device index)
//	meta/accumulator         -> latest accumulator event JSON
const (
	keyEventPrefix  = "ev/"
	keyDevicePrefix = "dev/"
	keyAccumulator  = "meta/accumulator"
)

// BadgerLog persists the event log in a badger database.
type BadgerLog struct {
	mu  sync.Mutex
	db  *badger.DB
	seq uint64
}

// OpenBadgerLog opens (or creates) the log at path and recovers the last
// assigned sequence number.
func OpenBadgerLog(path string) (*BadgerLog, error) {
	db, err := badger.Open(badger.DefaultOptions(path).WithLogger(nil))
	if err != nil {
		return nil, errors.Wrapf(err, "opening ledger at %q", path)
	}

	l := &BadgerLog{db: db}
	if err := l.recoverSeq(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return l, nil
}

func (l *BadgerLog) recoverSeq() error {
	return l.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(keyEventPrefix)
		opts.Reverse = true
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		// Seek past the prefix range to land on the highest event key.
		it.Seek([]byte(keyEventPrefix + "99999999999999999999"))
		if !it.ValidForPrefix([]byte(keyEventPrefix)) {
			return nil
		}
		item := it.Item()
		var ev Event
		err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ev)
		})
		if err != nil {
			return errors.Wrap(err, "decoding last ledger event")
		}
		l.seq = ev.Seq
		return nil
	})
}

func (l *BadgerLog) Append(_ context.Context, events ...Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	seq := l.seq
	err := l.db.Update(func(txn *badger.Txn) error {
		for i := range events {
			seq++
			events[i].Seq = seq
			raw, err := json.Marshal(events[i])
			if err != nil {
				return errors.Wrap(err, "encoding ledger event")
			}
			if err := txn.Set([]byte(eventKey(seq)), raw); err != nil {
				return err
			}
			if err := txn.Set([]byte(deviceKey(events[i].DeviceID, seq)), raw); err != nil {
				return err
			}
			if events[i].AccumulatorX != "" {
				if err := txn.Set([]byte(keyAccumulator), raw); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "appending ledger events")
	}
	l.seq = seq
	return nil
}

func (l *BadgerLog) DeviceEvents(_ context.Context, deviceID string) ([]Event, error) {
	var out []Event
	err := l.db.View(func(txn *badger.Txn) error {
		prefix := []byte(keyDevicePrefix + deviceID + "/")
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.ValidForPrefix(prefix); it.Next() {
			var ev Event
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ev)
			})
			if err != nil {
				return errors.Wrap(err, "decoding ledger event")
			}
			out = append(out, ev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (l *BadgerLog) Accumulator(_ context.Context) (curve.Point, error) {
	var ev Event
	err := l.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyAccumulator))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &ev)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return curve.Point{}, ErrNoAccumulator
	}
	if err != nil {
		return curve.Point{}, errors.Wrap(err, "reading persisted accumulator")
	}
	return pointFromStrings(ev.AccumulatorX, ev.AccumulatorY)
}

func (l *BadgerLog) VerifyMembership(ctx context.Context, deviceID string, witness curve.Point) (bool, error) {
	acc, err := l.Accumulator(ctx)
	if err != nil {
		return false, err
	}
	return verifyMembership(acc, deviceID, witness)
}

func (l *BadgerLog) Close() error {
	return l.db.Close()
}

func eventKey(seq uint64) string {
	return fmt.Sprintf("%s%020d", keyEventPrefix, seq)
}

func deviceKey(deviceID string, seq uint64) string {
	return fmt.Sprintf("%s%s/%020d", keyDevicePrefix, deviceID, seq)
}
