package config

import (
	"fmt"

	"github.com/aretw0/gobarber/pkg/adapters/file"
	"github.com/aretw0/gobarber/pkg/adapters/memory"
	"github.com/aretw0/gobarber/pkg/adapters/redis"
	"github.com/aretw0/gobarber/pkg/adapters/sqlite"
	"github.com/aretw0/gobarber/pkg/ports"
)

// OpenStore builds the KeyValueStore selected by the configuration.
// The returned close function releases backend resources and is never nil.
func (s StoreConfig) OpenStore() (ports.KeyValueStore, func() error, error) {
	noop := func() error { return nil }

	switch s.Driver {
	case DriverMemory:
		return memory.NewStore(), noop, nil
	case DriverFile:
		return file.New(s.Path), noop, nil
	case DriverSQLite:
		st, err := sqlite.Open(s.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st.Close, nil
	case DriverRedis:
		opts, err := s.RedisOptions()
		if err != nil {
			return nil, nil, err
		}
		st := redis.New(opts.Addr, opts.Password, opts.DB,
			redis.WithPrefix(opts.Prefix),
			redis.WithTTL(opts.TTL),
		)
		return st, st.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", s.Driver)
	}
}
