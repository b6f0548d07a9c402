package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// ErrParsingConfig is returned when environment variables cannot be parsed
// into the target struct.
var ErrParsingConfig = errors.New("failed to parse config")

var (
	cache   sync.Map // reflect.Type -> any (T value)
	dotenv  sync.Once
	loadMus sync.Map // reflect.Type -> *sync.Mutex
)

// Load fills cfg from the environment. The first call for a given type
// parses the environment and caches the result; later calls copy the cached
// value. A .env file in the working directory is loaded once, without
// overriding variables that are already set.
func Load[T any](cfg *T) error {
	dotenv.Do(func() {
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	muAny, _ := loadMus.LoadOrStore(typ, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	if cached, ok := cache.Load(typ); ok {
		*cfg = cached.(T)
		return nil
	}

	var loaded T
	if err := env.Parse(&loaded); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	cache.Store(typ, loaded)
	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on error. Intended for program startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
}

// Reset drops the cached value for T so the next Load re-reads the
// environment. Used by tests.
func Reset[T any]() {
	cache.Delete(reflect.TypeFor[T]())
}
