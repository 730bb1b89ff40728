package utils

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"sync"
	"time"

	"github.com/meditrack/cmms_backend/config"
)

var (
	subscriberMutex sync.Mutex
	subscribers     = make(map[string][]func())
)

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* reference-data cache */

// Reference tables (pm_frequencies, work_order_types) change rarely but are
// read on every generation pass. Writers must call InvalidateCache after
// any mutation; readers that keep derived state register with
// SubscribeInvalidation instead of polling.

// store instance
func StoreCache[T any](obj any, id int) error {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

// store full list under the type name
func StoreCacheList[T any](obj any) error {
	key := GetTypeName[T]() + ":All"
	return config.SetRedisObject(key, &obj, GetCacheLifespan())
}

func GetCache[T any](id int, dest *T) (bool, error) {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	return config.GetRedisObject(key, dest)
}

func GetCacheList[T any](dest *[]*T) (bool, error) {
	key := GetTypeName[T]() + ":All"
	return config.GetRedisObject(key, dest)
}

// drop every key for the type and notify subscribers
func InvalidateCache[T any](ids ...int) error {
	typeName := GetTypeName[T]()
	keys := []string{typeName + ":All"}
	for _, id := range ids {
		keys = append(keys, typeName+":"+fmt.Sprint(id))
	}
	err := config.RemoveRedisKey(keys...)

	subscriberMutex.Lock()
	fns := append([]func(){}, subscribers[typeName]...)
	subscriberMutex.Unlock()
	for _, fn := range fns {
		fn()
	}
	return err
}

// SubscribeInvalidation registers fn to run whenever the type's cache is
// invalidated. There is no unsubscribe: subscribers live for the process.
func SubscribeInvalidation[T any](fn func()) {
	typeName := GetTypeName[T]()
	subscriberMutex.Lock()
	defer subscriberMutex.Unlock()
	subscribers[typeName] = append(subscribers[typeName], fn)
}
