package settings

import (
	"time"

	"github.com/ordishs/gocore"
)

func getString(key, defaultValue string) string {
	value, found := gocore.Config().Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func getInt(key string, defaultValue int) int {
	value, found := gocore.Config().GetInt(key)
	if !found {
		return defaultValue
	}

	return value
}

func getUint64(key string, defaultValue uint64) uint64 {
	value, found := gocore.Config().GetInt(key)
	if !found || value < 0 {
		return defaultValue
	}

	return uint64(value)
}

func getBool(key string, defaultValue bool) bool {
	return gocore.Config().GetBool(key, defaultValue)
}

func getDuration(key, defaultValue string) time.Duration {
	value := getString(key, defaultValue)

	d, err := time.ParseDuration(value)
	if err != nil {
		panic(err)
	}

	return d
}
