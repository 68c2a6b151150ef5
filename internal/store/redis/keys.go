package redis

const (
	// KeyPrefix is the prefix for every key prefire writes
	KeyPrefix = "prefire:"
)

// Key returns the Redis key for a history key
func Key(key string) string {
	return KeyPrefix + key
}
