package constants

// Redis keys
const (
	RedisKeyRecentSwaps = "swaps:recent"
	RedisKeyPoolPrefix  = "pools:"
	RedisKeyPoolIndex   = "pools:index"
)

// Redis Pub/Sub channels
const (
	PubSubChannelSwaps = "swaps:live"
)

// Limits
const (
	MaxRecentSwaps = 100
)
