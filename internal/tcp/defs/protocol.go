package defs

import "time"

// Client identity announced in Hello
const (
	ClientVersion   uint32 = 2
	ClientBuild     uint32 = 1
	ProtocolVersion uint32 = 1
)

// Connection constants
const (
	DefaultPort = 38204

	DialTimeout      = 10 * time.Second
	BackoffIncrement = 5 * time.Second
	BackoffMax       = 60 * time.Second

	// MaxThreads is the highest thread count a client may announce
	MaxThreads = 64
)

// DefaultServers are tried in this order on every connection attempt.
var DefaultServers = []string{
	"pool1.rapidprime.com",
	"pool2.rapidprime.com",
	"pool3.rapidprime.com",
	"pool.rapidprime.com",
}
