package util

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	requestIDNode     *snowflake.Node
	requestIDNodeOnce sync.Once
)

// GetSnowflakeIDInt64 returns a process-local id used for request correlation.
// Short-key ids come from kit/uniqueid instead.
func GetSnowflakeIDInt64() int64 {
	requestIDNodeOnce.Do(func() {
		node, err := snowflake.NewNode(GetEnvInt64("REQUEST_ID_NODE", 1))
		if err != nil {
			panic(err)
		}
		requestIDNode = node
	})
	return requestIDNode.Generate().Int64()
}
