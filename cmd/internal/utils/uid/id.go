package uid

import (
	"github.com/bwmarrin/snowflake"
	"github.com/labstack/gommon/log"
	"sync"
)

const logPrefix = "LOG_"

var (
	node *snowflake.Node
	once sync.Once
)

// Init must run once, before any log id is generated. Instances writing to
// the same spreadsheet need distinct machine ids.
func Init(machineID int64) {
	once.Do(func() {
		var err error
		node, err = snowflake.NewNode(machineID)
		if err != nil {
			log.Fatalf("failed to initialize snowflake node: %v", err)
		}
	})
}

func Generate() int64 {
	if node == nil {
		log.Fatalf("uid package not initialized")
	}
	return node.Generate().Int64()
}

// LogID returns a collision-free audit record id, unlike the count-based
// entity ids.
func LogID() string {
	if node == nil {
		log.Fatalf("uid package not initialized")
	}
	return logPrefix + node.Generate().String()
}
