package gen

import (
	"growpreen/pkg/config"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

var Module = fx.Module("snowflake",
	fx.Provide(NewSnowflakeNode),
)

// IDGenerator hands out unique, roughly time-ordered record ids.
type IDGenerator interface {
	NewID() string
}

type SnowflakeNode struct {
	node *snowflake.Node
}

func NewSnowflakeNode(cfg *config.Config) (IDGenerator, error) {
	return NewNode(cfg.Snowflake.Node)
}

func NewNode(nodeID int64) (*SnowflakeNode, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, err
	}
	return &SnowflakeNode{node: node}, nil
}

func (s *SnowflakeNode) GenerateID() snowflake.ID {
	return s.node.Generate()
}

func (s *SnowflakeNode) NewID() string {
	return s.node.Generate().String()
}
