// Package idgen 業務編號生成（卡號、交易參考號、兌換碼）
package idgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/speps/go-hashids/v2"

	"github.com/giftee-platform/giftee/src/internal/domain/shared"
	"github.com/giftee-platform/giftee/src/internal/infrastructure/config"
)

// 編號前綴
const (
	CardPrefix       = "GFT"
	ReferencePrefix  = "TXN"
	RedemptionPrefix = "RDM"
)

// codeAlphabet 兌換碼字母表（去掉容易混淆的 0/O/1/I）
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// base36 長度固定為 13（int64 最大值的 base36 位數），卡號總長 16
const base36Width = 13

// Generator shared.CodeGenerator 實作
//
// snowflake 節點保證同一節點內遞增且唯一；多個實例部署時 NodeID 必須不同。
type Generator struct {
	node   *snowflake.Node
	hasher *hashids.HashID
}

var _ shared.CodeGenerator = (*Generator)(nil)

// New 建立生成器
func New(nodeID int64, salt string) (*Generator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("snowflake node %d: %w", nodeID, err)
	}

	hd := hashids.NewData()
	hd.Salt = salt
	hd.MinLength = 10
	hd.Alphabet = codeAlphabet
	hasher, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("hashids: %w", err)
	}

	return &Generator{node: node, hasher: hasher}, nil
}

// NewFromConfig 依配置建立生成器
func NewFromConfig(conf *config.Config) (*Generator, error) {
	return New(conf.App.NodeID, conf.Loyalty.CodeSalt)
}

// CardNumber "GFT" + 13 位 base36
func (g *Generator) CardNumber() string {
	return CardPrefix + base36(g.node.Generate().Int64())
}

// TransactionReference "TXN" + 13 位 base36
func (g *Generator) TransactionReference() string {
	return ReferencePrefix + base36(g.node.Generate().Int64())
}

// RedemptionCode "RDM" + hashids（不可由連續編號推測）
func (g *Generator) RedemptionCode() string {
	code, err := g.hasher.EncodeInt64([]int64{g.node.Generate().Int64()})
	if err != nil {
		// snowflake ID 恆為正數，Encode 不會失敗
		panic(fmt.Sprintf("encode redemption code: %v", err))
	}
	return RedemptionPrefix + code
}

func base36(id int64) string {
	s := strings.ToUpper(strconv.FormatInt(id, 36))
	if len(s) < base36Width {
		s = strings.Repeat("0", base36Width-len(s)) + s
	}
	return s
}
