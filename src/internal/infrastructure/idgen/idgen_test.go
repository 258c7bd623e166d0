package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	g, err := New(1, "test-salt")
	require.NoError(t, err)
	return g
}

// Test 1: 卡號格式：GFT 前綴、長度 16、只含大寫與數字
func TestCardNumber_Format(t *testing.T) {
	g := newGenerator(t)

	number := g.CardNumber()

	assert.True(t, strings.HasPrefix(number, "GFT"))
	assert.Len(t, number, 16)
	assert.Equal(t, strings.ToUpper(number), number)
}

// Test 2: 交易參考號格式
func TestTransactionReference_Format(t *testing.T) {
	g := newGenerator(t)

	ref := g.TransactionReference()

	assert.True(t, strings.HasPrefix(ref, "TXN"))
	assert.Len(t, ref, 16)
}

// Test 3: 兌換碼只使用去除易混淆字元的字母表
func TestRedemptionCode_Alphabet(t *testing.T) {
	g := newGenerator(t)

	code := g.RedemptionCode()

	require.True(t, strings.HasPrefix(code, "RDM"))
	body := strings.TrimPrefix(code, "RDM")
	assert.GreaterOrEqual(t, len(body), 10)
	for _, r := range body {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
	}
}

// Test 4: 並發生成不重複
func TestGenerator_Concurrent_Unique(t *testing.T) {
	const (
		goroutines = 10
		perRoutine = 500
	)
	g := newGenerator(t)

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		ids = make(map[string]struct{}, goroutines*perRoutine*2)
	)
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perRoutine; j++ {
				card := g.CardNumber()
				code := g.RedemptionCode()
				mu.Lock()
				ids[card] = struct{}{}
				ids[code] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, ids, goroutines*perRoutine*2)
}

// Test 5: 無效節點編號
func TestNew_InvalidNode(t *testing.T) {
	_, err := New(5000, "salt")
	assert.Error(t, err)
}

// Test 6: base36 左側補零
func TestBase36_Padding(t *testing.T) {
	assert.Equal(t, "000000000000Z", base36(35))
	assert.Len(t, base36(1<<62), 13)
}
