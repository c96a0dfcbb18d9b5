package game

import (
	"crypto/rand"
	"math/big"
	mrand "math/rand"
)

// RandomGenerator 随机数生成器接口
// 战斗伤害与对手生成通过此接口取随机，测试中注入可播种实现
type RandomGenerator interface {
	// Next 生成下一个随机数 (0-1)
	Next() float64
	// NextInt 生成 [min,max) 范围内的随机整数
	NextInt(min, max int) int
	// Seed 设置种子
	Seed(seed int64)
}

// CryptoRandomGenerator 加密安全的随机数生成器
type CryptoRandomGenerator struct{}

// NewCryptoRandomGenerator 创建加密随机数生成器
func NewCryptoRandomGenerator() *CryptoRandomGenerator {
	return &CryptoRandomGenerator{}
}

// Next 生成下一个随机数 (0-1)
func (g *CryptoRandomGenerator) Next() float64 {
	max := big.NewInt(1000000)
	n, _ := rand.Int(rand.Reader, max)
	return float64(n.Int64()) / 1000000.0
}

// NextInt 生成指定范围内的随机整数
func (g *CryptoRandomGenerator) NextInt(min, max int) int {
	if min >= max {
		return min
	}
	diff := big.NewInt(int64(max - min))
	n, _ := rand.Int(rand.Reader, diff)
	return min + int(n.Int64())
}

// Seed 设置种子（加密随机数不需要种子）
func (g *CryptoRandomGenerator) Seed(seed int64) {
}

// SeededRandomGenerator 可播种的伪随机生成器，保证结果可复现
type SeededRandomGenerator struct {
	r *mrand.Rand
}

// NewSeededRandomGenerator 创建可播种生成器
func NewSeededRandomGenerator(seed int64) *SeededRandomGenerator {
	return &SeededRandomGenerator{r: mrand.New(mrand.NewSource(seed))}
}

// Next 生成下一个随机数 (0-1)
func (g *SeededRandomGenerator) Next() float64 {
	return g.r.Float64()
}

// NextInt 生成指定范围内的随机整数
func (g *SeededRandomGenerator) NextInt(min, max int) int {
	if min >= max {
		return min
	}
	return min + g.r.Intn(max-min)
}

// Seed 设置种子
func (g *SeededRandomGenerator) Seed(seed int64) {
	g.r = mrand.New(mrand.NewSource(seed))
}
