package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankForPower(t *testing.T) {
	cases := []struct {
		power int
		want  string
	}{
		{0, "nameless"},
		{9, "nameless"},
		{10, "fledgling"},
		{24, "fledgling"},
		{25, "enforcer"},
		{45, "baron"},
		{70, "overlord"},
		{100, "archfiend"},
		{150, "hell-lord"},
		{999, "hell-lord"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RankForPower(tc.power).ID, "power=%d", tc.power)
	}
}

func TestRankMonotonicity(t *testing.T) {
	// 阶位随力量单调不降
	prev := 0
	for power := 0; power <= 200; power++ {
		idx := rankIndex(RankForPower(power))
		require.GreaterOrEqual(t, idx, prev, "power=%d", power)
		prev = idx
	}
}

func TestRankProgressForPower(t *testing.T) {
	t.Run("阶位中段按线性比例", func(t *testing.T) {
		// fledgling [10,25)，17.5为中点
		p := RankProgressForPower(17)
		require.NotNil(t, p.NextRank)
		assert.Equal(t, "fledgling", p.CurrentRank.ID)
		assert.Equal(t, "enforcer", p.NextRank.ID)
		assert.InDelta(t, float64(17-10)/15*100, p.PercentToNext, 1e-9)
	})

	t.Run("阶位起点为0", func(t *testing.T) {
		p := RankProgressForPower(25)
		assert.Equal(t, 0.0, p.PercentToNext)
	})

	t.Run("顶阶进度恒为100且无下一阶", func(t *testing.T) {
		p := RankProgressForPower(500)
		assert.Equal(t, "hell-lord", p.CurrentRank.ID)
		assert.Nil(t, p.NextRank)
		assert.Equal(t, 100.0, p.PercentToNext)
	})
}

func TestGenerateRivals(t *testing.T) {
	rng := NewSeededRandomGenerator(42)

	t.Run("无名之辈没有宿敌", func(t *testing.T) {
		ch := testCharacter()
		ch.Power = 5
		assert.Empty(t, GenerateRivals(&ch, rng))
	})

	t.Run("数量封顶3且力量为正", func(t *testing.T) {
		ch := testCharacter()
		ch.Power = 200
		rivals := GenerateRivals(&ch, rng)
		assert.Len(t, rivals, 3)
		for _, r := range rivals {
			assert.GreaterOrEqual(t, r.Power, 1)
			assert.NotEmpty(t, r.Name)
			assert.NotEmpty(t, r.Rank)
		}
	})

	t.Run("播种后结果可复现", func(t *testing.T) {
		ch := testCharacter()
		ch.Power = 50
		a := GenerateRivals(&ch, NewSeededRandomGenerator(7))
		b := GenerateRivals(&ch, NewSeededRandomGenerator(7))
		assert.Equal(t, a, b)
	})
}
