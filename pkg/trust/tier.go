package trust

import "fmt"

// 市民等级阈值（闭区间上界）
var tierBounds = [...]struct {
	upper int
	tier  int
}{
	{20, 1},
	{55, 2},
	{75, 3},
	{90, 4},
}

const (
	MinTier = 1
	MaxTier = 5
)

// InvalidScoreError 分数越界
type InvalidScoreError struct {
	Score int
}

func (e *InvalidScoreError) Error() string {
	return fmt.Sprintf("trust score must be an integer in [%d,%d], got %d", MinScore, MaxScore, e.Score)
}

// CitizenTier 信任分 -> 市民等级 (1..5)，单调不减
func CitizenTier(score int) (int, error) {
	if !Valid(score) {
		return 0, &InvalidScoreError{Score: score}
	}
	for _, b := range tierBounds {
		if score <= b.upper {
			return b.tier, nil
		}
	}
	return MaxTier, nil
}

// MustCitizenTier 用于已经由数据库约束保证合法的分数
func MustCitizenTier(score int) int {
	tier, err := CitizenTier(Clamp(score))
	if err != nil {
		panic(err)
	}
	return tier
}
