// Package trust 信任分相关的纯函数：边界裁剪、市民等级、举报权重归一化。
package trust

import "math"

const (
	MinScore = 0
	MaxScore = 100
)

// Clamp 将任意值裁剪到 [MinScore, MaxScore]
// 所有触碰信任分的地方都必须经过这里
func Clamp(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}

// Apply 返回 current + delta 裁剪后的结果
func Apply(current, delta int) int {
	return Clamp(current + delta)
}

// Valid 判断分数是否处于合法区间
func Valid(score int) bool {
	return score >= MinScore && score <= MaxScore
}

// Abs 整数绝对值
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// NormalizeReportWeight 把 reporterTrust - authorTrust (约 -100..100) 映射到 0..5
// 分类服务的 prompt 只接受小范围的整数
func NormalizeReportWeight(weight int) int {
	n := int(math.Round(float64(weight+MaxScore) / 40))
	if n < 0 {
		return 0
	}
	if n > 5 {
		return 5
	}
	return n
}

// CommunitySignal 历史举报者信任分之和 / 用户总数 / divisor
// 只作为判定的上下文输入，不参与任何硬性门槛
func CommunitySignal(priorTrustSum int64, totalUsers int64, divisor float64) float64 {
	if totalUsers <= 0 || divisor <= 0 {
		return 0
	}
	return float64(priorTrustSum) / float64(totalUsers) / divisor
}
