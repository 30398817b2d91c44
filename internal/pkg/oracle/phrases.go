package oracle

import "math/rand"

// TemplatePhrases 高负面内容被整体替换时使用的固定句子
var TemplatePhrases = [...]string{
	"I am grateful for this community.",
	"Today I choose kindness.",
	"I hope everyone here has a peaceful day.",
	"Sharing good vibes with all of you.",
	"I am thankful for the people around me.",
	"Every day here is a little brighter.",
	"I appreciate the calm conversations on this feed.",
	"Wishing harmony to everyone reading this.",
	"I am happy to be part of this place.",
	"Let us keep this space friendly together.",
}

// PickPhrase 从 TemplatePhrases 中取一个，随机源由调用方注入
func PickPhrase(r *rand.Rand) string {
	return TemplatePhrases[r.Intn(len(TemplatePhrases))]
}
