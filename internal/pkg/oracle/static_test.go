package oracle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticOracle(t *testing.T) {
	o := NewStaticOracle()
	ctx := context.Background()

	t.Run("clean content is returned unchanged", func(t *testing.T) {
		c, err := o.ClassifyAndRewrite(ctx, "lovely weather today")
		require.NoError(t, err)
		assert.Equal(t, 0, c.NegativityLevel)
		assert.Equal(t, "lovely weather today", c.RewrittenContent)
	})

	t.Run("blocked words are rewritten", func(t *testing.T) {
		c, err := o.ClassifyAndRewrite(ctx, "you are an IDIOT")
		require.NoError(t, err)
		assert.Equal(t, 2, c.NegativityLevel)
		assert.Equal(t, TemplatePhrases[0], c.RewrittenContent)
	})

	t.Run("judge approves hostile posts from trusted reporters", func(t *testing.T) {
		j, err := o.JudgeReport(ctx, JudgeRequest{PostContent: "shut up idiot", ReportWeight: 4})
		require.NoError(t, err)
		assert.Equal(t, Approve, j.Recommendation)
		assert.Equal(t, 4, j.JudgementScore)
		assert.NotEmpty(t, j.RewrittenPostContent)
		assert.NotEmpty(t, j.RewrittenAuthorName)
	})

	t.Run("judge rejects clean posts", func(t *testing.T) {
		j, err := o.JudgeReport(ctx, JudgeRequest{PostContent: "good morning"})
		require.NoError(t, err)
		assert.Equal(t, Reject, j.Recommendation)
	})
}
