package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

// leveledZap 适配 retryablehttp.LeveledLogger，重试中的 ERROR 降级为 WARN
type leveledZap struct {
	inner *zap.SugaredLogger
}

func (l leveledZap) Error(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Warn(msg string, keysAndValues ...interface{}) {
	l.inner.Warnw(msg, keysAndValues...)
}

func (l leveledZap) Info(msg string, keysAndValues ...interface{}) {
	l.inner.Infow(msg, keysAndValues...)
}

func (l leveledZap) Debug(msg string, keysAndValues ...interface{}) {
	l.inner.Debugw(msg, keysAndValues...)
}

// OpenAIConfig OpenAI 兼容接口参数
type OpenAIConfig struct {
	BaseURL    string
	APIKey     string
	Model      string
	MaxRetries int
	RetryWait  time.Duration
}

// OpenAIOracle 调用 OpenAI 兼容的 chat completions 接口
type OpenAIOracle struct {
	client *retryablehttp.Client
	cfg    OpenAIConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewOpenAIOracle(cfg OpenAIConfig, log *zap.Logger) *OpenAIOracle {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.MaxRetries
	if cfg.RetryWait > 0 {
		client.RetryWaitMin = cfg.RetryWait
		client.RetryWaitMax = 10 * cfg.RetryWait
	}
	client.Logger = retryablehttp.LeveledLogger(leveledZap{inner: log.Sugar().With("subsystem", "oracle-http")})
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	return &OpenAIOracle{
		client: client,
		cfg:    cfg,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

var _ ClassificationOracle = (*OpenAIOracle)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIOracle) ClassifyAndRewrite(ctx context.Context, content string) (Classification, error) {
	o.mu.Lock()
	phrase := PickPhrase(o.rnd)
	o.mu.Unlock()

	text, err := o.complete(ctx, ClassifyPrompt(phrase), content)
	if err != nil {
		return Classification{}, err
	}
	return ParseClassification(text)
}

func (o *OpenAIOracle) JudgeReport(ctx context.Context, req JudgeRequest) (Judgement, error) {
	text, err := o.complete(ctx, JudgePrompt(), JudgeInput(req))
	if err != nil {
		return Judgement{}, err
	}
	return ParseJudgement(text)
}

func (o *OpenAIOracle) complete(ctx context.Context, system, user string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: o.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		ResponseFormat: map[string]string{"type": "json_object"},
	})
	if err != nil {
		return "", err
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, o.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+o.cfg.APIKey)

	resp, err := o.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("oracle: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var out chatResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", &ParseError{Reason: "completion envelope is not valid JSON"}
	}
	if len(out.Choices) == 0 {
		return "", &ParseError{Reason: "completion has no choices"}
	}
	return out.Choices[0].Message.Content, nil
}
