package oracle

import (
	"context"
	"time"

	"trust_feed/pkg/logger"
	"trust_feed/pkg/metrics"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// GuardConfig Guard 参数
type GuardConfig struct {
	Timeout           time.Duration // 单次调用超时
	MaxRetries        int           // 瞬时错误的最大重试次数
	RetryWait         time.Duration // 线性退避基数
	RequestsPerSecond float64       // <= 0 表示不限速
}

// Guard 给任意 ClassificationOracle 加上超时、限速和有限次重试
// 非法返回 (ErrInvalidResponse) 不会重试
type Guard struct {
	next    ClassificationOracle
	cfg     GuardConfig
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

func NewGuard(next ClassificationOracle, cfg GuardConfig) *Guard {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	return &Guard{next: next, cfg: cfg, limiter: limiter, sleep: sleepCtx}
}

func (g *Guard) ClassifyAndRewrite(ctx context.Context, content string) (Classification, error) {
	var out Classification
	err := g.do(ctx, "classify", func(ctx context.Context) error {
		var err error
		out, err = g.next.ClassifyAndRewrite(ctx, content)
		return err
	})
	return out, err
}

func (g *Guard) JudgeReport(ctx context.Context, req JudgeRequest) (Judgement, error) {
	var out Judgement
	err := g.do(ctx, "judge", func(ctx context.Context) error {
		var err error
		out, err = g.next.JudgeReport(ctx, req)
		return err
	})
	return out, err
}

func (g *Guard) do(ctx context.Context, op string, call func(ctx context.Context) error) error {
	start := time.Now()
	defer func() {
		metrics.OracleDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}()

	var err error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			if werr := g.sleep(ctx, time.Duration(attempt)*g.cfg.RetryWait); werr != nil {
				break
			}
		}
		if werr := g.limiter.Wait(ctx); werr != nil {
			err = werr
			break
		}

		err = g.attempt(ctx, call)
		if err == nil {
			metrics.OracleCalls.WithLabelValues(op, "ok").Inc()
			return nil
		}
		if !IsTransient(err) || ctx.Err() != nil {
			break
		}
		logger.Log.Warn("oracle call failed, retrying",
			zap.String("op", op),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	result := "error"
	if IsTransient(err) {
		result = "transient"
	}
	metrics.OracleCalls.WithLabelValues(op, result).Inc()
	return err
}

func (g *Guard) attempt(ctx context.Context, call func(ctx context.Context) error) error {
	if g.cfg.Timeout <= 0 {
		return call(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()
	return call(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
