package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"trust_feed/internal/pkg/config"
	"trust_feed/pkg/trust"
	"trust_feed/pkg/utils"

	"github.com/google/uuid"
	"github.com/urfave/cli/v2"
)

var httpClient *http.Client

func init() {
	// 优化 HTTP Client 配置
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxIdleConnsPerHost = 2000
	t.MaxConnsPerHost = 2000
	httpClient = &http.Client{
		Transport: t,
		Timeout:   30 * time.Second,
	}
}

// 压测：大量用户同时给同一个作者点赞，检查信任分没有丢失更新
func main() {
	app := &cli.App{
		Name:  "stress_tool",
		Usage: "concurrent likes against one author",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Value: "http://localhost:8080"},
			&cli.IntFlag{Name: "likers", Value: 40, Usage: "number of concurrent users"},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func run(cctx *cli.Context) error {
	// 与服务端共用 JWT 配置，直接签发 token
	config.LoadConfig()
	base := cctx.String("base-url")
	likers := cctx.Int("likers")

	// 1. 作者注册并发帖
	author := uuid.NewString()
	authorToken, err := token(author)
	if err != nil {
		return err
	}
	if _, err := call(base, http.MethodPost, "/profiles", authorToken, map[string]string{"nickname": "stress-author"}); err != nil {
		return fmt.Errorf("create author: %w", err)
	}
	raw, err := call(base, http.MethodPost, "/posts", authorToken, map[string]string{"content": "stress test post"})
	if err != nil {
		return fmt.Errorf("submit post: %w", err)
	}
	var post struct {
		ID          string `json:"id"`
		AuthorTrust int    `json:"authorTrust"`
	}
	if err := json.Unmarshal(raw, &post); err != nil {
		return err
	}
	before := post.AuthorTrust

	// 2. 准备点赞用户
	tokens := make([]string, likers)
	for i := range tokens {
		id := uuid.NewString()
		if tokens[i], err = token(id); err != nil {
			return err
		}
		if _, err := call(base, http.MethodPost, "/profiles", tokens[i], map[string]string{"nickname": fmt.Sprintf("liker-%d", i)}); err != nil {
			return fmt.Errorf("create liker: %w", err)
		}
	}

	fmt.Printf("开始压测：%d 个用户同时点赞 (PostID: %s, 作者初始信任分: %d)...\n", likers, post.ID, before)

	// 3. 并发点赞
	var wg sync.WaitGroup
	var ok, failed int64
	start := time.Now()
	for _, t := range tokens {
		wg.Add(1)
		go func(t string) {
			defer wg.Done()
			if _, err := call(base, http.MethodPost, "/posts/"+post.ID+"/like", t, nil); err != nil {
				atomic.AddInt64(&failed, 1)
				return
			}
			atomic.AddInt64(&ok, 1)
		}(t)
	}
	wg.Wait()
	duration := time.Since(start)

	after, err := score(base, authorToken, author)
	if err != nil {
		return err
	}
	want := trust.Apply(before, int(ok))

	fmt.Println("--------------------------------------------------")
	fmt.Printf("压测结束，耗时: %v\n", duration)
	fmt.Printf("QPS: %.2f\n", float64(likers)/duration.Seconds())
	fmt.Printf("点赞成功: %d, 失败: %d\n", ok, failed)
	fmt.Printf("作者信任分: %d (预期: %d)\n", after, want)
	fmt.Println("--------------------------------------------------")

	if after != want {
		return fmt.Errorf("lost trust updates: got %d, want %d", after, want)
	}
	return nil
}

func token(userID string) (string, error) {
	t, _, err := utils.GenerateToken(userID)
	return t, err
}

func score(base, token, userID string) (int, error) {
	raw, err := call(base, http.MethodGet, "/profiles/"+userID, token, nil)
	if err != nil {
		return 0, fmt.Errorf("get profile: %w", err)
	}
	var p struct {
		TrustScore int `json:"trustScore"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, err
	}
	return p.TrustScore, nil
}

func call(base, method, path, token string, body interface{}) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, base+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, env.Message)
	}
	return env.Data, nil
}
