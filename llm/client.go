/**
 * Copyright 2025 ByteDance Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/chartagent/internal/utils"
	"github.com/cloudwego/chartagent/llm/log"
	"github.com/cloudwego/eino/schema"
)

var _ Generator = (*Client)(nil)

// Client is a plain chat-completion Generator over an eino ChatModel.
// The pipeline stages do not use tool calling; every stage is one
// system+user completion whose reply is parsed by the caller.
type Client struct {
	model   ChatModel
	retries int           // number of retries on transient failure
	timeout time.Duration // per-attempt timeout
}

func NewClient(ctx context.Context, cfg ModelConfig) (*Client, error) {
	model, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, utils.WrapError(err, "create chat model")
	}
	retries := cfg.Retries
	if retries == 0 {
		retries = 3
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 600 * time.Second
	}
	return &Client{model: model, retries: retries, timeout: timeout}, nil
}

func (c *Client) Call(ctx context.Context, system string, user string) (string, error) {
	msgs := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}
	log.Debug("[User] %s", user)

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			log.Info("Retrying LLM call (attempt %d/%d)...", attempt+1, c.retries+1)
			// Exponential backoff: wait 1s, 2s, 4s...
			waitTime := time.Duration(1<<uint(attempt-1)) * time.Second
			if waitTime > 10*time.Second {
				waitTime = 10 * time.Second // Cap at 10 seconds
			}
			time.Sleep(waitTime)
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		out, err := c.model.Generate(attemptCtx, msgs)
		cancel()
		if err == nil {
			if out == nil {
				return "", fmt.Errorf("LLM returned nil response")
			}
			log.Debug("[Assistant] %s", out.Content)
			return out.Content, nil
		}

		lastErr = err
		if !isRetryable(err) {
			log.Error("Non-retryable error occurred: %v", err)
			return "", utils.WrapError(err, "LLM call error")
		}
		log.Info("Retryable error occurred (attempt %d/%d): %v", attempt+1, c.retries+1, err)
	}

	return "", utils.WrapError(fmt.Errorf("failed after %d retries: %w", c.retries+1, lastErr), "LLM call error")
}

// isRetryable classifies transient transport failures (timeout, connection
// reset, etc.) worth another attempt.
func isRetryable(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "operation timed out") ||
		strings.Contains(errStr, "context deadline exceeded") ||
		strings.Contains(errStr, "read tcp") ||
		strings.Contains(errStr, "write tcp")
}
