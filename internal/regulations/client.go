package regulations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pitwall-ai/pitwall/internal/config"
	pitwallErrors "github.com/pitwall-ai/pitwall/internal/errors"

	"golang.org/x/time/rate"
)

// Client answers regulation questions through a remote retrieve-and-generate
// knowledge base endpoint. Throttling responses are retried with exponential
// backoff; every other failure surfaces immediately.
type Client struct {
	cfg     config.RegulationsConfig
	httpc   *http.Client
	limiter *rate.Limiter
	mapper  pitwallErrors.ErrorMapper
	timeout time.Duration
	backoff time.Duration
}

func NewClient(cfg config.RegulationsConfig) *Client {
	rps := cfg.RateLimitRPS
	if rps <= 0 {
		rps = config.DefaultRegulationsRateLimitRPS
	}

	timeout, err := config.DurationOrDefault(cfg.Timeout, config.DefaultRegulationsTimeout)
	if err != nil {
		slog.Warn("Invalid regulations timeout, falling back to default", "value", cfg.Timeout, "error", err)
		timeout = 30 * time.Second
	}

	backoff, err := config.DurationOrDefault(cfg.RetryBackoffBase, config.DefaultRegulationsRetryBackoffBase)
	if err != nil {
		slog.Warn("Invalid retry backoff base, falling back to default", "value", cfg.RetryBackoffBase, "error", err)
		backoff = time.Second
	}

	return &Client{
		cfg:     cfg,
		httpc:   &http.Client{},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		mapper:  pitwallErrors.NewDefaultErrorMapper(),
		timeout: timeout,
		backoff: backoff,
	}
}

type retrieveRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	RetrieveAndGenerateConfiguration struct {
		Type                       string `json:"type"`
		KnowledgeBaseConfiguration struct {
			KnowledgeBaseID        string `json:"knowledgeBaseId"`
			ModelArn               string `json:"modelArn"`
			RetrievalConfiguration struct {
				VectorSearchConfiguration struct {
					NumberOfResults    int    `json:"numberOfResults"`
					OverrideSearchType string `json:"overrideSearchType"`
				} `json:"vectorSearchConfiguration"`
			} `json:"retrievalConfiguration"`
			GenerationConfiguration struct {
				InferenceConfig struct {
					TextInferenceConfig struct {
						MaxTokens   int     `json:"maxTokens"`
						Temperature float32 `json:"temperature"`
					} `json:"textInferenceConfig"`
				} `json:"inferenceConfig"`
			} `json:"generationConfiguration"`
		} `json:"knowledgeBaseConfiguration"`
	} `json:"retrieveAndGenerateConfiguration"`
}

type retrieveResponse struct {
	Output struct {
		Text string `json:"text"`
	} `json:"output"`
	Citations []struct {
		RetrievedReferences []struct {
			Content struct {
				Text string `json:"text"`
			} `json:"content"`
			Location struct {
				S3Location struct {
					URI string `json:"uri"`
				} `json:"s3Location"`
			} `json:"location"`
		} `json:"retrievedReferences"`
	} `json:"citations"`
}

func (c *Client) buildRequest(question string, settings Settings) *retrieveRequest {
	req := &retrieveRequest{}
	req.Input.Text = question

	kb := &req.RetrieveAndGenerateConfiguration
	kb.Type = "KNOWLEDGE_BASE"
	kb.KnowledgeBaseConfiguration.KnowledgeBaseID = c.cfg.KnowledgeBaseID
	kb.KnowledgeBaseConfiguration.ModelArn = c.cfg.Model

	search := &kb.KnowledgeBaseConfiguration.RetrievalConfiguration.VectorSearchConfiguration
	search.NumberOfResults = settings.NumChunks
	search.OverrideSearchType = settings.SearchMode

	gen := &kb.KnowledgeBaseConfiguration.GenerationConfiguration.InferenceConfig.TextInferenceConfig
	gen.MaxTokens = settings.MaxTokens
	gen.Temperature = settings.Temperature

	return req
}

// Answer runs the retrieve-and-generate call for one question. Only
// throttling errors are retried, up to RetryMax attempts with doubling
// backoff; the attempt count is recorded on the result.
func (c *Client) Answer(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, pitwallErrors.InvalidInput("regulations query is empty")
	}

	settings := SettingsFor(c.cfg, question)

	body, err := json.Marshal(c.buildRequest(question, settings))
	if err != nil {
		return nil, pitwallErrors.Wrap(err, "encode retrieve request")
	}

	maxAttempts := c.cfg.RetryMax
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	start := time.Now()

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		parsed, err := c.doOnce(ctx, body)
		if err == nil {
			answer := toAnswer(parsed, settings)
			answer.Attempts = attempt
			answer.Latency = time.Since(start)
			return answer, nil
		}

		lastErr = err
		if !c.mapper.IsRetryable(err) || attempt == maxAttempts {
			break
		}

		delay := c.backoff * (1 << (attempt - 1))
		slog.Warn("Regulations backend throttled, retrying",
			"attempt", attempt, "delay", delay)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, lastErr
}

func (c *Client) doOnce(ctx context.Context, body []byte) (*retrieveResponse, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/knowledgebases/%s/retrieveandgenerate",
		strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.KnowledgeBaseID)
	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, pitwallErrors.Wrap(err, "build retrieve request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, c.mapper.MapError(err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.mapper.MapError(err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusTooManyRequests || strings.Contains(string(payload), "ThrottlingException") {
			return nil, pitwallErrors.Throttled(fmt.Sprintf("knowledge base returned status %d", resp.StatusCode))
		}
		return nil, c.mapper.MapError(fmt.Errorf("knowledge base returned status %d: %s", resp.StatusCode, payload))
	}

	var parsed retrieveResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, pitwallErrors.Wrap(err, "decode retrieve response")
	}

	return &parsed, nil
}

func toAnswer(parsed *retrieveResponse, settings Settings) *Answer {
	answer := &Answer{
		Text:     parsed.Output.Text,
		Settings: settings,
	}

	for _, citation := range parsed.Citations {
		for _, ref := range citation.RetrievedReferences {
			answer.Citations = append(answer.Citations, Citation{
				Source:  ref.Location.S3Location.URI,
				Excerpt: ref.Content.Text,
			})
		}
	}

	return answer
}
