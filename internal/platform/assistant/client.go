// Package assistant wraps the hosted language-model API that powers the
// kiosk's conversational front end. It turns free-form Korean utterances
// into a structured intent the domain services can act on.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Intent is the structured interpretation of one user utterance.
type Intent struct {
	Intent     string `json:"intent"`
	Parameters struct {
		Name            string `json:"name"`
		RRN             string `json:"rrn"`
		Symptom         string `json:"symptom"`
		Department      string `json:"department"`
		Time            string `json:"time"`
		Location        string `json:"location"`
		Doctor          string `json:"doctor"`
		CertificateType string `json:"certificate_type"`
		PaymentStage    string `json:"payment_stage"`
		PaymentMethod   string `json:"payment_method"`
	} `json:"parameters"`
	Reply     string `json:"reply"`
	UserQuery string `json:"user_query,omitempty"`
}

// systemPrompt teaches the model to emit one JSON intent object per
// utterance. Kept in Korean to match the kiosk's audience.
const systemPrompt = `당신은 병원 키오스크 도우미입니다. 사용자의 발화를 분석해
intent(reception, payment, certificate, general 중 하나)와 parameters를 담은
JSON 객체 하나만 출력하세요. parameters에는 name, rrn, symptom, department,
certificate_type(처방전/진료확인서), payment_stage(initial/confirmation),
payment_method(cash/card) 중 발화에서 확인된 값만 채우고, reply에는 사용자에게
보여줄 짧은 한국어 응답을 넣으세요. JSON 외의 텍스트는 출력하지 마세요.`

// Client calls a generateContent-style completion endpoint.
type Client struct {
	http   *resty.Client
	apiKey string
	model  string
	logger zerolog.Logger
}

func NewClient(baseURL, apiKey, model string, logger zerolog.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(30 * time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(3 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: httpClient, apiKey: apiKey, model: model, logger: logger}
}

type generateRequest struct {
	Contents          []content `json:"contents"`
	SystemInstruction *content  `json:"systemInstruction,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// Extract sends one utterance and returns the parsed intent.
func (c *Client) Extract(ctx context.Context, utterance string) (*Intent, error) {
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemPrompt}}},
		Contents: []content{
			{Role: "user", Parts: []part{{Text: utterance}}},
		},
	}

	var out generateResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(req).
		SetResult(&out).
		Post(fmt.Sprintf("/v1beta/models/%s:generateContent", c.model))
	if err != nil {
		c.logger.Error().Err(err).Msg("assistant API call failed")
		return nil, fmt.Errorf("assistant request: %w", err)
	}
	if resp.IsError() {
		c.logger.Error().Int("status", resp.StatusCode()).Msg("assistant API returned error status")
		return nil, fmt.Errorf("assistant request: status %d", resp.StatusCode())
	}
	if out.Error != nil {
		return nil, fmt.Errorf("assistant API error: %s (code %d)", out.Error.Message, out.Error.Code)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("assistant returned no candidates")
	}

	intent, err := ParseIntent(out.Candidates[0].Content.Parts[0].Text)
	if err != nil {
		return nil, err
	}
	intent.UserQuery = utterance
	return intent, nil
}

// ParseIntent decodes a model reply into an Intent, tolerating the markdown
// code fences models tend to wrap JSON in.
func ParseIntent(raw string) (*Intent, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	var intent Intent
	if err := json.Unmarshal([]byte(s), &intent); err != nil {
		return nil, fmt.Errorf("parse assistant reply: %w", err)
	}
	if intent.Intent == "" {
		intent.Intent = "general"
	}
	return &intent, nil
}
