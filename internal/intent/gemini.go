package intent

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/example/booking-mediator/internal/booking"
)

const extractionInstruction = "次のユーザー文から予約の意図を抽出し、JSONのみを返してください。" +
	"出力形式は以下のキーを持つJSONです。\n" +
	"intent: \"new\" | \"change\" | \"cancel\"\n" +
	"start_iso: RFC3339 (新規/変更の開始日時)\n" +
	"end_iso: RFC3339 (新規/変更の終了日時)\n" +
	"target_start_iso: RFC3339 (変更/キャンセル対象の開始日時、分かる場合)\n" +
	"summary: 短い用件\n" +
	"notes: 補足\n" +
	"timezone: IANAタイムゾーン\n" +
	"confidence: 0-1\n" +
	"不明な項目は null を設定。"

const refusalInstruction = "以下の予約依頼は予定が重複しています。" +
	"丁寧な断り文と、その日の別の空き時間の提案を含む返信文を作成してください。" +
	"候補は2〜3件に絞り、日本語で簡潔に。"

// Gemini extracts scheduling intents and composes refusal replies through
// the Gemini API. One instance is safe for concurrent use.
type Gemini struct {
	client *genai.Client
	model  string
	cfg    booking.Config
}

// NewGemini dials the Gemini API with the given key and model name.
func NewGemini(ctx context.Context, apiKey, model string, cfg booking.Config) (*Gemini, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("intent: create gemini client: %w", err)
	}
	return &Gemini{client: client, model: model, cfg: cfg}, nil
}

// Close releases the underlying API connection.
func (g *Gemini) Close() error {
	if g == nil || g.client == nil {
		return nil
	}
	return g.client.Close()
}

// ExtractIntent asks the model for the structured intent behind text and
// normalizes the answer. Malformed model output is an error for the caller
// to treat as an upstream failure, never a panic.
func (g *Gemini) ExtractIntent(ctx context.Context, text string, mode Mode) (booking.Intent, error) {
	prompt := fmt.Sprintf("%s\nユーザー文: %s", extractionInstruction, text)
	answer, err := g.generate(ctx, mode, prompt)
	if err != nil {
		return booking.Intent{}, err
	}
	raw, err := ParsePayload(answer)
	if err != nil {
		return booking.Intent{}, err
	}
	return Normalize(raw, g.cfg)
}

// ComposeRefusal writes the polite decline reply offering the free slots.
func (g *Gemini) ComposeRefusal(ctx context.Context, mode Mode, text string, slots []string) (string, error) {
	slotBlock := "該当日に空き時間が見つかりませんでした。"
	if len(slots) > 0 {
		slotBlock = strings.Join(slots, "\n")
	}
	prompt := fmt.Sprintf("%s\n依頼文: %s\n空き時間候補:\n%s", refusalInstruction, text, slotBlock)
	answer, err := g.generate(ctx, mode, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}

func (g *Gemini) generate(ctx context.Context, mode Mode, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(mode.SystemPrompt())},
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("intent: generate content: %w", err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("intent: model returned no text")
	}
	return sb.String(), nil
}
