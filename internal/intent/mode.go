// Package intent turns free-form user text into the structured scheduling
// intent the booking engine consumes. Extraction is delegated to the Gemini
// API; this package owns mode detection, lenient recovery of the model's
// JSON output, and normalization into timezone-aware instants with the
// configured defaults applied.
package intent

import "strings"

// Mode selects the assistant persona used for extraction and replies.
type Mode string

const (
	// ModeDental handles dental clinic reservations.
	ModeDental Mode = "dental"
	// ModeLogistics handles pickup and delivery bookings.
	ModeLogistics Mode = "logistics"
	// ModeProfessional handles consultation scheduling for professional services.
	ModeProfessional Mode = "professional"
)

var modeKeywords = map[Mode][]string{
	ModeDental:       {"歯科", "歯医者", "検診", "治療", "クリーニング", "dental"},
	ModeLogistics:    {"物流", "集荷", "配送", "発送", "荷物", "引き取り", "logistics"},
	ModeProfessional: {"面談", "相談", "打ち合わせ", "士業", "税理", "法律", "社労士", "行政書士", "professional"},
}

var modePrompts = map[Mode]string{
	ModeDental: "あなたは歯科の予約管理アシスタントです。患者への案内は丁寧で簡潔に。" +
		"治療や検診の予約の自然な表現を理解し、要件の抜けがあれば穏やかに確認します。",
	ModeLogistics: "あなたは物流の集荷受付アシスタントです。集荷依頼の日時や条件を丁寧に確認します。" +
		"荷物の集荷や配送の表現を理解し、業務的で丁寧な文体で対応します。",
	ModeProfessional: "あなたは士業の面談調整アシスタントです。相談や面談の予定調整を丁寧に案内します。" +
		"日程の変更・キャンセルにも誠実で丁寧に対応します。",
}

// DetectMode classifies the request by keyword scan, falling back to the
// dental persona when nothing matches.
func DetectMode(text string) Mode {
	for _, mode := range []Mode{ModeDental, ModeLogistics, ModeProfessional} {
		for _, kw := range modeKeywords[mode] {
			if strings.Contains(text, kw) {
				return mode
			}
		}
	}
	return ModeDental
}

// SystemPrompt returns the persona prompt for the mode.
func (m Mode) SystemPrompt() string {
	if prompt, ok := modePrompts[m]; ok {
		return prompt
	}
	return modePrompts[ModeDental]
}
