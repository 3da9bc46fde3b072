package i18n

import "sync/atomic"

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "value").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	var msg string
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			msg = "型が不正です"
		case "required":
			msg = "必須フィールドが不足しています"
		case "invalid_enum":
			msg = "許可されていない値です"
		case "schema_mismatch":
			msg = "どのバリアントにも一致しません"
		case "duplicate_key":
			msg = "キーが重複しています"
		case "parse_error":
			msg = "解析エラー"
		case "overflow":
			msg = "範囲外の数値です"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			msg = "invalid type"
		case "required":
			msg = "required field missing"
		case "invalid_enum":
			msg = "value not in enum"
		case "schema_mismatch":
			msg = "no variant matched"
		case "duplicate_key":
			msg = "duplicate key"
		case "parse_error":
			msg = "parse error"
		case "overflow":
			msg = "number out of range"
		}
	}
	if msg == "" {
		return code
	}
	if exp, ok := data["expected"]; ok && exp != "" {
		msg += " (expected " + exp + ")"
	}
	return msg
}

var currentTranslator atomic.Value

func init() { currentTranslator.Store(Translator(dictTranslator{lang: "en"})) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator.Store(Translator(dictTranslator{lang: lang}))
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	currentTranslator.Store(tr)
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	return currentTranslator.Load().(Translator).Message(code, data)
}
