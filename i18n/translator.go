package i18n

import (
	"strings"
	"sync/atomic"
)

// Translator retrieves localized messages for error codes.
// data provides optional parameters to embed in the message; "{name}"
// placeholders are replaced by data["name"].
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var en = map[string]string{
	"REQUIRED":                "required",
	"INVALID_TYPE":            "expected {expected}",
	"UNKNOWN_KEY":             "unknown key",
	"MIN_LENGTH":              "must be at least {min} characters",
	"MAX_LENGTH":              "must be at most {max} characters",
	"INVALID_LENGTH":          "must be exactly {length} characters",
	"INVALID_EMAIL":           "invalid email address",
	"INVALID_URL":             "invalid URL",
	"INVALID_UUID":            "invalid UUID",
	"INVALID_PHONE":           "invalid phone number",
	"INVALID_IP":              "invalid IP address",
	"NOT_ALPHANUMERIC":        "must contain only letters and digits",
	"PATTERN_MISMATCH":        "does not match the required pattern",
	"INVALID_PREFIX":          "must start with {prefix}",
	"INVALID_SUFFIX":          "must end with {suffix}",
	"MISSING_SUBSTRING":       "must contain {substring}",
	"MIN_VALUE":               "must be at least {min}",
	"MAX_VALUE":               "must be at most {max}",
	"NOT_INTEGER":             "must be an integer",
	"NOT_POSITIVE":            "must be positive",
	"NOT_NEGATIVE":            "must be negative",
	"NOT_MULTIPLE_OF":         "must be a multiple of {value}",
	"MIN_DATE":                "must be on or after {min}",
	"MAX_DATE":                "must be on or before {max}",
	"MIN_ITEMS":               "must contain at least {min} items",
	"MAX_ITEMS":               "must contain at most {max} items",
	"DUPLICATE_ITEMS":         "items must be unique",
	"INVALID_ENUM":            "must be one of {values}",
	"NOT_EQUAL":               "must equal {value}",
	"FIELD_COMPARISON":        "must be {op} {field}",
	"CUSTOM_VALIDATION":       "invalid value",
	"ASYNC_VALIDATION_ERROR":  "async validation could not complete",
	"ASYNC_VALIDATION_FAILED": "async validation failed",
	"ASYNC_TIMEOUT":           "async validation timed out after {timeout}ms",
	"NOT_UNIQUE":              "already taken",
}

var ja = map[string]string{
	"REQUIRED":                "必須項目です",
	"INVALID_TYPE":            "{expected} 型である必要があります",
	"UNKNOWN_KEY":             "未知のキーです",
	"MIN_LENGTH":              "{min} 文字以上で入力してください",
	"MAX_LENGTH":              "{max} 文字以内で入力してください",
	"INVALID_LENGTH":          "{length} 文字で入力してください",
	"INVALID_EMAIL":           "メールアドレスの形式が不正です",
	"INVALID_URL":             "URL の形式が不正です",
	"INVALID_UUID":            "UUID の形式が不正です",
	"INVALID_PHONE":           "電話番号の形式が不正です",
	"INVALID_IP":              "IP アドレスの形式が不正です",
	"NOT_ALPHANUMERIC":        "英数字のみ使用できます",
	"PATTERN_MISMATCH":        "形式が一致しません",
	"INVALID_PREFIX":          "{prefix} で始まる必要があります",
	"INVALID_SUFFIX":          "{suffix} で終わる必要があります",
	"MISSING_SUBSTRING":       "{substring} を含む必要があります",
	"MIN_VALUE":               "{min} 以上である必要があります",
	"MAX_VALUE":               "{max} 以下である必要があります",
	"NOT_INTEGER":             "整数である必要があります",
	"NOT_POSITIVE":            "正の数である必要があります",
	"NOT_NEGATIVE":            "負の数である必要があります",
	"NOT_MULTIPLE_OF":         "{value} の倍数である必要があります",
	"MIN_DATE":                "{min} 以降の日付である必要があります",
	"MAX_DATE":                "{max} 以前の日付である必要があります",
	"MIN_ITEMS":               "{min} 件以上必要です",
	"MAX_ITEMS":               "{max} 件以内にしてください",
	"DUPLICATE_ITEMS":         "要素が重複しています",
	"INVALID_ENUM":            "{values} のいずれかである必要があります",
	"NOT_EQUAL":               "{value} と一致する必要があります",
	"FIELD_COMPARISON":        "{field} と比較して {op} である必要があります",
	"CUSTOM_VALIDATION":       "値が不正です",
	"ASYNC_VALIDATION_ERROR":  "非同期検証を完了できませんでした",
	"ASYNC_VALIDATION_FAILED": "非同期検証に失敗しました",
	"ASYNC_TIMEOUT":           "非同期検証が {timeout}ms でタイムアウトしました",
	"NOT_UNIQUE":              "既に使用されています",
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	dict := en
	if t.lang == "ja" {
		dict = ja
	}
	msg, ok := dict[code]
	if !ok {
		if msg, ok = en[code]; !ok {
			return code
		}
	}
	return Interpolate(msg, data)
}

// Interpolate replaces "{key}" placeholders with data values. Unknown
// placeholders are left as-is.
func Interpolate(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

type holder struct{ tr Translator }

var current atomic.Pointer[holder]

func init() { current.Store(&holder{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&holder{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&holder{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
