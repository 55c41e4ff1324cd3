package i18n

import (
	"strings"
	"sync/atomic"
)

// Message keys for the default failure texts.
const (
	Invalid              = "invalid"
	CantCoerce           = "cant_coerce"
	PresentFailed        = "present_failed"
	ExpectedCollection   = "expected_collection"
	MustEqual            = "must_equal"
	NoVariant            = "no_variant"
	DiscriminatorMissing = "discriminator_missing"
	DiscriminatorUnknown = "discriminator_unknown"
)

// Translator retrieves localized messages for message keys.
// data provides values substituted into {name} placeholders.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dictionaries = map[string]map[string]string{
	"en": {
		Invalid:              "is invalid",
		CantCoerce:           "can't coerce {value} to {type}",
		PresentFailed:        "present failed",
		ExpectedCollection:   "must be a collection",
		MustEqual:            "must be {value}",
		NoVariant:            "matches none of {count} schemas",
		DiscriminatorMissing: "is missing discriminator {key}",
		DiscriminatorUnknown: "has unknown variant {value}",
	},
	"ja": {
		Invalid:              "不正な値です",
		CantCoerce:           "{value} を {type} に変換できません",
		PresentFailed:        "表示変換に失敗しました",
		ExpectedCollection:   "コレクションである必要があります",
		MustEqual:            "{value} である必要があります",
		NoVariant:            "{count} 個のスキーマのいずれにも一致しません",
		DiscriminatorMissing: "判別キー {key} がありません",
		DiscriminatorUnknown: "未知のバリアント {value} です",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	tmpl, ok := dictionaries[t.lang][code]
	if !ok {
		tmpl, ok = dictionaries["en"][code]
	}
	if !ok {
		return code
	}
	return expand(tmpl, data)
}

func expand(tmpl string, data map[string]string) string {
	if len(data) == 0 {
		return tmpl
	}
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// current holds the active Translator. It is swapped atomically so that
// processing on other goroutines always sees a complete value.
var current atomic.Pointer[translatorBox]

// translatorBox gives every Translator implementation one concrete type.
type translatorBox struct{ tr Translator }

func init() { current.Store(&translatorBox{tr: dictTranslator{lang: "en"}}) }

// SetLanguage switches the built-in Translator language ("en"/"ja").
// It is safe to call while other goroutines process entities.
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	current.Store(&translatorBox{tr: dictTranslator{lang: lang}})
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores the English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	current.Store(&translatorBox{tr: tr})
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return current.Load().tr.Message(code, data) }
