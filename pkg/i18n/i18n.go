// Package i18n holds the two fixed UI string sets the client ships with.
// This is deliberately not a translation framework: the widget supports
// exactly English and Arabic, hardcoded.
package i18n

import "fmt"

// Language selects one of the two supported UI presentations.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// Direction is the text direction of a language.
type Direction int

const (
	LeftToRight Direction = iota
	RightToLeft
)

// Parse validates a language code.
func Parse(s string) (Language, error) {
	switch Language(s) {
	case English:
		return English, nil
	case Arabic:
		return Arabic, nil
	default:
		return "", fmt.Errorf("unsupported language %q (want %q or %q)", s, English, Arabic)
	}
}

// Direction returns the text direction for the language.
func (l Language) Direction() Direction {
	if l == Arabic {
		return RightToLeft
	}
	return LeftToRight
}

// Bundle is the full set of static labels, placeholders and canned
// messages for one language.
type Bundle struct {
	Title              string
	Welcome            string
	Thinking           string
	InputPlaceholder   string
	Send               string
	NewChat            string
	ToggleLanguage     string
	ClientLabel        string
	SessionPrefix      string
	SelectClientAlert  string
	RequestFailed      string
	FeedbackThanks     string
	CommentPlaceholder string
	Like               string
	Dislike            string
	Comment            string
}

var bundles = map[Language]Bundle{
	English: {
		Title:              "RaMi — Relationship Manager Assistant",
		Welcome:            "Hello! I am RaMi, your relationship manager assistant. How can I help you today?",
		Thinking:           "Thinking...",
		InputPlaceholder:   "Type your question here...",
		Send:               "Send",
		NewChat:            "New Chat",
		ToggleLanguage:     "العربية",
		ClientLabel:        "Client",
		SessionPrefix:      "Session",
		SelectClientAlert:  "Please select a client before sending a message.",
		RequestFailed:      "Sorry, something went wrong. Please try again.",
		FeedbackThanks:     "Thank you for your feedback!",
		CommentPlaceholder: "Tell us more...",
		Like:               "Like",
		Dislike:            "Dislike",
		Comment:            "Comment",
	},
	Arabic: {
		Title:              "رامي — مساعد مدير العلاقات",
		Welcome:            "مرحباً! أنا رامي، مساعد مدير العلاقات. كيف يمكنني مساعدتك اليوم؟",
		Thinking:           "جارٍ التفكير...",
		InputPlaceholder:   "اكتب سؤالك هنا...",
		Send:               "إرسال",
		NewChat:            "محادثة جديدة",
		ToggleLanguage:     "English",
		ClientLabel:        "العميل",
		SessionPrefix:      "الجلسة",
		SelectClientAlert:  "يرجى اختيار عميل قبل إرسال الرسالة.",
		RequestFailed:      "عذراً، حدث خطأ ما. يرجى المحاولة مرة أخرى.",
		FeedbackThanks:     "شكراً لملاحظاتك!",
		CommentPlaceholder: "أخبرنا المزيد...",
		Like:               "أعجبني",
		Dislike:            "لم يعجبني",
		Comment:            "تعليق",
	},
}

// Bundle returns the string set for the language. Unknown languages fall
// back to English.
func (l Language) Bundle() Bundle {
	if b, ok := bundles[l]; ok {
		return b
	}
	return bundles[English]
}
