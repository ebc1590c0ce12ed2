package screen

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const generalErrorKey = "general_error"

var (
	supportedLocales = []language.Tag{language.English, language.German}
	localeMatcher    = language.NewMatcher(supportedLocales)
)

func init() {
	_ = message.SetString(language.English, generalErrorKey, "Could not load the station list. Please try again later.")
	_ = message.SetString(language.German, generalErrorKey, "Die Stationsliste konnte nicht geladen werden. Bitte versuche es später erneut.")
}

// GeneralError returns the generic load failure message for locale. Unknown
// or malformed locales fall back to English.
func GeneralError(locale string) string {
	tag := language.English
	if parsed, err := language.Parse(locale); err == nil {
		if _, index, confidence := localeMatcher.Match(parsed); confidence != language.No {
			tag = supportedLocales[index]
		}
	}
	return message.NewPrinter(tag).Sprintf(generalErrorKey)
}

// Notifier presents a short message to the user.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}

// LogNotifier writes notifications to the log.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Warn().Str("notification", message).Msg("User notification")
}
