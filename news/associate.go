package news

import (
	"strings"

	"github.com/ghazalyy/SSIP-App/shared"
)

// AssociateInstrument finds the tracked instrument a news item relates to by
// matching symbols against the item's title and summary, first match in
// universe order wins. Items matching no instrument are attributed to the
// placeholder symbol.
func AssociateInstrument(universe []shared.Instrument, item *shared.NewsItem) string {
	text := strings.ToUpper(item.Title + " " + item.Summary)

	for idx := range universe {
		if strings.Contains(text, strings.ToUpper(universe[idx].Symbol)) {
			return universe[idx].Symbol
		}
	}

	return shared.PlaceholderSymbol
}
