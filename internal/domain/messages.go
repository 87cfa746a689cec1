package domain

import "fmt"

// User-facing texts shown by the front-end.
const (
	MsgNoPlaces          = "Žádná místa k zobrazení"
	MsgDetailErrorTitle  = "Chyba načítání místa"
	MsgServerUnreachable = "Server není dostupný"
	MsgServerOffline     = "Server offline"
	MsgChatFailed        = "Omlouvám se, došlo k chybě při zpracování vaší zprávy. Zkuste to prosím znovu."
	MsgMissingID         = "Chybí ID místa"
	MsgNoName            = "Bez názvu"
	MsgNoDescription     = "Žádný popis není k dispozici."
	MsgNoOpeningHours    = "Informace nejsou k dispozici"

	LabelTopRecommendation = "💝 TOP DOPORUČENÍ"
	LabelChatbotPick       = "💝 DOPORUČENÍ CHATBOTA"
)

func MsgPlaceNotFound(id string) string {
	return fmt.Sprintf("Místo s ID \"%s\" nebylo nalezeno v databázi", id)
}

func MsgAPIError(code int) string {
	return fmt.Sprintf("API error: %d", code)
}

func MsgConnected(places int) string {
	return fmt.Sprintf("Připojeno - %d míst", places)
}

func NavigateURL(c Coordinates) string {
	return fmt.Sprintf("https://www.google.com/maps/dir/?api=1&destination=%v,%v", c.Lat, c.Lon)
}
