package station

import "context"

// StopsURL is the Vienna open-data WFS query for all public-transit stops.
const StopsURL = "https://data.wien.gv.at/daten/geo?service=WFS&request=GetFeature&version=1.1.0&typeName=ogdwien:OEFFHALTESTOGD&srsName=EPSG:4326&outputFormat=json"

// TextFetcher retrieves the raw stop document. ok is false on any failure.
type TextFetcher interface {
	Fetch(ctx context.Context) (text string, ok bool)
}
